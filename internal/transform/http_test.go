package transform

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"net/http"
	"net/http/httptest"
	"testing"

	"hayai/internal/config"
	"hayai/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, url string) *HTTPClient {
	t.Helper()
	return NewHTTPClient(&config.Config{
		TransformAPIURL:      url,
		TransformAPIKey:      "sk-test",
		TransformTimeoutSecs: 5,
	})
}

func TestHTTPClient_Transform(t *testing.T) {
	t.Parallel()

	rendered := testutil.BuildPNG(32, 32)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(32<<20))
		assert.Equal(t, editModel, r.FormValue("model"))
		assert.Equal(t, "make it shiny", r.FormValue("prompt"))
		assert.Equal(t, sizeLandscape, r.FormValue("size"), "wide source selects landscape size")

		file, _, err := r.FormFile("image")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()

		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]string{
				{"b64_json": base64.StdEncoding.EncodeToString(rendered)},
			},
		})
	}))
	defer srv.Close()

	source := testutil.BuildPNG(200, 100)
	out, err := newClient(t, srv.URL).Transform(context.Background(), source, "make it shiny")
	require.NoError(t, err)

	// Output is scaled back to the source dimensions
	decoded, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 200, decoded.Bounds().Dx())
	assert.Equal(t, 100, decoded.Bounds().Dy())
}

func TestHTTPClient_TransformServiceError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintln(w, `{"error":{"message":"prompt violates policy"}}`)
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).Transform(context.Background(), testutil.BuildPNG(16, 16), "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompt violates policy")
}

func TestHTTPClient_TransformEmptyData(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"data":[]}`)
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).Transform(context.Background(), testutil.BuildPNG(16, 16), "x")
	assert.Error(t, err)
}

func TestHTTPClient_TransformBadSource(t *testing.T) {
	t.Parallel()

	_, err := newClient(t, "http://unused.test").Transform(context.Background(), []byte("not an image"), "x")
	assert.Error(t, err)
}

func TestAPISizeFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, sizeLandscape, apiSizeFor(1920, 1080))
	assert.Equal(t, sizePortrait, apiSizeFor(1080, 1920))
	assert.Equal(t, sizeSquare, apiSizeFor(1000, 1000))
	assert.Equal(t, sizeSquare, apiSizeFor(1100, 1000))
	assert.Equal(t, sizeSquare, apiSizeFor(100, 0))
}
