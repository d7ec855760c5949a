package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"hayai/internal/config"
	"hayai/internal/database"
	"hayai/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// transformerStub returns the source bytes with a marker suffix so the
// transformed blob is distinguishable from the original.
type transformerStub struct {
	calls int32
	fail  bool
}

func (t *transformerStub) Transform(_ context.Context, image []byte, _ string) ([]byte, error) {
	atomic.AddInt32(&t.calls, 1)
	if t.fail {
		return nil, fmt.Errorf("transform backend unavailable")
	}
	return append(append([]byte{}, image...), []byte("-transformed")...), nil
}

type testEnv struct {
	server      *Server
	app         *fiber.App
	store       *testutil.BlobStoreStub
	transformer *transformerStub
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	cfg := &config.Config{
		JWTSecret:       "test-secret-test-secret-test-secret",
		Port:            "0",
		Env:             "test",
		AvatarDir:       t.TempDir(),
		MaxUploadSizeMB: 10,
	}

	store := testutil.NewBlobStoreStub()
	transformer := &transformerStub{}

	srv, err := NewServerWithDeps(cfg, db, nil, store, transformer)
	require.NoError(t, err)

	app := fiber.New()
	srv.SetupRoutes(app)

	return &testEnv{server: srv, app: app, store: store, transformer: transformer}
}

// doJSON issues a request with an optional JSON body and bearer token.
func (e *testEnv) doJSON(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// signupUser registers an account through the API and returns its token and ID.
func (e *testEnv) signupUser(t *testing.T, username string) (token string, userID uint) {
	t.Helper()

	resp := e.doJSON(t, http.MethodPost, "/api/auth/signup", "", map[string]any{
		"username":       username,
		"email":          username + "@example.com",
		"password":       "drawing-pass-1",
		"terms_accepted": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	decodeBody(t, resp, &body)
	require.NotEmpty(t, body.Token)
	return body.Token, body.User.ID
}

// uploadDrawing posts a small PNG as a multipart upload and returns the
// new post's image ID.
func (e *testEnv) uploadDrawing(t *testing.T, token string) string {
	t.Helper()

	buf := bytes.NewBuffer(nil)
	writer := multipart.NewWriter(buf)
	part, err := writer.CreateFormFile("image", "drawing.png")
	require.NoError(t, err)
	_, err = part.Write(testutil.BuildPNG(32, 32))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/posts", buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var post struct {
		ImageID string `json:"image_id"`
		Status  string `json:"status"`
	}
	decodeBody(t, resp, &post)
	require.NotEmpty(t, post.ImageID)
	require.Equal(t, "pending_transform", post.Status)
	return post.ImageID
}

// publishPost uploads and transforms a drawing into a public approved post.
func (e *testEnv) publishPost(t *testing.T, token string) string {
	t.Helper()

	imageID := e.uploadDrawing(t, token)
	resp := e.doJSON(t, http.MethodPost, "/api/posts/"+imageID+"/transform", token, map[string]any{
		"style":      "cartoon",
		"visibility": "public",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()
	return imageID
}
