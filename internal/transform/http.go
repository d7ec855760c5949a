package transform

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"hayai/internal/config"

	xdraw "golang.org/x/image/draw"

	_ "image/gif" // Register GIF decoder
	_ "image/png" // Register PNG decoder
)

const (
	editModel   = "gpt-image-1"
	jpegQuality = 80

	// Sizes the edit API accepts. The closest one to the source aspect
	// ratio is requested and the result is scaled back afterwards.
	sizeLandscape = "1536x1024"
	sizePortrait  = "1024x1536"
	sizeSquare    = "1024x1024"
)

// HTTPClient is the transport used for transform calls.
type HTTPClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPClient builds a transform client from configuration.
func NewHTTPClient(cfg *config.Config) *HTTPClient {
	timeout := time.Duration(cfg.TransformTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &HTTPClient{
		endpoint: cfg.TransformAPIURL,
		apiKey:   cfg.TransformAPIKey,
		client:   &http.Client{Timeout: timeout},
	}
}

type editResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Transform sends the drawing to the edit endpoint and returns the
// re-rendered image at the original dimensions.
func (t *HTTPClient) Transform(ctx context.Context, source []byte, prompt string) ([]byte, error) {
	decoded, _, err := image.Decode(bytes.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("decode source image: %w", err)
	}
	bounds := decoded.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	body, contentType, err := buildEditRequestBody(source, prompt, apiSizeFor(width, height))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	if t.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transform request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return nil, fmt.Errorf("read transform response: %w", err)
	}

	var parsed editResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse transform response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := "transform service error"
		if parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		return nil, fmt.Errorf("%s (status %d)", msg, resp.StatusCode)
	}
	if len(parsed.Data) == 0 || parsed.Data[0].B64JSON == "" {
		return nil, fmt.Errorf("transform response contained no image")
	}

	resultBytes, err := base64.StdEncoding.DecodeString(parsed.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decode transform payload: %w", err)
	}

	// Scale back to the source dimensions so the composition matches.
	result, _, err := image.Decode(bytes.NewReader(resultBytes))
	if err != nil {
		return nil, fmt.Errorf("decode transformed image: %w", err)
	}
	scaled := scaleTo(result, width, height)

	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, scaled, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode transformed image: %w", err)
	}
	return buf.Bytes(), nil
}

// apiSizeFor maps the source aspect ratio onto the sizes the API accepts.
func apiSizeFor(width, height int) string {
	if height <= 0 {
		return sizeSquare
	}
	ratio := float64(width) / float64(height)
	switch {
	case ratio > 1.2:
		return sizeLandscape
	case ratio < 0.8:
		return sizePortrait
	default:
		return sizeSquare
	}
}

func buildEditRequestBody(source []byte, prompt, size string) (*bytes.Buffer, string, error) {
	body := bytes.NewBuffer(nil)
	writer := multipart.NewWriter(body)

	if err := writer.WriteField("model", editModel); err != nil {
		return nil, "", err
	}
	if err := writer.WriteField("prompt", prompt); err != nil {
		return nil, "", err
	}
	if err := writer.WriteField("size", size); err != nil {
		return nil, "", err
	}

	part, err := writer.CreateFormFile("image", "image.png")
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(source); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}

func scaleTo(src image.Image, width, height int) image.Image {
	bounds := src.Bounds()
	if bounds.Dx() == width && bounds.Dy() == height {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}
