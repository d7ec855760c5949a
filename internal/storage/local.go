package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"

	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder

	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	// ThumbMaxSize bounds the WebP thumbnail written next to each blob.
	ThumbMaxSize = 256
	// WebPQuality is the encode quality for thumbnails.
	WebPQuality = 70

	thumbSuffix = "_thumb.webp"
)

// LocalStore writes blobs to a directory served under /media. Each upload
// produces the blob itself plus a small WebP thumbnail for feed views.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore returns a store rooted at dir, issuing URLs under baseURL.
func NewLocalStore(dir, baseURL string) *LocalStore {
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Dir returns the directory blobs are written to, for static mounting.
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Upload(ctx context.Context, content []byte, filename, folder string) (*UploadResult, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("empty content")
	}

	detectedType := http.DetectContentType(content)
	if !isAllowedImageMIME(detectedType) {
		return nil, fmt.Errorf("%w %q", ErrUnsupportedType, detectedType)
	}

	ext := extensionFor(filename, detectedType)
	objectID := filepath.ToSlash(filepath.Join(folder, uuid.NewString()+ext))
	blobPath := filepath.Join(s.dir, filepath.FromSlash(objectID))

	if err := writeBytesToFile(blobPath, content); err != nil {
		return nil, fmt.Errorf("write blob: %w", err)
	}

	// Thumbnail failures are tolerated; the full image still renders.
	if thumb, err := encodeThumbnail(content); err == nil {
		_ = writeBytesToFile(thumbPath(blobPath), thumb)
	}

	return &UploadResult{
		URL:      s.baseURL + "/media/" + objectID,
		ObjectID: objectID,
	}, nil
}

func (s *LocalStore) Fetch(ctx context.Context, objectID string) ([]byte, error) {
	clean, err := s.cleanPath(objectID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(clean)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *LocalStore) Delete(ctx context.Context, objectID string) bool {
	clean, err := s.cleanPath(objectID)
	if err != nil {
		return false
	}
	_ = os.Remove(thumbPath(clean))
	return os.Remove(clean) == nil
}

// cleanPath resolves an object ID inside the store directory, rejecting
// traversal outside it.
func (s *LocalStore) cleanPath(objectID string) (string, error) {
	p := filepath.Join(s.dir, filepath.FromSlash(objectID))
	absDir, err := filepath.Abs(s.dir)
	if err != nil {
		return "", err
	}
	absPath, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if absPath != absDir && !strings.HasPrefix(absPath, absDir+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid object id %q", objectID)
	}
	return absPath, nil
}

func thumbPath(blobPath string) string {
	ext := filepath.Ext(blobPath)
	return strings.TrimSuffix(blobPath, ext) + thumbSuffix
}

func encodeThumbnail(content []byte) ([]byte, error) {
	decoded, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	thumb := resizeToFit(decoded, ThumbMaxSize, ThumbMaxSize)
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, thumb, &webp.Options{Quality: WebPQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func extensionFor(filename, detectedType string) string {
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" {
		return ext
	}
	switch normalizeContentType(detectedType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}

func writeBytesToFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
