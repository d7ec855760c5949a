// Package testutil provides shared test doubles and fixtures for backend tests.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"

	"hayai/internal/storage"
)

// BuildPNG encodes a solid-color PNG of the given dimensions for upload tests.
func BuildPNG(width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fill := color.RGBA{R: 90, G: 140, B: 210, A: 255}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, fill)
		}
	}
	buf := bytes.NewBuffer(nil)
	_ = png.Encode(buf, img)
	return buf.Bytes()
}

// BlobStoreStub is an in-memory storage.BlobStore for tests. Deletes can
// be forced to fail per object ID to exercise partial-cleanup paths.
type BlobStoreStub struct {
	mu      sync.Mutex
	objects map[string][]byte
	nextID  int

	FailDelete map[string]bool
	FailUpload bool
}

// NewBlobStoreStub creates an empty in-memory blob store.
func NewBlobStoreStub() *BlobStoreStub {
	return &BlobStoreStub{
		objects:    make(map[string][]byte),
		FailDelete: make(map[string]bool),
	}
}

func (s *BlobStoreStub) Upload(_ context.Context, content []byte, filename, folder string) (*storage.UploadResult, error) {
	if s.FailUpload {
		return nil, fmt.Errorf("upload failed")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	objectID := fmt.Sprintf("%s/blob-%d", folder, s.nextID)
	s.objects[objectID] = content
	return &storage.UploadResult{
		URL:      "http://blobs.test/media/" + objectID,
		ObjectID: objectID,
	}, nil
}

func (s *BlobStoreStub) Fetch(_ context.Context, objectID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.objects[objectID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return content, nil
}

func (s *BlobStoreStub) Delete(_ context.Context, objectID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailDelete[objectID] {
		return false
	}
	if _, ok := s.objects[objectID]; !ok {
		return false
	}
	delete(s.objects, objectID)
	return true
}

// Len reports how many blobs are currently stored.
func (s *BlobStoreStub) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
