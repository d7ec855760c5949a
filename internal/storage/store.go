// Package storage persists image blobs and serves them by URL. The store
// is opaque to callers: they hold a URL for rendering and an object ID
// for deletion, nothing else.
package storage

import (
	"context"
	"fmt"
)

// UploadResult references a stored blob. ObjectID is the handle for
// Delete; URL is what clients render.
type UploadResult struct {
	URL      string `json:"url"`
	ObjectID string `json:"object_id"`
}

// BlobStore stores and retrieves image blobs.
type BlobStore interface {
	// Upload stores content under a fresh object ID within folder.
	Upload(ctx context.Context, content []byte, filename, folder string) (*UploadResult, error)
	// Fetch returns the stored bytes for an object ID.
	Fetch(ctx context.Context, objectID string) ([]byte, error)
	// Delete removes a blob. It reports success rather than returning an
	// error: callers treat cleanup as best-effort and record the outcome.
	Delete(ctx context.Context, objectID string) bool
}

// Folder names group blobs by purpose.
const (
	FolderOriginals = "originals"
	FolderImproved  = "improved"
	FolderAvatars   = "avatars"
)

// ErrNotFound is returned by Fetch for unknown object IDs.
var ErrNotFound = fmt.Errorf("blob not found")

// ErrUnsupportedType is returned by Upload when the content does not sniff
// as one of the accepted image formats. Callers translate it into a
// client-facing validation failure.
var ErrUnsupportedType = fmt.Errorf("unsupported content type")
