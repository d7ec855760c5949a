// Package transform calls the image transformation service. The service
// is opaque: callers hand in the original drawing and a style prompt and
// get back the transformed image bytes or an error.
package transform

import "context"

// Transformer turns an original drawing into a styled rendition.
type Transformer interface {
	Transform(ctx context.Context, image []byte, prompt string) ([]byte, error)
}
