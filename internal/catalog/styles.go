// Package catalog holds the fixed style and preset-comment catalogs.
// Both are compiled in; there is no admin surface for editing them.
package catalog

import "sort"

// Style names accepted by the transform endpoint.
const (
	StyleNormal  = "normal"
	StyleOil     = "oil"
	StyleNeon    = "neon"
	StyleInverse = "inverse"
	StyleAnime   = "anime"
	StyleCartoon = "cartoon"
	StyleComic   = "comic"

	// StyleTestRejected is reserved: selecting it skips the transform
	// service entirely and deterministically rejects the post. It exists
	// so moderation flows can be exercised without a failing upstream.
	StyleTestRejected = "test_rejected"
)

// DefaultStyle is applied when a transform request names no style.
const DefaultStyle = StyleNormal

var stylePrompts = map[string]string{
	StyleNormal:  "Make this drawing beautiful and realistic while keeping the original composition completely unchanged.",
	StyleOil:     "Recreate this drawing with rich oil-painting textures, visible brushstrokes, and warm lighting, keeping the original composition completely unchanged.",
	StyleNeon:    "Color this drawing using glowing neon tones and bright highlights while preserving all original shapes and linework.",
	StyleInverse: "Apply an inverse-color effect to this drawing while keeping all shapes, outlines, and composition exactly the same.",
	StyleAnime:   "Render this drawing in a soft anime illustration style with gentle shading and vibrant colors while keeping all the original figures and proportions the same.",
	StyleCartoon: "Repaint this drawing in a colorful cartoon style with smooth outlines and clean fills, without changing any of the original figures or elements.",
	StyleComic:   "Color this drawing in a classic comic-book style with halftone textures, keeping all original shapes intact.",
}

// ValidStyle reports whether name is an accepted style, including the
// reserved rejection style.
func ValidStyle(name string) bool {
	if name == StyleTestRejected {
		return true
	}
	_, ok := stylePrompts[name]
	return ok
}

// IsRejectionStyle reports whether name triggers the deterministic
// rejection path instead of a transform call.
func IsRejectionStyle(name string) bool {
	return name == StyleTestRejected
}

// StylePrompt returns the transform prompt for a style. The reserved
// rejection style has no prompt.
func StylePrompt(name string) (string, bool) {
	p, ok := stylePrompts[name]
	return p, ok
}

// Styles returns the transformable style names in sorted order. The
// reserved rejection style is excluded; it is not offered to clients.
func Styles() []string {
	names := make([]string, 0, len(stylePrompts))
	for name := range stylePrompts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
