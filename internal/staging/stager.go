// Package staging makes a normalized image reachable by the model for the
// duration of one generation call.
package staging

import (
	"context"

	"github.com/google/uuid"
)

// Handle identifies one staged artifact. URL is what the model receives.
type Handle struct {
	Key string
	URL string
}

// Stager stores an artifact once and removes it once. Handles are never
// shared between requests.
type Stager interface {
	Stage(ctx context.Context, data []byte, contentType string) (Handle, error)
	Release(ctx context.Context, h Handle) error
}

var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

func newObjectName(contentType string) string {
	ext, ok := extensions[contentType]
	if !ok {
		ext = ".bin"
	}
	return "upload-" + uuid.NewString() + ext
}
