package staging

import (
	"context"
	"fmt"

	"github.com/replicate/replicate-go"
)

// FileAPI is the subset of the Replicate client used for staging.
type FileAPI interface {
	CreateFileFromBytes(ctx context.Context, data []byte, options *replicate.CreateFileOptions) (*replicate.File, error)
	DeleteFile(ctx context.Context, fileID string) error
}

// ReplicateStager uploads artifacts to the Replicate files API.
type ReplicateStager struct {
	files FileAPI
}

func NewReplicateStager(files FileAPI) *ReplicateStager {
	return &ReplicateStager{files: files}
}

func (s *ReplicateStager) Stage(ctx context.Context, data []byte, contentType string) (Handle, error) {
	file, err := s.files.CreateFileFromBytes(ctx, data, &replicate.CreateFileOptions{
		Filename:    newObjectName(contentType),
		ContentType: contentType,
	})
	if err != nil {
		return Handle{}, fmt.Errorf("failed to create replicate file: %w", err)
	}

	url := file.URLs["get"]
	if url == "" {
		_ = s.files.DeleteFile(context.WithoutCancel(ctx), file.ID)
		return Handle{}, fmt.Errorf("replicate file %s has no get url", file.ID)
	}

	return Handle{Key: file.ID, URL: url}, nil
}

func (s *ReplicateStager) Release(ctx context.Context, h Handle) error {
	if err := s.files.DeleteFile(ctx, h.Key); err != nil {
		return fmt.Errorf("failed to delete replicate file: %w", err)
	}
	return nil
}
