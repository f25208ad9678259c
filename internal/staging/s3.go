package staging

import (
	"context"
	"fmt"
	"time"

	"iconforge/internal/repository"
)

// S3Stager uploads artifacts to object storage and hands out presigned GET URLs.
type S3Stager struct {
	repo   repository.S3Repository
	prefix string
	ttl    time.Duration
}

func NewS3Stager(repo repository.S3Repository, prefix string, ttl time.Duration) *S3Stager {
	return &S3Stager{repo: repo, prefix: prefix, ttl: ttl}
}

func (s *S3Stager) Stage(ctx context.Context, data []byte, contentType string) (Handle, error) {
	key := s.prefix + newObjectName(contentType)

	if err := s.repo.UploadFile(ctx, key, data, contentType); err != nil {
		return Handle{}, fmt.Errorf("failed to upload staged object: %w", err)
	}

	url, err := s.repo.PresignGet(ctx, key, s.ttl)
	if err != nil {
		// The object exists now; do not leak it.
		if delErr := s.repo.DeleteFile(context.WithoutCancel(ctx), key); delErr != nil {
			err = fmt.Errorf("%w (cleanup: %v)", err, delErr)
		}
		return Handle{}, fmt.Errorf("failed to presign staged object: %w", err)
	}

	return Handle{Key: key, URL: url}, nil
}

func (s *S3Stager) Release(ctx context.Context, h Handle) error {
	if err := s.repo.DeleteFile(ctx, h.Key); err != nil {
		return fmt.Errorf("failed to delete staged object: %w", err)
	}
	return nil
}
