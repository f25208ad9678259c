package staging

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// RoutePrefix is where the server exposes the disk staging directory.
const RoutePrefix = "/staged"

// DiskStager writes artifacts into a scratch directory served over HTTP.
type DiskStager struct {
	dir     string
	baseURL string
	log     *zap.Logger
}

func NewDiskStager(dir, publicBaseURL string, log *zap.Logger) (*DiskStager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create staging dir %s: %w", dir, err)
	}
	return &DiskStager{
		dir:     dir,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
		log:     log,
	}, nil
}

func (s *DiskStager) Stage(ctx context.Context, data []byte, contentType string) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return Handle{}, err
	}

	name := newObjectName(contentType)
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return Handle{}, fmt.Errorf("failed to write staged file: %w", err)
	}

	s.log.Debug("Staged file written", zap.String("path", path), zap.Int("size", len(data)))

	return Handle{
		Key: name,
		URL: s.baseURL + RoutePrefix + "/" + name,
	}, nil
}

func (s *DiskStager) Release(_ context.Context, h Handle) error {
	if h.Key == "" || filepath.Base(h.Key) != h.Key {
		return fmt.Errorf("invalid staged key %q", h.Key)
	}

	err := os.Remove(filepath.Join(s.dir, h.Key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove staged file: %w", err)
	}
	return nil
}
