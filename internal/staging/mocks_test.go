package staging

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/replicate/replicate-go"
)

type fakeS3Repo struct {
	mu         sync.Mutex
	objects    map[string][]byte
	uploadErr  error
	presignErr error
	deleteErr  error
	deleted    []string
}

func newFakeS3Repo() *fakeS3Repo {
	return &fakeS3Repo{objects: make(map[string][]byte)}
}

func (f *fakeS3Repo) UploadFile(_ context.Context, key string, data []byte, _ string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return nil
}

func (f *fakeS3Repo) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return "https://bucket.example.com/" + key + "?X-Amz-Expires=" + ttl.String(), nil
}

func (f *fakeS3Repo) DeleteFile(_ context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeFileAPI struct {
	created   []*replicate.CreateFileOptions
	deleted   []string
	createErr error
	noURL     bool
}

func (f *fakeFileAPI) CreateFileFromBytes(_ context.Context, data []byte, options *replicate.CreateFileOptions) (*replicate.File, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, options)
	file := &replicate.File{ID: "file-123", URLs: map[string]string{}}
	if !f.noURL {
		file.URLs["get"] = "https://api.replicate.com/v1/files/file-123/download"
	}
	return file, nil
}

func (f *fakeFileAPI) DeleteFile(_ context.Context, fileID string) error {
	f.deleted = append(f.deleted, fileID)
	return nil
}

var errBoom = errors.New("boom")
