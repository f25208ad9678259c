package handler

import (
	"context"
	"sync"

	"iconforge/internal/domain"
	"iconforge/internal/staging"
)

type fakeModel struct {
	outputs []string
	err     error
	calls   int
}

func (m *fakeModel) Generate(_ context.Context, _ domain.ModelInput) ([]string, error) {
	m.calls++
	return m.outputs, m.err
}

type fakeStager struct {
	mu   sync.Mutex
	live map[string]struct{}
	n    int
}

func newFakeStager() *fakeStager {
	return &fakeStager{live: make(map[string]struct{})}
}

func (s *fakeStager) Stage(_ context.Context, _ []byte, _ string) (staging.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	key := "artifact-" + string(rune('a'+s.n))
	s.live[key] = struct{}{}
	return staging.Handle{Key: key, URL: "https://staging.test/" + key}, nil
}

func (s *fakeStager) Release(_ context.Context, h staging.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.live, h.Key)
	return nil
}
