package service

import (
	"context"
	"sync"

	"iconforge/internal/domain"
	"iconforge/internal/staging"
)

type fakeModel struct {
	mu      sync.Mutex
	calls   []domain.ModelInput
	outputs []string
	err     error
	block   bool
}

func (m *fakeModel) Generate(ctx context.Context, in domain.ModelInput) ([]string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, in)
	m.mu.Unlock()

	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.outputs, m.err
}

func (m *fakeModel) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type fakeStager struct {
	mu          sync.Mutex
	live        map[string][]byte
	staged      int
	released    int
	stageErr    error
	releaseErr  error
	releaseCtxs []error
}

func newFakeStager() *fakeStager {
	return &fakeStager{live: make(map[string][]byte)}
}

func (s *fakeStager) Stage(_ context.Context, data []byte, contentType string) (staging.Handle, error) {
	if s.stageErr != nil {
		return staging.Handle{}, s.stageErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged++
	key := "staged-" + contentType
	s.live[key] = data
	return staging.Handle{Key: key, URL: "https://staging.test/" + key}, nil
}

func (s *fakeStager) Release(ctx context.Context, h staging.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released++
	s.releaseCtxs = append(s.releaseCtxs, ctx.Err())
	delete(s.live, h.Key)
	return s.releaseErr
}

// capturingStager keeps the last staged payload after release.
type capturingStager struct {
	*fakeStager
	last []byte
}

func (s *capturingStager) Stage(ctx context.Context, data []byte, contentType string) (staging.Handle, error) {
	s.last = data
	return s.fakeStager.Stage(ctx, data, contentType)
}
