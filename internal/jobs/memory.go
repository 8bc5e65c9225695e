package jobs

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryClient is an in-process provider for local runs and tests.
type MemoryClient struct {
	mu        sync.Mutex
	jobs      map[string]Job
	Submitted []Application
	// FailPrepare forces PrepareApplication to fail with this error.
	FailPrepare error
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{jobs: make(map[string]Job)}
}

// AddJob seeds a posting.
func (m *MemoryClient) AddJob(job Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = job
}

func (m *MemoryClient) GetJob(_ context.Context, jobID string) (Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return Job{}, ErrNotFound
	}
	return job, nil
}

func (m *MemoryClient) PrepareApplication(_ context.Context, app Application) (Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailPrepare != nil {
		return Receipt{}, m.FailPrepare
	}
	if _, ok := m.jobs[app.JobID]; !ok {
		return Receipt{}, ErrNotFound
	}
	m.Submitted = append(m.Submitted, app)
	return Receipt{ApplicationURL: "memory://applications/" + uuid.NewString()}, nil
}

var _ Client = (*MemoryClient)(nil)
