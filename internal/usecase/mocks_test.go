package usecase

import (
	"context"
	"sync"

	"infoseek-tracker/internal/domain"
	"infoseek-tracker/internal/domain/model"
	"infoseek-tracker/internal/domain/ports/adapter"
	"infoseek-tracker/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger { l := zerolog.Nop(); return &l }

// mockJobStore is a func-field mock of the job store port.
type mockJobStore struct {
	mu        sync.Mutex
	Created   []model.SearchQuery
	Cancelled []string

	CreateFunc func(ctx context.Context, query model.SearchQuery) (*model.Job, error)
	GetFunc    func(ctx context.Context, id string) (*model.Job, error)
	ListFunc   func(ctx context.Context) ([]*model.Job, error)
	CancelFunc func(ctx context.Context, id string) (*model.Job, error)
}

var _ adapter.JobStoreAdapter = (*mockJobStore)(nil)

func (m *mockJobStore) Create(ctx context.Context, query model.SearchQuery) (*model.Job, error) {
	m.mu.Lock()
	m.Created = append(m.Created, query)
	m.mu.Unlock()
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, query)
	}
	return nil, domain.ErrNotFound
}

func (m *mockJobStore) Get(ctx context.Context, id string) (*model.Job, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockJobStore) List(ctx context.Context) ([]*model.Job, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockJobStore) Cancel(ctx context.Context, id string) (*model.Job, error) {
	m.mu.Lock()
	m.Cancelled = append(m.Cancelled, id)
	m.mu.Unlock()
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, id)
	}
	return &model.Job{ID: id, Status: model.JobStatusFailed}, nil
}

func (m *mockJobStore) CancelledIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Cancelled))
	copy(out, m.Cancelled)
	return out
}

// memLedger is an in-memory removal ledger for unit tests.
type memLedger struct {
	mu     sync.Mutex
	ids    []string
	set    map[string]struct{}
	addErr error
}

var _ repository.RemovalLedger = (*memLedger)(nil)

func newMemLedger() *memLedger { return &memLedger{set: make(map[string]struct{})} }

func (m *memLedger) Load(ctx context.Context) error { return nil }

func (m *memLedger) Add(ctx context.Context, id string) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.set[id]; ok {
		return nil
	}
	m.set[id] = struct{}{}
	m.ids = append(m.ids, id)
	return nil
}

func (m *memLedger) Contains(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.set[id]
	return ok
}

func (m *memLedger) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.ids))
	copy(out, m.ids)
	return out
}
