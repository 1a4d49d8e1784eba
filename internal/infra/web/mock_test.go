package web

import (
	"context"

	"infoseek-tracker/internal/domain/model"
	"infoseek-tracker/internal/usecase"
)

var _ usecase.TrackerUseCase = (*mockTracker)(nil)

// mockTracker lets each test script the tracker behaviour through func
// fields. Unset fields return zero values.
type mockTracker struct {
	SubmitFunc   func(ctx context.Context, raw string) (*model.Job, error)
	CancelFunc   func(ctx context.Context, id string) error
	DismissFunc  func(ctx context.Context, id string) error
	SnapshotFunc func() usecase.ViewSnapshot
	NextFunc     func() usecase.ViewSnapshot
	PrevFunc     func() usecase.ViewSnapshot
	SetPageFunc  func(n int) usecase.ViewSnapshot
}

func (m *mockTracker) Submit(ctx context.Context, raw string) (*model.Job, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, raw)
	}
	return &model.Job{}, nil
}

func (m *mockTracker) Cancel(ctx context.Context, id string) error {
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, id)
	}
	return nil
}

func (m *mockTracker) Dismiss(ctx context.Context, id string) error {
	if m.DismissFunc != nil {
		return m.DismissFunc(ctx, id)
	}
	return nil
}

func (m *mockTracker) Synchronize(context.Context) error { return nil }

func (m *mockTracker) PollOnce(context.Context, string) bool { return true }

func (m *mockTracker) Start(context.Context) {}

func (m *mockTracker) Stop() {}

func (m *mockTracker) Snapshot() usecase.ViewSnapshot {
	if m.SnapshotFunc != nil {
		return m.SnapshotFunc()
	}
	return usecase.ViewSnapshot{Page: 1, PageCount: 1}
}

func (m *mockTracker) NextPage() usecase.ViewSnapshot {
	if m.NextFunc != nil {
		return m.NextFunc()
	}
	return m.Snapshot()
}

func (m *mockTracker) PrevPage() usecase.ViewSnapshot {
	if m.PrevFunc != nil {
		return m.PrevFunc()
	}
	return m.Snapshot()
}

func (m *mockTracker) SetPage(n int) usecase.ViewSnapshot {
	if m.SetPageFunc != nil {
		return m.SetPageFunc(n)
	}
	return m.Snapshot()
}
