package model_test

import (
	"testing"
	"time"

	"infoseek-tracker/internal/domain/model"
)

const stuckTimeout = 15 * time.Minute

var base = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func job(id string, status model.JobStatus, created time.Time) *model.Job {
	return &model.Job{ID: id, Keyword: "k", Status: status, CreatedAt: created}
}

func ids(jobs []*model.Job) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func TestReconcile(t *testing.T) {
	now := base.Add(5 * time.Minute)

	t.Run("terminal jobs retained when the fresh list omits them", func(t *testing.T) {
		prev := []*model.Job{job("done", model.JobStatusCompleted, base)}
		history, _ := model.Reconcile(prev, nil, nil, now, stuckTimeout)
		if len(history) != 1 || history[0].ID != "done" {
			t.Fatalf("terminal job lost: %v", ids(history))
		}
	})

	t.Run("server wins on field conflicts", func(t *testing.T) {
		prev := []*model.Job{job("a", model.JobStatusFailed, base)}
		freshA := job("a", model.JobStatusCompleted, base)
		freshA.Results = []model.Result{{ID: "1", Title: "t"}}

		history, _ := model.Reconcile(prev, []*model.Job{freshA}, nil, now, stuckTimeout)
		if len(history) != 1 {
			t.Fatalf("expected single entry, got %v", ids(history))
		}
		if history[0].Status != model.JobStatusCompleted || len(history[0].Results) != 1 {
			t.Errorf("fresh server entry must overwrite the retained one: %+v", history[0])
		}
	})

	t.Run("stuck jobs promoted to failed display copies", func(t *testing.T) {
		old := job("stuck", model.JobStatusPending, base.Add(-20*time.Minute))
		history, active := model.Reconcile(nil, []*model.Job{old}, nil, now, stuckTimeout)

		if len(active) != 0 {
			t.Error("stuck job must not be active")
		}
		if len(history) != 1 || history[0].Status != model.JobStatusFailed {
			t.Fatalf("stuck job must show as failed: %v", history)
		}
		if old.Status != model.JobStatusPending {
			t.Error("input job mutated; the promotion must be display-only")
		}
	})

	t.Run("history sorted by createdAt descending", func(t *testing.T) {
		fresh := []*model.Job{
			job("old", model.JobStatusCompleted, base),
			job("new", model.JobStatusFailed, base.Add(2*time.Minute)),
			job("mid", model.JobStatusCompleted, base.Add(time.Minute)),
		}
		history, _ := model.Reconcile(nil, fresh, nil, now, stuckTimeout)
		got := ids(history)
		want := []string{"new", "mid", "old"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("order = %v, want %v", got, want)
			}
		}
	})

	t.Run("active excludes dismissed and aged jobs", func(t *testing.T) {
		fresh := []*model.Job{
			job("keep", model.JobStatusProcessing, base),
			job("dismissed", model.JobStatusPending, base),
			job("aged", model.JobStatusPending, base.Add(-time.Hour)),
		}
		removed := model.IDSet{"dismissed": {}}
		_, active := model.Reconcile(nil, fresh, removed, now, stuckTimeout)
		if len(active) != 1 || active[0].ID != "keep" {
			t.Errorf("active = %v, want [keep]", ids(active))
		}
	})

	t.Run("terminal state never reverts", func(t *testing.T) {
		prev := []*model.Job{job("a", model.JobStatusCompleted, base)}
		regressed := job("a", model.JobStatusProcessing, base)

		history, active := model.Reconcile(prev, []*model.Job{regressed}, nil, now, stuckTimeout)
		if len(history) != 1 || history[0].Status != model.JobStatusCompleted {
			t.Error("terminal entry must survive a regressed snapshot")
		}
		if len(active) != 0 {
			t.Error("a job known terminal must not be duplicated into active")
		}
	})

	t.Run("idempotent for identical input", func(t *testing.T) {
		prev := []*model.Job{job("x", model.JobStatusFailed, base)}
		fresh := []*model.Job{
			job("y", model.JobStatusCompleted, base.Add(time.Minute)),
			job("z", model.JobStatusProcessing, base.Add(2*time.Minute)),
		}
		h1, a1 := model.Reconcile(prev, fresh, nil, now, stuckTimeout)
		h2, a2 := model.Reconcile(h1, fresh, nil, now, stuckTimeout)

		if len(h1) != len(h2) || len(a1) != len(a2) {
			t.Fatalf("second pass changed sizes: %v vs %v", ids(h1), ids(h2))
		}
		for i := range h1 {
			if h1[i].ID != h2[i].ID || h1[i].Status != h2[i].Status {
				t.Errorf("entry %d differs: %+v vs %+v", i, h1[i], h2[i])
			}
		}
	})
}
