package model

import (
	"sort"
	"time"
)

// Membership answers whether a job id belongs to a set. The removal ledger
// satisfies it; tests use a plain map wrapper.
type Membership interface {
	Contains(id string) bool
}

// IDSet is a trivial Membership over a map, mainly for tests and snapshots.
type IDSet map[string]struct{}

func (s IDSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Reconcile merges the previously retained history with a fresh collection
// snapshot into new (history, active) views. It is a pure function of its
// inputs and never mutates them.
//
// History is the union, keyed by id, of previously retained terminal jobs,
// freshly fetched terminal jobs (the server wins on field conflicts), and
// display-only copies of stuck jobs (non-terminal, age >= timeout) forced to
// failed. A terminal job retained earlier survives even when a later fetch
// omits it, so a transiently inconsistent server never loses history.
//
// Active is the fresh non-terminal jobs that are neither dismissed, stuck,
// nor already recorded as terminal. A server snapshot that regresses a job
// out of a terminal state is ignored: terminal wins.
func Reconcile(prev, fresh []*Job, removed Membership, now time.Time, timeout time.Duration) (history, active []*Job) {
	retained := make(map[string]*Job, len(prev)+len(fresh))
	for _, j := range prev {
		if j.Status.Terminal() {
			retained[j.ID] = j.Clone()
		}
	}
	for _, j := range fresh {
		if j.Status.Terminal() {
			retained[j.ID] = j.Clone()
		}
	}
	for _, j := range fresh {
		if j.Stuck(now, timeout) {
			if cur, ok := retained[j.ID]; ok && cur.Status.Terminal() {
				continue
			}
			stuck := j.Clone()
			stuck.Status = JobStatusFailed
			retained[j.ID] = stuck
		}
	}

	history = make([]*Job, 0, len(retained))
	for _, j := range retained {
		history = append(history, j)
	}
	sort.Slice(history, func(i, k int) bool {
		if !history[i].CreatedAt.Equal(history[k].CreatedAt) {
			return history[i].CreatedAt.After(history[k].CreatedAt)
		}
		return history[i].ID < history[k].ID
	})

	for _, j := range fresh {
		if j.Status.Terminal() || j.Stuck(now, timeout) {
			continue
		}
		if _, terminal := retained[j.ID]; terminal {
			continue
		}
		if removed != nil && removed.Contains(j.ID) {
			continue
		}
		active = append(active, j.Clone())
	}
	return history, active
}
