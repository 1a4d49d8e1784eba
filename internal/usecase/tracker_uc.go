package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"infoseek-tracker/internal/config"
	"infoseek-tracker/internal/domain"
	"infoseek-tracker/internal/domain/model"
	"infoseek-tracker/internal/domain/ports/adapter"
	"infoseek-tracker/internal/domain/ports/repository"
	"infoseek-tracker/internal/infra/metrics"
	"infoseek-tracker/internal/infra/sched"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ TrackerUseCase = (*trackerUC)(nil)

// TrackerUseCase owns the observable lifecycle of search jobs: submission,
// per-job polling, reconciliation of the server collection into the
// active/history views, user cancellation and dismissal, and history
// pagination. It is the single owner of view state; every operation runs to
// completion under its lock, with network calls kept outside it.
type TrackerUseCase interface {
	// Submit parses freeform input, creates a job on the backend and starts
	// polling it. The new job becomes the current (displayed) job.
	Submit(ctx context.Context, raw string) (*model.Job, error)

	// Cancel stops the job's poller synchronously, patches the job to
	// failed on the backend (errors logged, not fatal) and runs a
	// reconciliation pass.
	Cancel(ctx context.Context, id string) error

	// Dismiss records the id in the removal ledger and hides the job from
	// the active view. The underlying job is never deleted.
	Dismiss(ctx context.Context, id string) error

	// Synchronize runs one reconciliation pass. On list failure the
	// previous views are retained unchanged.
	Synchronize(ctx context.Context) error

	// PollOnce performs a single poll step for the job, exactly as the
	// periodic poller would. It reports whether polling is finished.
	PollOnce(ctx context.Context, id string) bool

	// Start activates the list view: an immediate reconciliation pass, then
	// one every sync interval until Stop.
	Start(ctx context.Context)

	// Stop tears the view down: the sync timer and every live poller are
	// cancelled deterministically.
	Stop()

	Snapshot() ViewSnapshot
	NextPage() ViewSnapshot
	PrevPage() ViewSnapshot
	SetPage(n int) ViewSnapshot
}

// ViewSnapshot is a self-consistent copy of everything a client renders.
type ViewSnapshot struct {
	Current     *model.Job
	Active      []*model.Job
	HistoryPage []*model.Job
	Page        int
	PageCount   int
	HistoryLen  int
	LastError   string
}

type pollerHandle struct {
	gen  uint64
	task *sched.Periodic
}

type trackerUC struct {
	store  adapter.JobStoreAdapter
	ledger repository.RemovalLedger
	log    *zerolog.Logger

	pollInterval time.Duration
	syncInterval time.Duration
	settleDelay  time.Duration
	stuckTimeout time.Duration

	now func() time.Time

	mu        sync.Mutex
	history   []*model.Job
	active    []*model.Job
	current   *model.Job
	lastError string
	pager     *model.Pager
	pollers   map[string]*pollerHandle
	pollGen   map[string]uint64
	syncTask  *sched.Periodic
	runCtx    context.Context
}

func NewTrackerUseCase(store adapter.JobStoreAdapter, ledger repository.RemovalLedger, cfg config.TrackerConfig, logger *zerolog.Logger) *trackerUC {
	ucLog := logger.With().Str("component", "Tracker").Logger()
	return &trackerUC{
		store:        store,
		ledger:       ledger,
		log:          &ucLog,
		pollInterval: cfg.PollInterval,
		syncInterval: cfg.SyncInterval,
		settleDelay:  cfg.SettleDelay,
		stuckTimeout: cfg.StuckTimeout,
		now:          time.Now,
		pager:        model.NewPager(model.HistoryPageSize),
		pollers:      make(map[string]*pollerHandle),
		pollGen:      make(map[string]uint64),
	}
}

// ---- lifecycle ----

func (t *trackerUC) Start(ctx context.Context) {
	t.mu.Lock()
	if t.syncTask != nil {
		t.mu.Unlock()
		return
	}
	t.runCtx = ctx
	task := sched.NewPeriodic("sync", t.syncInterval, func(ctx context.Context) bool {
		_ = t.Synchronize(ctx)
		return false
	}, t.log)
	t.syncTask = task
	t.mu.Unlock()

	task.Start(ctx)
}

func (t *trackerUC) Stop() {
	t.mu.Lock()
	syncTask := t.syncTask
	t.syncTask = nil
	handles := make([]*pollerHandle, 0, len(t.pollers))
	for id, h := range t.pollers {
		handles = append(handles, h)
		t.pollGen[id]++ // invalidate any in-flight fetch
		delete(t.pollers, id)
	}
	t.mu.Unlock()

	if syncTask != nil {
		syncTask.Stop()
	}
	for _, h := range handles {
		h.task.Stop()
	}
}

// ---- submission ----

func (t *trackerUC) Submit(ctx context.Context, raw string) (*model.Job, error) {
	query, err := model.ParseQuery(raw)
	if err != nil {
		metrics.IncSubmission("rejected")
		return nil, err
	}

	ref := uuid.NewString()
	t.log.Info().Str("ref", ref).Str("keyword", query.Keyword).Int("count", query.ArticleCount).Msg("submitting search job")

	job, err := t.store.Create(ctx, query)
	if err != nil {
		metrics.IncSubmission("failed")
		t.log.Error().Str("ref", ref).Err(err).Msg("job creation failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrSubmitFailed, err)
	}

	t.mu.Lock()
	t.lastError = ""
	t.current = job.Clone()
	t.mu.Unlock()

	t.startPoller(job.ID)
	metrics.IncSubmission("accepted")
	t.log.Info().Str("ref", ref).Str("job_id", job.ID).Msg("job accepted")
	return job, nil
}

// startPoller begins polling the id. A poller already live for the same id
// is superseded atomically: its generation is invalidated before it is
// stopped, so a late fetch result from it is discarded.
func (t *trackerUC) startPoller(id string) {
	t.mu.Lock()
	t.pollGen[id]++
	gen := t.pollGen[id]
	old := t.pollers[id]
	task := sched.NewPeriodic("poll:"+id, t.pollInterval, func(ctx context.Context) bool {
		return t.pollStep(ctx, id, gen)
	}, t.log)
	t.pollers[id] = &pollerHandle{gen: gen, task: task}
	runCtx := t.runCtx
	t.mu.Unlock()

	if old != nil {
		old.task.Stop()
	}
	if runCtx == nil {
		runCtx = context.Background()
	}
	task.Start(runCtx)
}

// ---- polling ----

func (t *trackerUC) PollOnce(ctx context.Context, id string) bool {
	t.mu.Lock()
	gen := t.pollGen[id]
	t.mu.Unlock()
	return t.pollStep(ctx, id, gen)
}

// pollStep fetches the job once and applies the transition rules. The
// result is applied only when gen still matches the id's live generation;
// a superseded or cancelled poller's result is discarded unseen.
func (t *trackerUC) pollStep(ctx context.Context, id string, gen uint64) bool {
	job, err := t.store.Get(ctx, id)

	t.mu.Lock()
	if t.pollGen[id] != gen {
		t.mu.Unlock()
		return true
	}

	if err != nil {
		// Transient or terminal is undecidable here; polling halts and the
		// last-known status stands until the user resubmits or retries.
		metrics.IncPollError()
		t.lastError = fmt.Sprintf("%v: %v", domain.ErrPollFailed, err)
		t.dropPollerLocked(id)
		t.mu.Unlock()
		t.log.Error().Str("job_id", id).Err(err).Msg("poll failed, poller halted")
		return true
	}

	metrics.IncPoll(string(job.Status))

	if t.current != nil && t.current.ID == id && !t.current.Status.Terminal() {
		t.current = job.Clone()
	}

	if !job.Status.Terminal() {
		t.mu.Unlock()
		return false
	}

	t.upsertHistoryLocked(job.Clone())
	t.removeActiveLocked(id)
	t.pager.Resize(len(t.history))
	t.dropPollerLocked(id)
	failed := job.Status == model.JobStatusFailed
	t.mu.Unlock()

	t.log.Info().Str("job_id", id).Str("status", string(job.Status)).Msg("job reached terminal state")

	// Every terminal transition is followed by a reconciliation pass:
	// immediately on completion, after a settling delay on failure so the
	// backend has written its final state.
	if failed {
		t.scheduleSettledSync()
	} else {
		t.triggerSync()
	}
	return true
}

func (t *trackerUC) triggerSync() {
	t.mu.Lock()
	ctx := t.runCtx
	t.mu.Unlock()
	if ctx == nil || ctx.Err() != nil {
		return
	}
	go func() { _ = t.Synchronize(ctx) }()
}

func (t *trackerUC) scheduleSettledSync() {
	time.AfterFunc(t.settleDelay, t.triggerSync)
}

// dropPollerLocked forgets the live poller for id and reaps its task
// asynchronously (Stop would deadlock from inside the poll step).
func (t *trackerUC) dropPollerLocked(id string) {
	if h, ok := t.pollers[id]; ok {
		delete(t.pollers, id)
		go h.task.Stop()
	}
}

// ---- cancellation & dismissal ----

func (t *trackerUC) Cancel(ctx context.Context, id string) error {
	t.mu.Lock()
	h := t.pollers[id]
	delete(t.pollers, id)
	t.pollGen[id]++
	t.mu.Unlock()

	// The poller must be gone before the patch goes out; any fetch already
	// in flight is invalidated by the generation bump.
	if h != nil {
		h.task.Stop()
	}

	if _, err := t.store.Cancel(ctx, id); err != nil {
		// Local state is still reset optimistically; the next
		// reconciliation pass converges to server truth.
		t.log.Error().Str("job_id", id).Err(err).Msg("cancellation patch failed")
	}

	t.mu.Lock()
	if t.current != nil && t.current.ID == id {
		t.current.Status = model.JobStatusFailed
	}
	t.removeActiveLocked(id)
	t.mu.Unlock()

	metrics.IncCancellation()
	t.log.Info().Str("job_id", id).Msg("job cancelled")
	_ = t.Synchronize(ctx)
	return nil
}

func (t *trackerUC) Dismiss(ctx context.Context, id string) error {
	if err := t.ledger.Add(ctx, id); err != nil {
		return fmt.Errorf("record dismissal: %w", err)
	}

	t.mu.Lock()
	t.removeActiveLocked(id)
	if t.current != nil && t.current.ID == id {
		t.current = nil
	}
	t.mu.Unlock()

	metrics.IncDismissal()
	t.log.Info().Str("job_id", id).Msg("job dismissed from active view")
	return nil
}

// ---- synchronization ----

func (t *trackerUC) Synchronize(ctx context.Context) error {
	fresh, err := t.store.List(ctx)
	if err != nil {
		// Previous views are retained unchanged; a transient list failure
		// must not blank the UI.
		metrics.IncSyncPass("error")
		t.log.Error().Err(err).Msg("list fetch failed, views retained")
		return fmt.Errorf("%w: %v", domain.ErrSyncFailed, err)
	}

	t.mu.Lock()
	now := t.now()
	promoted := 0
	terminalBefore := make(map[string]struct{}, len(t.history))
	for _, j := range t.history {
		terminalBefore[j.ID] = struct{}{}
	}
	for _, j := range fresh {
		if j.Stuck(now, t.stuckTimeout) {
			if _, ok := terminalBefore[j.ID]; !ok {
				promoted++
			}
		}
	}

	t.history, t.active = model.Reconcile(t.history, fresh, t.ledger, now, t.stuckTimeout)
	t.pager.Resize(len(t.history))
	t.refreshCurrentLocked(fresh)
	activeLen, histLen := len(t.active), len(t.history)
	t.mu.Unlock()

	metrics.IncSyncPass("ok")
	metrics.AddStuckPromoted(promoted)
	metrics.SetViewSizes(activeLen, histLen)
	t.log.Debug().Int("active", activeLen).Int("history", histLen).Int("stuck", promoted).Msg("reconciliation pass")
	return nil
}

// refreshCurrentLocked updates the current job from a fresh collection
// snapshot without ever regressing it out of a terminal state.
func (t *trackerUC) refreshCurrentLocked(fresh []*model.Job) {
	if t.current == nil {
		return
	}
	for _, j := range fresh {
		if j.ID != t.current.ID {
			continue
		}
		if t.current.Status.Terminal() && !j.Status.Terminal() {
			return
		}
		t.current = j.Clone()
		return
	}
}

// ---- views ----

func (t *trackerUC) Snapshot() ViewSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *trackerUC) NextPage() ViewSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pager.Next()
	return t.snapshotLocked()
}

func (t *trackerUC) PrevPage() ViewSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pager.Prev()
	return t.snapshotLocked()
}

func (t *trackerUC) SetPage(n int) ViewSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pager.SetPage(n)
	return t.snapshotLocked()
}

func (t *trackerUC) snapshotLocked() ViewSnapshot {
	snap := ViewSnapshot{
		Page:       t.pager.Page(),
		PageCount:  t.pager.PageCount(),
		HistoryLen: len(t.history),
		LastError:  t.lastError,
	}
	if t.current != nil {
		snap.Current = t.current.Clone()
	}

	// A terminal current job stays visible in the active panel: finishing
	// the job you are looking at must not make it vanish.
	if t.current != nil && t.current.Status.Terminal() {
		snap.Active = append(snap.Active, t.current.Clone())
	}
	for _, j := range t.active {
		snap.Active = append(snap.Active, j.Clone())
	}

	for _, j := range t.pager.Window(t.history) {
		snap.HistoryPage = append(snap.HistoryPage, j.Clone())
	}
	return snap
}

// ---- internal state helpers (mu held) ----

func (t *trackerUC) upsertHistoryLocked(job *model.Job) {
	for i, j := range t.history {
		if j.ID == job.ID {
			t.history[i] = job
			return
		}
	}
	// keep createdAt-descending order
	at := len(t.history)
	for i, j := range t.history {
		if job.CreatedAt.After(j.CreatedAt) {
			at = i
			break
		}
	}
	t.history = append(t.history, nil)
	copy(t.history[at+1:], t.history[at:])
	t.history[at] = job
}

func (t *trackerUC) removeActiveLocked(id string) {
	for i, j := range t.active {
		if j.ID == id {
			t.active = append(t.active[:i], t.active[i+1:]...)
			return
		}
	}
}
