package usecase

//go:generate mockgen -source=scheduler.go -destination=../../tests/mock/usecase/scheduler.go -package=usecasemock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"stock-notifier/internal/domain/notification"
	"stock-notifier/internal/domain/product"
	"stock-notifier/internal/domain/schedule"
	"stock-notifier/internal/pkg/clock"
	"stock-notifier/internal/pkg/errs"
	"stock-notifier/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

type RegisterParams struct {
	Expression string
	Recipient  string
	Products   []product.Snapshot
}

type JobView struct {
	ID           uuid.UUID
	Expression   string
	Recipient    string
	Products     []product.Snapshot
	State        schedule.State
	CreatedAt    time.Time
	NextFireAt   time.Time
	LastRun      *schedule.Run
	FireCount    int
	FailureCount int
}

type ScheduleUseCase interface {
	Register(ctx context.Context, params RegisterParams) (*JobView, error)
	Cancel(ctx context.Context, id uuid.UUID) error
	// FireNow runs one firing outside the cron cadence through the same dispatch path.
	FireNow(ctx context.Context, id uuid.UUID) (*JobView, error)
	ListActive(ctx context.Context) ([]*JobView, error)
	Get(ctx context.Context, id uuid.UUID) (*JobView, error)
}

type SchedulerOptions struct {
	Location *time.Location
	LockTTL  time.Duration
}

type scheduledEntry struct {
	job     *schedule.Job
	entryID cron.EntryID
}

// SchedulerService owns the registry of active jobs and one cron entry per job.
// Firings of one job never overlap; firings of different jobs are unordered.
type SchedulerService struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*scheduledEntry
	started bool
	stopped bool

	cron     *cron.Cron
	notifier Notifier
	store    shared.ScheduleStore
	lock     shared.FireLock
	clock    clock.Clock
	logger   *slog.Logger
	loc      *time.Location
	lockTTL  time.Duration

	runCtx    context.Context
	runCancel context.CancelFunc

	// tickOverride replaces every job's trigger when armed; set only by tests
	tickOverride cron.Schedule
}

var _ ScheduleUseCase = (*SchedulerService)(nil)

func NewSchedulerService(
	notifier Notifier,
	store shared.ScheduleStore,
	lock shared.FireLock,
	clk clock.Clock,
	logger *slog.Logger,
	opts SchedulerOptions,
) *SchedulerService {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	lockTTL := opts.LockTTL
	if lockTTL <= 0 {
		lockTTL = 55 * time.Second
	}

	cronLogger := NewCronLogger(logger)
	runCtx, runCancel := context.WithCancel(context.Background())

	return &SchedulerService{
		entries: make(map[uuid.UUID]*scheduledEntry),
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cronLogger),
			cron.WithChain(
				cron.Recover(cronLogger),
				cron.SkipIfStillRunning(cronLogger),
			),
		),
		notifier:  notifier,
		store:     store,
		lock:      lock,
		clock:     clk,
		logger:    logger,
		loc:       loc,
		lockTTL:   lockTTL,
		runCtx:    runCtx,
		runCancel: runCancel,
	}
}

// Start restores persisted jobs and starts the cron loop. Rows that no longer
// parse are logged and skipped.
func (s *SchedulerService) Start(ctx context.Context) error {
	records, err := s.store.List(ctx)
	if err != nil {
		return errs.Wrap(err, "failed to load schedules")
	}

	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ErrSchedulerStopped
	}
	if s.started {
		return nil
	}

	restored := 0
	for _, rec := range records {
		if _, exists := s.entries[rec.ID]; exists {
			continue
		}
		job, derr := rec.ToDomain(now)
		if derr != nil {
			s.logger.Warn("skipping stored schedule", "job_id", rec.ID.String(), "error", derr.Error())
			continue
		}
		s.armLocked(job)
		restored++
	}

	s.cron.Start()
	s.started = true
	s.logger.Info("scheduler started", "timezone", s.loc.String(), "restored", restored, "active", len(s.entries))
	return nil
}

// Stop halts new firings and waits for running ones until ctx is done.
func (s *SchedulerService) Stop(ctx context.Context) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out with firings in flight")
	}
	s.runCancel()
	s.logger.Info("scheduler stopped")
}

func (s *SchedulerService) Register(ctx context.Context, params RegisterParams) (*JobView, error) {
	job, err := schedule.NewJob(uuid.Nil, params.Expression, params.Recipient, params.Products, s.now())
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	stopped := s.stopped
	s.mu.RUnlock()
	if stopped {
		return nil, ErrSchedulerStopped
	}

	if err := s.store.Save(ctx, shared.NewScheduleRecord(job)); err != nil {
		return nil, errs.Wrap(err, "failed to persist schedule")
	}

	s.mu.Lock()
	s.armLocked(job)
	view := toJobView(job)
	s.mu.Unlock()

	s.logger.Info("email schedule registered",
		"job_id", view.ID.String(),
		"schedule", view.Expression,
		"recipient", view.Recipient,
		"products", len(view.Products),
		"next_fire_at", view.NextFireAt,
	)
	return view, nil
}

func (s *SchedulerService) Cancel(ctx context.Context, id uuid.UUID) error {
	s.mu.RLock()
	_, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return ErrJobNotFound
	}

	if err := s.store.Delete(ctx, id); err != nil && !errors.Is(err, shared.ErrRecordNotFound) {
		return errs.Wrap(err, "failed to delete schedule")
	}

	s.mu.Lock()
	e, ok := s.entries[id]
	if !ok {
		s.mu.Unlock()
		return ErrJobNotFound
	}
	s.cron.Remove(e.entryID)
	_ = e.job.Cancel()
	delete(s.entries, id)
	s.mu.Unlock()

	s.logger.Info("email schedule cancelled", "job_id", id.String())
	return nil
}

func (s *SchedulerService) FireNow(ctx context.Context, id uuid.UUID) (*JobView, error) {
	view, _, err := s.fire(ctx, id, firingManual)
	if err != nil {
		return view, err
	}
	return view, nil
}

func (s *SchedulerService) ListActive(_ context.Context) ([]*JobView, error) {
	s.mu.RLock()
	views := make([]*JobView, 0, len(s.entries))
	for _, e := range s.entries {
		views = append(views, toJobView(e.job))
	}
	s.mu.RUnlock()

	sort.Slice(views, func(i, j int) bool {
		if views[i].CreatedAt.Equal(views[j].CreatedAt) {
			return views[i].ID.String() < views[j].ID.String()
		}
		return views[i].CreatedAt.Before(views[j].CreatedAt)
	})
	return views, nil
}

func (s *SchedulerService) Get(_ context.Context, id uuid.UUID) (*JobView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	return toJobView(e.job), nil
}

func (s *SchedulerService) armLocked(job *schedule.Job) {
	id := job.ID()
	sched := job.Trigger().Schedule()
	if s.tickOverride != nil {
		sched = s.tickOverride
	}
	entryID := s.cron.Schedule(sched, cron.FuncJob(func() {
		s.onTick(id)
	}))
	s.entries[id] = &scheduledEntry{job: job, entryID: entryID}
}

// onTick runs a cron-driven firing. Outcomes of a dispatch are logged inside
// fire; a tick that never reaches dispatch is logged here.
func (s *SchedulerService) onTick(id uuid.UUID) {
	_, _, err := s.fire(s.runCtx, id, firingTick)
	switch {
	case errors.Is(err, schedule.ErrJobAlreadyFiring):
		s.logger.Info("tick skipped, job is already firing", "job_id", id.String())
	case errors.Is(err, ErrJobNotFound):
		s.logger.Debug("tick skipped, job was cancelled", "job_id", id.String())
	}
}

type firingKind string

const (
	firingTick   firingKind = "tick"
	firingManual firingKind = "manual"
)

// fire runs one dispatch: lock, filter, notify, record. A failed send leaves the
// job scheduled for its next natural tick.
func (s *SchedulerService) fire(ctx context.Context, id uuid.UUID, kind firingKind) (*JobView, schedule.Run, error) {
	tick := s.now()

	s.mu.Lock()
	e, ok := s.entries[id]
	if !ok {
		s.mu.Unlock()
		return nil, schedule.Run{}, ErrJobNotFound
	}
	if err := e.job.BeginFiring(); err != nil {
		s.mu.Unlock()
		if errors.Is(err, schedule.ErrJobCancelled) {
			return nil, schedule.Run{}, ErrJobNotFound
		}
		return toJobView(e.job), schedule.Run{}, err
	}
	recipient := e.job.Recipient()
	products := e.job.Products()
	s.mu.Unlock()

	log := s.logger.With("job_id", id.String(), "recipient", recipient, "trigger", string(kind))

	acquired, err := s.lock.Acquire(ctx, fireLockKey(id, tick, kind), s.lockTTL)
	if err != nil {
		// fire anyway: a duplicate email beats a silently dropped one
		log.Warn("firing lock unavailable, firing without it", "error", err.Error())
		acquired = true
	}
	if !acquired {
		s.mu.Lock()
		e.job.AbortFiring()
		view := toJobView(e.job)
		s.mu.Unlock()
		log.Info("firing skipped, lock already claimed", "tick", tick)
		return view, schedule.Run{}, ErrFiringLockHeld
	}

	outOfStock := product.FilterOutOfStock(products)
	result, sendErr := s.notifier.Send(ctx, recipient, outOfStock)

	run := schedule.Run{FiredAt: tick}
	switch {
	case sendErr != nil:
		run.Outcome = schedule.OutcomeFailed
		run.Error = sendErr.Error()
	case result == notification.ResultNothingToSend:
		run.Outcome = schedule.OutcomeNothingToSend
	default:
		run.Outcome = schedule.OutcomeSent
	}

	s.mu.Lock()
	e.job.CompleteFiring(run)
	active := e.job.Active()
	fireCount, failureCount := e.job.FireCount(), e.job.FailureCount()
	view := toJobView(e.job)
	s.mu.Unlock()

	if active {
		if err := s.store.SaveRun(ctx, id, run, fireCount, failureCount); err != nil {
			log.Error("failed to record firing", "error", err.Error())
		}
	}

	log = log.With("outcome", string(run.Outcome))
	switch run.Outcome {
	case schedule.OutcomeFailed:
		log.Error("scheduled email failed", "error", run.Error, "next_fire_at", view.NextFireAt)
	case schedule.OutcomeNothingToSend:
		log.Info("scheduled email skipped, nothing to send", "next_fire_at", view.NextFireAt)
	default:
		log.Info("scheduled email sent", "products", len(outOfStock), "next_fire_at", view.NextFireAt)
	}

	return view, run, sendErr
}

func (s *SchedulerService) now() time.Time {
	return s.clock.Now().In(s.loc)
}

// fireLockKey is per job and minute. Manual runs use their own key so they never
// collide with the cron tick of the same minute.
func fireLockKey(id uuid.UUID, tick time.Time, kind firingKind) string {
	key := fmt.Sprintf("schedule:%s:%d", id.String(), tick.Truncate(time.Minute).Unix())
	if kind == firingManual {
		key += ":manual"
	}
	return key
}

func toJobView(job *schedule.Job) *JobView {
	return &JobView{
		ID:           job.ID(),
		Expression:   job.Expression(),
		Recipient:    job.Recipient(),
		Products:     job.Products(),
		State:        job.State(),
		CreatedAt:    job.CreatedAt(),
		NextFireAt:   job.NextFireAt(),
		LastRun:      job.LastRun(),
		FireCount:    job.FireCount(),
		FailureCount: job.FailureCount(),
	}
}
