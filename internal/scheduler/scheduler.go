package scheduler

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"CoinLens/internal/calculator"
	"CoinLens/internal/collector"
	"CoinLens/internal/dashboard"
	"CoinLens/internal/metrics"
	"CoinLens/internal/model"
	"CoinLens/internal/notifier"
	"CoinLens/internal/recorder"
)

// DefaultTickSpec drives countdown updates.
const DefaultTickSpec = "@every 1s"

// Notifier delivers alert text.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

type countdownJob struct {
	cd      *calculator.Countdown
	entryID cron.EntryID
}

// Scheduler manages the refresh task and one tick task per countdown.
type Scheduler struct {
	Cron        *cron.Cron
	Service     *dashboard.Service
	Notifier    Notifier
	Recorder    recorder.Recorder
	Metrics     *metrics.Registry
	Predictions []model.HalvingCycleRecord
	StoreName   string
	Ctx         context.Context
	Now         func() time.Time

	tickSpec string

	mu         sync.Mutex
	last       *model.Snapshot
	countdowns map[string]*countdownJob
}

// NewScheduler creates a new Scheduler. n and m may be nil.
func NewScheduler(ctx context.Context, svc *dashboard.Service, n Notifier, rec recorder.Recorder, m *metrics.Registry) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Service:    svc,
		Notifier:   n,
		Recorder:   rec,
		Metrics:    m,
		Ctx:        ctx,
		Now:        time.Now,
		tickSpec:   DefaultTickSpec,
		countdowns: make(map[string]*countdownJob),
	}
}

func (s *Scheduler) now() time.Time { return s.Now().UTC() }

// RegisterAll registers the snapshot refresh and sets the countdown tick schedule.
func (s *Scheduler) RegisterAll(refreshCron, tickCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	if tickCron != "" {
		s.tickSpec = tickCron
	}
	return nil
}

// AddSync schedules a document sync followed by a snapshot refresh.
func (s *Scheduler) AddSync(spec string, c *collector.Collector, fromYear int) error {
	if _, err := s.Cron.AddFunc(spec, func() { s.syncTask(c, fromYear) }); err != nil {
		return fmt.Errorf("register sync task: %w", err)
	}
	return nil
}

func (s *Scheduler) syncTask(c *collector.Collector, fromYear int) {
	if _, err := c.Sync(s.Ctx, fromYear); err != nil {
		log.Error().Err(err).Msg("sync failed")
		s.trySend(fmt.Sprintf("❌ sync failed: %v", err))
		return
	}
	s.refreshTask()
}

// AddCountdown registers a ticking countdown. A target already in the past
// is tracked as Elapsed without scheduling or alerting.
func (s *Scheduler) AddCountdown(name string, target time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.countdowns[name]; ok {
		return fmt.Errorf("countdown %q already registered", name)
	}
	job := &countdownJob{cd: calculator.NewCountdown(name, target)}
	s.countdowns[name] = job

	if rem, elapsed := job.cd.Tick(s.now()); elapsed {
		log.Info().Str("countdown", name).Time("target", target).Msg("countdown already elapsed")
		s.observeCountdown(name, rem)
		return nil
	}
	id, err := s.Cron.AddFunc(s.tickSpec, func() { s.tick(name) })
	if err != nil {
		delete(s.countdowns, name)
		return fmt.Errorf("register countdown %q: %w", name, err)
	}
	job.entryID = id
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Int("countdowns", len(s.countdowns)).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RefreshNow executes a refresh immediately (for manual trigger / run on start).
func (s *Scheduler) RefreshNow() (*model.Snapshot, error) {
	return s.refresh()
}

func (s *Scheduler) refreshTask() {
	if _, err := s.refresh(); err != nil {
		log.Error().Err(err).Msg("refresh failed")
	}
}

func (s *Scheduler) refresh() (*model.Snapshot, error) {
	start := time.Now()
	snap, err := s.Service.Snapshot(s.Ctx)
	took := time.Since(start)

	if s.Metrics != nil {
		s.Metrics.ObserveRefresh(snap, took, err)
	}
	if rerr := s.Recorder.RecordRefresh(&recorder.RefreshRecord{
		Snapshot: snap,
		Store:    s.StoreName,
		Duration: took,
		Err:      err,
	}); rerr != nil {
		log.Error().Err(rerr).Msg("record refresh")
	}
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	prev := s.last
	s.last = snap
	s.mu.Unlock()

	log.Debug().Str("latest", snap.LatestDate).Dur("took", took).Msg("snapshot refreshed")
	if prev != nil {
		s.checkPhase(prev.AHR999, snap.AHR999)
	}
	return snap, nil
}

func (s *Scheduler) checkPhase(prev, cur *model.ClassifiedPoint) {
	if !calculator.PhaseChanged(prev, cur) {
		return
	}
	log.Info().Str("from", prev.Phase.String()).Str("to", cur.Phase.String()).Float64("ahr999", cur.IndexValue).Msg("ahr999 zone changed")
	if err := s.Recorder.RecordPhaseChange(&recorder.PhaseChange{
		Date:       cur.Date,
		From:       prev.Phase,
		To:         cur.Phase,
		IndexValue: cur.IndexValue,
	}); err != nil {
		log.Error().Err(err).Msg("record phase change")
	}
	s.trySend(notifier.FormatPhaseChange(prev, cur))
}

func (s *Scheduler) tick(name string) {
	s.mu.Lock()
	job, ok := s.countdowns[name]
	s.mu.Unlock()
	if !ok {
		return
	}
	now := s.now()
	rem, justElapsed := job.cd.Tick(now)
	s.observeCountdown(name, rem)
	if !justElapsed {
		return
	}

	s.Cron.Remove(job.entryID)
	log.Info().Str("countdown", name).Msg("countdown elapsed")
	if err := s.Recorder.RecordCountdown(&recorder.CountdownEvent{
		Name:      name,
		Target:    job.cd.Target,
		ElapsedAt: now,
	}); err != nil {
		log.Error().Err(err).Msg("record countdown")
	}
	s.trySend(notifier.FormatCountdownElapsed(name, job.cd.Target))
}

func (s *Scheduler) observeCountdown(name string, rem model.Remaining) {
	if s.Metrics != nil {
		s.Metrics.ObserveCountdown(name, rem)
	}
}

// LastSnapshot returns the snapshot from the most recent successful refresh.
func (s *Scheduler) LastSnapshot() *model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Countdown returns the named countdown, or nil.
func (s *Scheduler) Countdown(name string) *calculator.Countdown {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.countdowns[name]; ok {
		return job.cd
	}
	return nil
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	switch fields[0] {
	case "/snapshot":
		snap := s.LastSnapshot()
		if snap == nil {
			var err error
			if snap, err = s.refresh(); err != nil {
				return fmt.Sprintf("❌ snapshot failed: %v", err)
			}
		}
		return notifier.FormatSnapshot(snap)
	case "/returns":
		year := s.now().Year()
		if len(fields) > 1 {
			y, err := strconv.Atoi(fields[1])
			if err != nil {
				return fmt.Sprintf("invalid year %q", fields[1])
			}
			year = y
		}
		yr, err := s.Service.Returns(s.Ctx, year)
		if err != nil {
			return fmt.Sprintf("❌ returns failed: %v", err)
		}
		return notifier.FormatReturns(yr)
	case "/halving":
		rep, err := s.Service.Halving(s.Ctx, s.Predictions)
		if err != nil {
			return fmt.Sprintf("❌ halving failed: %v", err)
		}
		return notifier.FormatHalving(rep)
	case "/countdown":
		return s.formatCountdowns()
	default:
		return helpText
	}
}

const helpText = "Commands:\n• /snapshot\n• /returns [year]\n• /halving\n• /countdown"

func (s *Scheduler) formatCountdowns() string {
	s.mu.Lock()
	names := make([]string, 0, len(s.countdowns))
	for name := range s.countdowns {
		names = append(names, name)
	}
	s.mu.Unlock()
	if len(names) == 0 {
		return "No countdowns configured"
	}
	sort.Strings(names)

	now := s.now()
	lines := make([]string, 0, len(names))
	for _, name := range names {
		cd := s.Countdown(name)
		rem := calculator.Decompose(cd.Target, now)
		if cd.Elapsed() {
			rem = model.Remaining{State: model.CountdownElapsed}
		}
		lines = append(lines, notifier.FormatCountdown(name, cd.Target, rem))
	}
	return strings.Join(lines, "\n")
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}
