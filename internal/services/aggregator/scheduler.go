package aggregator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/folioscope/folioscope/internal/common"
	"github.com/folioscope/folioscope/internal/models"
)

// Job is a scheduled unit of work.
type Job interface {
	Run() error
	Name() string
}

// Scheduler runs the poll and re-scan timers. Jobs are wrapped with
// skip-if-still-running so a slow cycle is never overlapped by the next
// tick, matching the cooperative single-cycle model.
type Scheduler struct {
	cron   *cron.Cron
	logger *common.Logger
}

// NewScheduler creates a scheduler.
func NewScheduler(logger *common.Logger) *Scheduler {
	log := logger.WithComponent("scheduler")
	cronLog := cron.PrintfLogger(&cronLogAdapter{logger: log})
	return &Scheduler{
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLog))),
		logger: log,
	}
}

// AddJob registers a job on a fixed interval.
func (s *Scheduler) AddJob(interval time.Duration, job Job) error {
	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		s.logger.Debug().Str("job", job.Name()).Msg("Running job")

		if err := job.Run(); err != nil {
			s.logger.Error().Err(err).Str("job", job.Name()).Msg("Job failed")
		} else {
			s.logger.Debug().Str("job", job.Name()).Msg("Job completed")
		}
	})
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("interval", interval.String()).
		Str("job", job.Name()).
		Msg("Job registered")
	return nil
}

// RunNow executes a job immediately, outside its schedule.
func (s *Scheduler) RunNow(job Job) error {
	s.logger.Info().Str("job", job.Name()).Msg("Running job immediately")
	return job.Run()
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info().Msg("Scheduler started")
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info().Msg("Scheduler stopped")
}

// cronLogAdapter routes cron's logging into zerolog.
type cronLogAdapter struct {
	logger *common.Logger
}

func (l *cronLogAdapter) Printf(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}

// Poller is the scheduled poll job for one aggregator. It keeps the
// latest successful snapshot; a failed cycle leaves the previous
// snapshot in place so displayed values go stale rather than blank.
type Poller struct {
	agg      *Aggregator
	logger   *common.Logger
	onUpdate func(models.Snapshot)

	mu     sync.RWMutex
	latest models.Snapshot
}

// NewPoller creates the poll job for an aggregator. onUpdate, when set,
// receives every successful snapshot.
func NewPoller(agg *Aggregator, logger *common.Logger, onUpdate func(models.Snapshot)) *Poller {
	return &Poller{
		agg:      agg,
		logger:   logger.WithComponent("poller"),
		onUpdate: onUpdate,
	}
}

// Name implements Job.
func (p *Poller) Name() string {
	return "poll-" + p.agg.PortfolioID()
}

// Run executes one poll cycle.
func (p *Poller) Run() error {
	cycleID := uuid.NewString()
	start := time.Now()

	snapshot, err := p.agg.RunPollCycle(context.Background(), start)
	if err != nil {
		p.logger.Warn().
			Str("cycle_id", cycleID).
			Str("portfolio", p.agg.PortfolioID()).
			Err(err).
			Msg("Poll cycle failed, keeping previous snapshot")
		return err
	}

	p.mu.Lock()
	p.latest = snapshot
	p.mu.Unlock()

	if p.onUpdate != nil {
		p.onUpdate(snapshot)
	}

	p.logger.Debug().
		Str("cycle_id", cycleID).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("Poll cycle stored")
	return nil
}

// Latest returns the most recent successful snapshot, or nil before the
// first success.
func (p *Poller) Latest() models.Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest
}

// Rescan is the coarser job that re-enumerates market and cash-account
// groups so new display sources appear without a full reconfiguration.
type Rescan struct {
	poller   *Poller
	logger   *common.Logger
	onGroups func(markets, cash []models.GroupEntry)

	mu          sync.Mutex
	marketCount int
	cashCount   int
}

// NewRescan creates the group re-scan job for a poller.
func NewRescan(poller *Poller, logger *common.Logger, onGroups func(markets, cash []models.GroupEntry)) *Rescan {
	return &Rescan{
		poller:   poller,
		logger:   logger.WithComponent("rescan"),
		onGroups: onGroups,
	}
}

// Name implements Job.
func (r *Rescan) Name() string {
	return "rescan-" + r.poller.agg.PortfolioID()
}

// Run enumerates the current groups and reports them.
func (r *Rescan) Run() error {
	snapshot := r.poller.Latest()
	if snapshot == nil {
		return nil
	}

	markets := ListGroupKeys(snapshot, models.GroupMarkets)
	cash := ListGroupKeys(snapshot, models.GroupCash)

	r.mu.Lock()
	grown := len(markets) > r.marketCount || len(cash) > r.cashCount
	r.marketCount = len(markets)
	r.cashCount = len(cash)
	r.mu.Unlock()

	if grown {
		r.logger.Info().
			Int("markets", len(markets)).
			Int("cash_accounts", len(cash)).
			Msg("New groups discovered")
	}

	if r.onGroups != nil {
		r.onGroups(markets, cash)
	}
	return nil
}
