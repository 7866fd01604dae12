package scheduler

import (
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-history/internal/weather"
)

// StatsSource reports the size of the loaded dataset.
type StatsSource interface {
	Stats() weather.Stats
}

// CounterSource reports how many requests were served and how many failed.
type CounterSource interface {
	Totals() (total, failed uint64)
}

// Scheduler periodically logs a heartbeat with dataset and request totals.
type Scheduler struct {
	scheduler *gocron.Scheduler
	stats     StatsSource
	counters  CounterSource
	interval  time.Duration
	logger    *slog.Logger
	started   time.Time
}

// New creates a new Scheduler. A zero interval disables the heartbeat.
func New(interval time.Duration, stats StatsSource, counters CounterSource, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		stats:     stats,
		counters:  counters,
		interval:  interval,
		logger:    logger.With(slog.String("component", "heartbeat")),
	}
}

// Start schedules the heartbeat job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	s.started = time.Now()
	if s.interval <= 0 {
		s.logger.Info("heartbeat disabled")
		return nil
	}

	// first run happens one interval after start
	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.Report)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Report logs one heartbeat line.
func (s *Scheduler) Report() {
	stats := s.stats.Stats()
	total, failed := s.counters.Totals()

	s.logger.Info("heartbeat",
		slog.Int("countries", stats.Countries),
		slog.Int("cities", stats.Cities),
		slog.Int("records", stats.Records),
		slog.Uint64("requests_total", total),
		slog.Uint64("requests_failed", failed),
		slog.Duration("uptime", time.Since(s.started).Round(time.Second)),
	)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
