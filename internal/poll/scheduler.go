// Package poll runs the background polling loops that keep the store in
// sync with the upstream sources. Each task gets its own goroutine and
// ticker, so a slow or failing source never delays the others; a failed run
// is logged and counted, and the store simply keeps its last-known-good
// data until the next tick.
package poll

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

var (
	// tickCounter counts task runs by task name and result.
	tickCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poll_ticks_total",
			Help: "Total number of poll task runs.",
		},
		[]string{"task", "result"},
	)

	// tickDuration records task run duration in seconds by task name.
	tickDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poll_tick_duration_seconds",
			Help:    "Duration of poll task runs in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"task"},
	)
)

func init() {
	prometheus.MustRegister(tickCounter, tickDuration)
}

// Task is one named polling loop.
type Task struct {
	// Name labels logs and metrics for this task.
	Name string
	// Interval is the tick period. Tasks with a non-positive interval are
	// skipped.
	Interval time.Duration
	// Immediate runs the task once at startup before the first tick.
	Immediate bool
	// Run performs one poll cycle. Errors are logged and counted; the task
	// keeps ticking.
	Run func(ctx context.Context) error
}

// Scheduler drives a set of polling tasks. A task's runs are sequential:
// the next tick is not consumed until the previous run returns, so a slow
// upstream cannot pile up overlapping fetches.
type Scheduler struct {
	tasks []Task
	log   zerolog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler builds a scheduler for the given tasks.
func NewScheduler(log zerolog.Logger, tasks ...Task) *Scheduler {
	return &Scheduler{tasks: tasks, log: log}
}

// Start launches one goroutine per task. The provided context bounds every
// run; cancelling it (or calling Stop) tears the loops down.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	for _, t := range s.tasks {
		if t.Interval <= 0 || t.Run == nil {
			s.log.Warn().Str("task", t.Name).Msg("poll task skipped: no interval or runner")
			continue
		}
		s.wg.Add(1)
		go s.loop(ctx, t)
	}
}

// Stop cancels all task contexts and waits for in-flight runs to return.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, t Task) {
	defer s.wg.Done()

	if t.Immediate {
		s.runOnce(ctx, t)
	}

	ticker := time.NewTicker(t.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx, t)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, t Task) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	err := t.Run(ctx)
	dur := time.Since(start)
	tickDuration.WithLabelValues(t.Name).Observe(dur.Seconds())

	if err != nil {
		tickCounter.WithLabelValues(t.Name, "error").Inc()
		s.log.Error().
			Err(err).
			Str("task", t.Name).
			Dur("duration", dur).
			Msg("poll task failed; keeping last known good data")
		return
	}
	tickCounter.WithLabelValues(t.Name, "ok").Inc()
	s.log.Debug().
		Str("task", t.Name).
		Dur("duration", dur).
		Msg("poll task completed")
}
