package clock

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Cron arms timers as gocron one-time jobs. Each handle owns exactly one job
// and removes it on Stop.
type Cron struct {
	mu      sync.Mutex
	sched   gocron.Scheduler
	stopped bool
	logger  zerolog.Logger
}

// NewCron creates and starts a gocron scheduler.
func NewCron(logger zerolog.Logger) (*Cron, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create gocron scheduler: %w", err)
	}
	sched.Start()

	return &Cron{sched: sched, logger: logger}, nil
}

func (c *Cron) Now() time.Time {
	return time.Now()
}

// AfterFunc registers a one-time job. Instants that are not in the future
// start immediately since gocron rejects past start times.
func (c *Cron) AfterFunc(at time.Time, fn func()) (Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return nil, ErrStopped
	}

	start := gocron.OneTimeJobStartImmediately()
	if at.After(time.Now()) {
		start = gocron.OneTimeJobStartDateTime(at)
	}

	job, err := c.sched.NewJob(gocron.OneTimeJob(start), gocron.NewTask(fn))
	if err != nil {
		return nil, fmt.Errorf("schedule one-time job at %s: %w", at.Format(time.RFC3339Nano), err)
	}

	return &cronHandle{cron: c, id: job.ID()}, nil
}

// Shutdown stops the gocron scheduler. Subsequent AfterFunc calls return
// ErrStopped.
func (c *Cron) Shutdown() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return nil
	}
	c.stopped = true
	return c.sched.Shutdown()
}

func (c *Cron) remove(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return
	}
	// One-time jobs that already ran are gone from the scheduler.
	if err := c.sched.RemoveJob(id); err != nil {
		c.logger.Debug().Err(err).Str("job", id.String()).Msg("remove one-time job")
	}
}

type cronHandle struct {
	once sync.Once
	cron *Cron
	id   uuid.UUID
}

func (h *cronHandle) Stop() {
	h.once.Do(func() { h.cron.remove(h.id) })
}

var _ Timers = (*Cron)(nil)
