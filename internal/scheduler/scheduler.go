package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/atomic"

	"github.com/i474232898/skycast/internal/weather"
)

// Resolver is the part of weather.Service the probe needs.
type Resolver interface {
	ResolveByCity(ctx context.Context, query string) (weather.View, error)
}

const defaultInterval = 15 * time.Minute

// Status is the result of the most recent probe run.
type Status struct {
	Healthy   bool      `json:"healthy"`
	CheckedAt time.Time `json:"checkedAt,omitempty"`
	LastError string    `json:"lastError,omitempty"`
}

// Scheduler periodically resolves a few probe cities end to end to tell
// whether the upstream providers answer. Results are only used for health
// reporting, never served as weather.
type Scheduler struct {
	scheduler *gocron.Scheduler
	resolver  Resolver
	cities    []string
	interval  time.Duration
	timeout   time.Duration

	healthy   *atomic.Bool
	checkedAt *atomic.Time
	lastError *atomic.String
}

// New creates a new Scheduler.
func New(cities []string, interval time.Duration, resolver Resolver) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		resolver:  resolver,
		cities:    cities,
		interval:  interval,
		timeout:   30 * time.Second,
		healthy:   atomic.NewBool(true),
		checkedAt: atomic.NewTime(time.Time{}),
		lastError: atomic.NewString(""),
	}
}

// Start schedules the periodic probe and starts the underlying scheduler.
// The first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.cities) == 0 {
		log.Println("scheduler: no probe cities configured; nothing to schedule")
		return nil
	}

	interval := s.interval
	if interval <= 0 {
		interval = defaultInterval
	}

	_, err := s.scheduler.Every(interval).Do(s.Probe)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Probe resolves every probe city concurrently and records the outcome.
func (s *Scheduler) Probe() {
	log.Println("scheduler: running provider probe")

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		lastErr error
	)
	for _, city := range s.cities {
		city := city
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
			defer cancel()

			if _, err := s.resolver.ResolveByCity(ctx, city); err != nil {
				log.Printf("scheduler: probe failed for %s: %v", city, err)
				mu.Lock()
				lastErr = err
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.checkedAt.Store(time.Now().UTC())
	if lastErr != nil {
		s.healthy.Store(false)
		s.lastError.Store(lastErr.Error())
	} else {
		s.healthy.Store(true)
		s.lastError.Store("")
	}
	log.Println("scheduler: completed provider probe")
}

// Status returns the latest probe result. Before the first run it reports
// healthy with a zero CheckedAt.
func (s *Scheduler) Status() Status {
	return Status{
		Healthy:   s.healthy.Load(),
		CheckedAt: s.checkedAt.Load(),
		LastError: s.lastError.Load(),
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
