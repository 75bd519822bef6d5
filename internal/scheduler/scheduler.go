package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Sweeper removes sessions idle for longer than maxIdle.
type Sweeper interface {
	Sweep(maxIdle time.Duration) int
}

// Scheduler periodically expires idle sessions.
type Scheduler struct {
	scheduler *gocron.Scheduler
	sweeper   Sweeper
	interval  time.Duration
	maxIdle   time.Duration
}

// New creates a new Scheduler.
func New(sweeper Sweeper, interval, maxIdle time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		sweeper:   sweeper,
		interval:  interval,
		maxIdle:   maxIdle,
	}
}

// Start schedules the sweep job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.maxIdle <= 0 {
		log.Println("scheduler: session idle ttl disabled; nothing to schedule")
		return nil
	}

	interval := s.interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	_, err := s.scheduler.Every(interval).WaitForSchedule().Do(s.sweep)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) sweep() {
	removed := s.sweeper.Sweep(s.maxIdle)
	if removed > 0 {
		log.Printf("scheduler: expired %d idle sessions", removed)
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
