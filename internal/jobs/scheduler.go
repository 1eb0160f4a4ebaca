package job

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron"
)

// Scheduler triggers dispatch passes on a fixed interval.
type Scheduler struct {
	mu       sync.Mutex
	interval time.Duration
	trigger  func()
	c        *cron.Cron
}

func NewScheduler(interval time.Duration, trigger func()) *Scheduler {
	return &Scheduler{
		interval: interval,
		trigger:  trigger,
	}
}

func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.c != nil {
		return nil
	}
	if s.interval <= 0 {
		return errors.New("scheduler interval must be positive")
	}

	c := cron.New()
	if err := c.AddFunc(fmt.Sprintf("@every %s", s.interval), s.trigger); err != nil {
		return err
	}
	c.Start()
	s.c = c

	slog.Info("scheduler started", "interval", s.interval.String())
	return nil
}

// Stop halts future ticks. A tick already running is not interrupted.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.c == nil {
		return
	}
	s.c.Stop()
	s.c = nil

	slog.Info("scheduler stopped")
}

func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c != nil
}
