package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/Ritu28-coder/stock-dashboard/internal/ingest"
)

// Scheduler drives the ingestion pipeline on fixed intervals.
type Scheduler struct {
	Cron     *cron.Cron
	Pipeline *ingest.Pipeline
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, p *ingest.Pipeline) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Pipeline: p,
		Ctx:      ctx,
	}
}

// RegisterAll registers the movers and daily ingestion tasks.
func (s *Scheduler) RegisterAll(moversCron, dailyCron string) error {
	if _, err := s.Cron.AddFunc(moversCron, s.moversTask); err != nil {
		return fmt.Errorf("register movers task: %w", err)
	}
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunMoversNow executes the movers task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunMoversNow() {
	s.moversTask()
}

func (s *Scheduler) moversTask() {
	if _, err := s.Pipeline.RunMovers(s.Ctx); err != nil {
		log.Printf("[ERROR] movers run: %v", err)
	}
}

func (s *Scheduler) dailyTask() {
	if _, err := s.Pipeline.RunDaily(s.Ctx); err != nil {
		log.Printf("[ERROR] daily run: %v", err)
	}
}
