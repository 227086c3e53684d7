package scheduler

import (
	"context"
	"fmt"
	"log"

	"RiskLab/internal/analysis"
	"RiskLab/internal/report"

	"github.com/robfig/cron/v3"
)

// Watchlist is the set of calculations run on every scheduled tick.
// A nil request is skipped.
type Watchlist struct {
	Risk       *analysis.RiskRequest
	Volatility *analysis.VolatilityRequest
}

// Scheduler manages the cron-driven watchlist evaluation.
type Scheduler struct {
	Cron      *cron.Cron
	Service   *analysis.Service
	Watchlist Watchlist
	Ctx       context.Context

	// Output receives rendered reports; defaults to the log.
	Output func(report string)
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, svc *analysis.Service, wl Watchlist) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Service:   svc,
		Watchlist: wl,
		Ctx:       ctx,
		Output:    func(r string) { log.Printf("[INFO] report\n%s", r) },
	}
}

// Register adds the daily watchlist task.
func (s *Scheduler) Register(dailyCron string) error {
	if s.Watchlist.Risk == nil && s.Watchlist.Volatility == nil {
		return fmt.Errorf("watchlist is empty: configure portfolio or volatility tickers")
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

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the watchlist immediately (for RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.dailyTask()
}

func (s *Scheduler) dailyTask() {
	log.Println("[INFO] running daily watchlist")
	if req := s.Watchlist.Risk; req != nil {
		res, err := s.Service.CalculateRisk(s.Ctx, *req)
		if err != nil {
			log.Printf("[ERROR] watchlist risk: %v", err)
		} else {
			s.Output(report.FormatRisk(req.Tickers, req.Weights, res))
		}
	}
	if req := s.Watchlist.Volatility; req != nil {
		res, err := s.Service.CalculateVolatility(s.Ctx, *req)
		if err != nil {
			log.Printf("[ERROR] watchlist volatility: %v", err)
		} else {
			s.Output(report.FormatVolatility(res))
		}
	}
}
