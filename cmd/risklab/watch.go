package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/subcommands"

	"RiskLab/internal/analysis"
	"RiskLab/internal/model"
	"RiskLab/internal/notifier"
	"RiskLab/internal/scheduler"
	"RiskLab/internal/volatility"
)

type watchCmd struct{}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "run the configured watchlist on a cron schedule" }
func (*watchCmd) Usage() string {
	return `watch

  Evaluates the portfolio and volatility sections of the config on
  schedule.daily_cron and records every run. Reports are logged and, when
  telegram credentials are configured, sent to the chat. Set
  RUN_ON_START=true to evaluate once immediately.
`
}

func (*watchCmd) SetFlags(*flag.FlagSet) {}

func (*watchCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log.Println("[INFO] RiskLab watch starting...")
	a, err := openApp(true)
	if err != nil {
		return exitStatus(err)
	}
	defer a.Close()

	wl, err := watchlist(a)
	if err != nil {
		return exitStatus(err)
	}
	sched := scheduler.NewScheduler(ctx, a.service, wl)
	if a.cfg.TelegramEnabled() {
		tg := notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy)
		sched.Output = func(r string) {
			log.Printf("[INFO] report\n%s", r)
			if err := tg.SendWithRetry(ctx, r, 3); err != nil {
				log.Printf("[ERROR] telegram: %v", err)
			}
		}
		log.Println("[INFO] telegram delivery enabled")
	}
	if err := sched.Register(a.cfg.Schedule.DailyCron); err != nil {
		return exitStatus(err)
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, evaluating watchlist now")
		go sched.RunNow()
	}

	log.Println("[INFO] RiskLab is running. Press Ctrl+C to stop.")
	<-ctx.Done()
	log.Println("[INFO] shutdown signal received, stopping...")
	return subcommands.ExitSuccess
}

func watchlist(a *app) (scheduler.Watchlist, error) {
	var wl scheduler.Watchlist
	if p := a.cfg.Portfolio; len(p.Tickers) > 0 {
		if len(p.Tickers) != len(p.Weights) {
			return wl, &model.ValidationError{
				Field: "portfolio",
				Msg:   fmt.Sprintf("config lists %d tickers but %d weights", len(p.Tickers), len(p.Weights)),
			}
		}
		wl.Risk = &analysis.RiskRequest{
			Tickers: p.Tickers, Weights: p.Weights, PortfolioValue: p.Value,
			Lookback: p.Lookback, Horizon: p.Horizon, Confidence: p.Confidence,
		}
	}
	if v := a.cfg.Volatility; len(v.Tickers) > 0 {
		m, err := volatility.ParseModel(v.Model)
		if err != nil {
			return wl, err
		}
		wl.Volatility = &analysis.VolatilityRequest{Tickers: v.Tickers, Lookback: v.Lookback, Window: v.Window, Model: m}
	}
	return wl, nil
}
