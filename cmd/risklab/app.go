package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/subcommands"

	"RiskLab/internal/analysis"
	"RiskLab/internal/collector"
	"RiskLab/internal/config"
	"RiskLab/internal/model"
	"RiskLab/internal/recorder"
	"RiskLab/internal/volatility"
)

// app holds the wired components shared by every command.
type app struct {
	cfg     *config.Config
	service *analysis.Service
	rec     recorder.Recorder
}

// openApp loads the config and wires fetcher, collector, engine and recorder.
// With persist false the recorder is a no-op.
func openApp(persist bool) (*app, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "rest":
		fetcher = collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	case "mock":
		fetcher = &collector.MockFetcher{}
	default:
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	opts := volatility.Options{
		Lambda:            cfg.Analysis.EWMALambda,
		AnnualizationDays: cfg.Analysis.AnnualizationDays,
		RegimeLowPct:      cfg.Analysis.RegimeLowPct,
		RegimeHighPct:     cfg.Analysis.RegimeHighPct,
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("analysis options: %w", err)
	}

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if persist && cfg.Database.SQLitePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0o755); err != nil {
			log.Printf("[WARN] create database directory: %v", err)
		}
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		} else {
			rec = sr
		}
	}

	svc := analysis.NewService(
		collector.NewCollector(fetcher, cfg.DataSource.Concurrency),
		volatility.NewEngine(opts),
		rec,
	)
	return &app{cfg: cfg, service: svc, rec: rec}, nil
}

func (a *app) Close() {
	if err := a.rec.Close(); err != nil {
		log.Printf("[ERROR] close recorder: %v", err)
	}
}

// exitStatus reports err and maps it to an exit status: invalid parameters
// are usage errors, everything else is a failure.
func exitStatus(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseWeights(s string) ([]float64, error) {
	parts := splitList(s)
	out := make([]float64, len(parts))
	for i, p := range parts {
		w, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, &model.ValidationError{Field: "weights", Msg: fmt.Sprintf("%q is not a number", p)}
		}
		out[i] = w
	}
	return out, nil
}
