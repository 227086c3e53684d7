package main

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/google/subcommands"

	"RiskLab/internal/config"
	"RiskLab/internal/model"
	"RiskLab/internal/volatility"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"AAPL,MSFT", []string{"AAPL", "MSFT"}},
		{" aapl , ,msft,", []string{"aapl", "msft"}},
		{"", nil},
	}
	for _, tt := range tests {
		if got := splitList(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseWeights(t *testing.T) {
	got, err := parseWeights("0.6, 0.4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []float64{0.6, 0.4}) {
		t.Errorf("got %v", got)
	}

	_, err = parseWeights("0.6,abc")
	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestExitStatus(t *testing.T) {
	if s := exitStatus(fmt.Errorf("wrapped: %w", &model.ValidationError{Field: "x", Msg: "bad"})); s != subcommands.ExitUsageError {
		t.Errorf("validation: got %v", s)
	}
	if s := exitStatus(&model.FetchError{Failures: map[string]error{"X": errors.New("boom")}}); s != subcommands.ExitFailure {
		t.Errorf("fetch: got %v", s)
	}
}

func TestWatchlist(t *testing.T) {
	cfg := &config.Config{}
	cfg.Portfolio.Tickers = []string{"AAPL"}
	cfg.Portfolio.Weights = []float64{1}
	cfg.Volatility.Model = "ewma"

	wl, err := watchlist(&app{cfg: cfg})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wl.Risk == nil || wl.Volatility != nil {
		t.Fatalf("expected only a risk entry, got %+v", wl)
	}

	cfg.Volatility.Tickers = []string{"SPY"}
	cfg.Volatility.Model = "garch-lite"
	wl, err = watchlist(&app{cfg: cfg})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wl.Volatility == nil || wl.Volatility.Model != volatility.EWMA {
		t.Errorf("expected ewma volatility entry, got %+v", wl.Volatility)
	}

	cfg.Volatility.Model = "arima"
	if _, err := watchlist(&app{cfg: cfg}); err == nil {
		t.Error("expected error for unknown model")
	}

	cfg.Volatility.Model = "ewma"
	cfg.Portfolio.Tickers = []string{"AAPL", "MSFT"}
	_, err = watchlist(&app{cfg: cfg})
	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("expected ValidationError for tickers/weights mismatch, got %v", err)
	}
}
