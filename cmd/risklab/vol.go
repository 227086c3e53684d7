package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"RiskLab/internal/analysis"
	"RiskLab/internal/report"
	"RiskLab/internal/volatility"
)

type volCmd struct {
	tickers  string
	lookback int
	window   int
	model    string
	json     bool
}

func (*volCmd) Name() string     { return "vol" }
func (*volCmd) Synopsis() string { return "realized / EWMA volatility, correlation and regime" }
func (*volCmd) Usage() string {
	return `vol -t SPY,QQQ [-lookback 252] [-window 20] [-model realized|ewma]

  Annualized volatility per ticker, the short-term correlation matrix over
  the last window returns, and the volatility regime of the first ticker.
`
}

func (c *volCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tickers, "t", "", "comma-separated tickers, the first is the primary ticker")
	f.IntVar(&c.lookback, "lookback", 0, "trading days of history")
	f.IntVar(&c.window, "window", 0, "rolling window in returns")
	f.StringVar(&c.model, "model", "", "volatility model: realized or ewma")
	f.BoolVar(&c.json, "json", false, "print the full result as JSON")
}

func (c *volCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(true)
	if err != nil {
		return exitStatus(err)
	}
	defer a.Close()

	v := a.cfg.Volatility
	tickers, lookback, window, name := v.Tickers, v.Lookback, v.Window, v.Model
	if c.tickers != "" {
		tickers = splitList(c.tickers)
	}
	if c.lookback != 0 {
		lookback = c.lookback
	}
	if c.window != 0 {
		window = c.window
	}
	if c.model != "" {
		name = c.model
	}
	m, err := volatility.ParseModel(name)
	if err != nil {
		return exitStatus(err)
	}

	res, err := a.service.CalculateVolatility(ctx, analysis.VolatilityRequest{
		Tickers: tickers, Lookback: lookback, Window: window, Model: m,
	})
	if err != nil {
		return exitStatus(err)
	}
	if c.json {
		if err := printJSON(res); err != nil {
			return exitStatus(err)
		}
		return subcommands.ExitSuccess
	}
	fmt.Print(report.FormatVolatility(res))
	return subcommands.ExitSuccess
}
