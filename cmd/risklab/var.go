package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"RiskLab/internal/analysis"
	"RiskLab/internal/report"
)

type varCmd struct {
	tickers    string
	weights    string
	value      float64
	lookback   int
	horizon    int
	confidence int
	json       bool
}

func (*varCmd) Name() string     { return "var" }
func (*varCmd) Synopsis() string { return "portfolio Value-at-Risk and Expected Shortfall" }
func (*varCmd) Usage() string {
	return `var -t AAPL,MSFT -w 0.6,0.4 [-value 100000] [-lookback 252] [-horizon 10] [-confidence 99]

  Historical-simulation VaR and ES of a weighted portfolio. Parameters not
  given on the command line come from the portfolio section of the config.
`
}

func (c *varCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tickers, "t", "", "comma-separated tickers")
	f.StringVar(&c.weights, "w", "", "comma-separated weights, one per ticker, summing to 1")
	f.Float64Var(&c.value, "value", 0, "portfolio value")
	f.IntVar(&c.lookback, "lookback", 0, "trading days of history")
	f.IntVar(&c.horizon, "horizon", 0, "forecast horizon in days")
	f.IntVar(&c.confidence, "confidence", 0, "confidence level, 95 or 99")
	f.BoolVar(&c.json, "json", false, "print the result as JSON")
}

func (c *varCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(true)
	if err != nil {
		return exitStatus(err)
	}
	defer a.Close()

	p := a.cfg.Portfolio
	req := analysis.RiskRequest{
		Tickers: p.Tickers, Weights: p.Weights, PortfolioValue: p.Value,
		Lookback: p.Lookback, Horizon: p.Horizon, Confidence: p.Confidence,
	}
	if c.tickers != "" {
		req.Tickers = splitList(c.tickers)
		req.Weights = nil
	}
	if c.weights != "" {
		if req.Weights, err = parseWeights(c.weights); err != nil {
			return exitStatus(err)
		}
	}
	if c.value != 0 {
		req.PortfolioValue = c.value
	}
	if c.lookback != 0 {
		req.Lookback = c.lookback
	}
	if c.horizon != 0 {
		req.Horizon = c.horizon
	}
	if c.confidence != 0 {
		req.Confidence = c.confidence
	}

	res, err := a.service.CalculateRisk(ctx, req)
	if err != nil {
		return exitStatus(err)
	}
	if c.json {
		if err := printJSON(res); err != nil {
			return exitStatus(err)
		}
		return subcommands.ExitSuccess
	}
	fmt.Print(report.FormatRisk(req.Tickers, req.Weights, res))
	return subcommands.ExitSuccess
}
