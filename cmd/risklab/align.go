package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"RiskLab/internal/analysis"
	"RiskLab/internal/report"
)

type alignCmd struct {
	tickers  string
	lookback int
	json     bool
}

func (*alignCmd) Name() string     { return "align" }
func (*alignCmd) Synopsis() string { return "print the aligned, forward-filled price history" }
func (*alignCmd) Usage() string {
	return `align -t AAPL,MSFT [-lookback 30] [-json]

  Fetches every ticker, aligns them on a common calendar and prints the last
  lookback rows. Forward-filled closes are marked with '*'.
`
}

func (c *alignCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tickers, "t", "", "comma-separated tickers")
	f.IntVar(&c.lookback, "lookback", 30, "rows to print")
	f.BoolVar(&c.json, "json", false, "print the aligned set as JSON")
}

func (c *alignCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(false)
	if err != nil {
		return exitStatus(err)
	}
	defer a.Close()

	set, err := a.service.AlignedHistory(ctx, analysis.AlignRequest{Tickers: splitList(c.tickers), Lookback: c.lookback})
	if err != nil {
		return exitStatus(err)
	}
	if c.json {
		if err := printJSON(set); err != nil {
			return exitStatus(err)
		}
		return subcommands.ExitSuccess
	}
	fmt.Print(report.FormatAligned(set))
	return subcommands.ExitSuccess
}
