package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"RiskLab/internal/report"
)

type historyCmd struct {
	limit int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list recorded risk runs" }
func (*historyCmd) Usage() string {
	return `history [-n 10]

  Lists the most recent VaR / ES runs stored in the SQLite database.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 10, "number of runs to list")
}

func (c *historyCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(true)
	if err != nil {
		return exitStatus(err)
	}
	defer a.Close()

	runs, err := a.rec.RecentRiskRuns(c.limit)
	if err != nil {
		return exitStatus(err)
	}
	fmt.Print(report.FormatHistory(runs))
	return subcommands.ExitSuccess
}
