// Package report renders calculation results as plain text.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"RiskLab/internal/model"
	"RiskLab/internal/recorder"
)

// FormatRisk formats a VaR / ES result for the given portfolio.
func FormatRisk(tickers []string, weights []float64, res *model.RiskResult) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Portfolio risk | %s\n\n", time.Now().Format("2006-01-02")))
	for i, t := range tickers {
		if i < len(weights) {
			b.WriteString(fmt.Sprintf("  %-8s %6.1f%%\n", t, weights[i]*100))
		}
	}
	b.WriteString(fmt.Sprintf("\nValue: %.2f | Confidence: %d%% | Horizon: %dd | Scenarios: %d\n",
		res.PortfolioValue, res.Confidence, res.Horizon, res.Observations))
	b.WriteString(fmt.Sprintf("VaR: %.2f%% (%.2f)\n", res.VaRPct*100, res.VaRUSD))
	b.WriteString(fmt.Sprintf("ES:  %.2f%% (%.2f)\n", res.ESPct*100, res.ESUSD))
	return b.String()
}

// FormatVolatility formats the latest volatility per ticker, the correlation
// matrix and the primary ticker's current regime.
func FormatVolatility(res *model.VolatilityResult) string {
	var b strings.Builder

	tickers := make([]string, 0, len(res.Volatilities))
	for t := range res.Volatilities {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	b.WriteString(fmt.Sprintf("Volatility lab (%s) | %s\n\n", res.Model, time.Now().Format("2006-01-02")))
	for _, t := range tickers {
		vols := res.Volatilities[t]
		if len(vols) == 0 {
			b.WriteString(fmt.Sprintf("  %-8s n/a\n", t))
			continue
		}
		last := vols[len(vols)-1]
		b.WriteString(fmt.Sprintf("  %-8s %6.2f%% (as of %s)\n", t, last.Volatility*100, last.Date))
	}

	if len(res.Correlation) > 0 {
		b.WriteString("\nCorrelation:\n")
		b.WriteString(fmt.Sprintf("  %-8s", ""))
		for _, t := range tickers {
			b.WriteString(fmt.Sprintf(" %8s", t))
		}
		b.WriteString("\n")
		for _, row := range tickers {
			b.WriteString(fmt.Sprintf("  %-8s", row))
			for _, col := range tickers {
				b.WriteString(fmt.Sprintf(" %8.3f", res.Correlation[row][col]))
			}
			b.WriteString("\n")
		}
	}

	if n := len(res.Regimes); n > 0 {
		b.WriteString(fmt.Sprintf("\nRegime (%s): %s\n", res.Primary, res.Regimes[n-1].Regime))
	}
	if len(res.Dropped) > 0 {
		b.WriteString(fmt.Sprintf("Dropped (insufficient history): %s\n", strings.Join(res.Dropped, ", ")))
	}
	return b.String()
}

// FormatAligned formats an aligned set as a close-price table. Forward-filled
// closes are marked with '*'.
func FormatAligned(set *model.AlignedSet) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-10s", "date"))
	for _, t := range set.Tickers {
		b.WriteString(fmt.Sprintf(" %11s", t))
	}
	b.WriteString("\n")
	for i, d := range set.Dates() {
		b.WriteString(fmt.Sprintf("%-10s", d))
		for _, t := range set.Tickers {
			p := set.Series[t][i]
			mark := " "
			if p.Volume == 0 {
				mark = "*"
			}
			b.WriteString(fmt.Sprintf(" %10.2f%s", p.Close, mark))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatHistory formats stored risk runs, newest first.
func FormatHistory(runs []recorder.RiskRunRecord) string {
	if len(runs) == 0 {
		return "no recorded risk runs\n"
	}
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(fmt.Sprintf("%s  %-20s %d%%/%dd  VaR %.2f%% (%.2f)  ES %.2f%% (%.2f)\n",
			r.RecordedAt.Format("2006-01-02 15:04"), r.Tickers, r.Confidence, r.Horizon,
			r.VaRPct*100, r.VaRUSD, r.ESPct*100, r.ESUSD))
	}
	return b.String()
}
