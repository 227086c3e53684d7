package model

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports malformed or contradictory request parameters.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid parameters: " + e.Msg
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// InsufficientDataError reports that fewer observations were available than required.
// Ticker is empty when the shortage concerns the whole request.
type InsufficientDataError struct {
	Ticker   string
	Found    int
	Required int
}

func (e *InsufficientDataError) Error() string {
	if e.Ticker == "" {
		return fmt.Sprintf("insufficient data: found %d observations, need %d", e.Found, e.Required)
	}
	return fmt.Sprintf("insufficient data for %s: found %d observations, need %d", e.Ticker, e.Found, e.Required)
}

// FetchError reports every ticker whose history could not be retrieved.
type FetchError struct {
	Failures map[string]error
}

// Tickers returns the failing tickers in sorted order.
func (e *FetchError) Tickers() []string {
	tickers := make([]string, 0, len(e.Failures))
	for t := range e.Failures {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}

func (e *FetchError) Error() string {
	tickers := e.Tickers()
	parts := make([]string, len(tickers))
	for i, t := range tickers {
		parts[i] = fmt.Sprintf("%s: %v", t, e.Failures[t])
	}
	return fmt.Sprintf("fetch failed for %s (%s)", strings.Join(tickers, ", "), strings.Join(parts, "; "))
}
