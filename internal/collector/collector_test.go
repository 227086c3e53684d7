package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"RiskLab/internal/model"
)

func TestPeriodForLookback(t *testing.T) {
	tests := []struct {
		days int
		want Period
	}{
		{5, Period1Mo},
		{20, Period1Mo},
		{21, Period3Mo},
		{60, Period3Mo},
		{100, Period6Mo},
		{252, Period2Y},
		{250, Period1Y},
		{1000, Period5Y},
		{2500, Period10Y},
		{2501, PeriodMax},
	}
	for _, tt := range tests {
		if got := PeriodForLookback(tt.days); got != tt.want {
			t.Errorf("lookback %d: expected %s, got %s", tt.days, tt.want, got)
		}
	}
}

func TestCollectHistories_AllOrNothing(t *testing.T) {
	end := model.NewDate(2024, time.June, 28)
	m := &MockFetcher{
		End: end,
		Errors: map[string]error{
			"BAD1": errors.New("not found"),
			"BAD2": errors.New("timeout"),
		},
	}
	c := NewCollector(m, 2)

	_, err := c.CollectHistories(context.Background(), []string{"aapl", "bad2", "MSFT", "BAD1"}, 60)
	var fe *model.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if got := fe.Tickers(); len(got) != 2 || got[0] != "BAD1" || got[1] != "BAD2" {
		t.Errorf("expected failures [BAD1 BAD2], got %v", got)
	}
	if !strings.Contains(err.Error(), "BAD1") || !strings.Contains(err.Error(), "BAD2") {
		t.Errorf("error should name failing tickers: %v", err)
	}

	out, err := c.CollectHistories(context.Background(), []string{"aapl", "MSFT", "AAPL"}, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 de-duplicated tickers, got %d", len(out))
	}
	for ticker, series := range out {
		if len(series) < 60 {
			t.Errorf("%s: expected at least 60 bars, got %d", ticker, len(series))
		}
		for i := 1; i < len(series); i++ {
			if !series[i-1].Date.Before(series[i].Date) {
				t.Fatalf("%s: dates not strictly increasing at %d", ticker, i)
			}
		}
		if last := series[len(series)-1].Date; last != end {
			t.Errorf("%s: expected last bar on %s, got %s", ticker, end, last)
		}
	}
}

func TestCollectHistories_SortsProviderOutput(t *testing.T) {
	d := func(day int) model.Date { return model.NewDate(2024, time.May, day) }
	m := &MockFetcher{Histories: map[string][]model.PricePoint{
		"X": {{Date: d(3), Close: 3}, {Date: d(1), Close: 1}, {Date: d(2), Close: 2}, {Date: d(2), Close: 2.5}},
	}}
	out, err := NewCollector(m, 0).CollectHistories(context.Background(), []string{"x"}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := out["X"]
	if len(got) != 3 || got[0].Close != 1 || got[1].Close != 2.5 || got[2].Close != 3 {
		t.Errorf("expected sorted, de-duplicated bars, got %+v", got)
	}
	if m.Histories["X"][0].Close != 3 {
		t.Error("collector must not reorder the provider's slice")
	}
}

func TestCollectHistories_Validation(t *testing.T) {
	c := NewCollector(&MockFetcher{}, 1)
	_, err := c.CollectHistories(context.Background(), []string{" ", ""}, 10)
	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestCollectHistories_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewCollector(&MockFetcher{}, 1).CollectHistories(ctx, []string{"A", "B"}, 10)
	var fe *model.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if len(fe.Failures) != 2 {
		t.Errorf("expected both tickers to fail, got %v", fe.Failures)
	}
}

func TestYahooFetcher_ParsesChart(t *testing.T) {
	// 2024-03-04 14:30 UTC and 2024-03-06 14:30 UTC, null bar in between
	body := `{"chart":{"result":[{"meta":{"gmtoffset":-18000},
		"timestamp":[1709562600,1709649000,1709735400],
		"indicators":{"quote":[{
			"open":[10.0,null,12.0],"high":[11.0,null,13.0],"low":[9.5,null,11.5],
			"close":[10.5,null,12.5],"volume":[1000,null,3000]}]}}],"error":null}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/v8/finance/chart/%5EGSPC") && !strings.Contains(r.URL.Path, "/v8/finance/chart/^GSPC") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("range") != "3mo" || r.URL.Query().Get("interval") != "1d" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(body))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	points, err := f.FetchDailyHistory(context.Background(), "SPX500", Period3Mo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 bars (null skipped), got %d", len(points))
	}
	if points[0].Date != model.NewDate(2024, time.March, 4) || points[1].Date != model.NewDate(2024, time.March, 6) {
		t.Errorf("unexpected dates %s, %s", points[0].Date, points[1].Date)
	}
	if points[1].Close != 12.5 || points[1].Volume != 3000 {
		t.Errorf("unexpected bar %+v", points[1])
	}
}

func TestYahooFetcher_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer srv.Close()
	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	if _, err := f.FetchDailyHistory(context.Background(), "ZZZZ", Period1Mo); err == nil || !strings.Contains(err.Error(), "delisted") {
		t.Errorf("expected api error, got %v", err)
	}
}

func TestRESTFetcher_ParsesBars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("expected bearer auth, got %q", got)
		}
		if r.URL.Query().Get("symbol") != "MSFT" {
			t.Errorf("unexpected symbol %q", r.URL.Query().Get("symbol"))
		}
		w.Write([]byte(`[
			{"date":"2024-01-03","open":1,"high":2,"low":0.5,"close":1.5,"volume":10},
			{"timestamp":1704153600,"open":1,"high":2,"low":0.5,"close":1.2,"volume":20},
			{"date":"2024-01-04","open":0,"high":0,"low":0,"close":0,"volume":0}
		]`))
	}))
	defer srv.Close()

	points, err := NewRESTFetcher(srv.URL, "secret", "").FetchDailyHistory(context.Background(), "MSFT", Period1Mo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(points))
	}
	if points[0].Date != model.NewDate(2024, time.January, 2) || points[0].Close != 1.2 {
		t.Errorf("expected timestamp bar first, got %+v", points[0])
	}
	if points[1].Volume != 10 {
		t.Errorf("expected volume 10, got %d", points[1].Volume)
	}
}

func TestRESTFetcher_BadPayload(t *testing.T) {
	if _, err := parseBarsGJSON([]byte(`{"bars":1}`), "X"); err == nil {
		t.Error("expected error for non-array payload")
	}
	if _, err := parseBarsGJSON([]byte(`[{"date":"yesterday","close":1}]`), "X"); err == nil {
		t.Error("expected error for bad date")
	}
	points, err := parseBarsGJSON([]byte(`{"data":[{"date":"2024-2-1","close":5}]}`), "X")
	if err != nil || len(points) != 1 {
		t.Errorf("expected enveloped array to parse, got %v %v", points, err)
	}
}
