package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists calculation history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets dashboards read while runs are being written.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS risk_runs (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			tickers      TEXT NOT NULL,
			weights      TEXT NOT NULL,
			lookback     INTEGER,
			horizon      INTEGER,
			confidence   INTEGER,
			value        REAL,
			observations INTEGER,
			var_pct      REAL,
			es_pct       REAL,
			var_usd      REAL,
			es_usd       REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_risk_ts ON risk_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS volatility_runs (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			model       TEXT,
			lookback    INTEGER,
			window_size INTEGER,
			ticker      TEXT NOT NULL,
			as_of       TEXT,
			volatility  REAL,
			regime      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_vol_ts ON volatility_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS correlations (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			base        TEXT NOT NULL,
			quote       TEXT NOT NULL,
			correlation REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_corr_ts ON correlations(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRisk(run *RiskRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := run.Result
	weights := make([]string, len(run.Weights))
	for i, w := range run.Weights {
		weights[i] = strconv.FormatFloat(w, 'f', -1, 64)
	}
	_, err := r.db.Exec(`INSERT INTO risk_runs
		(timestamp, tickers, weights, lookback, horizon, confidence, value, observations,
		 var_pct, es_pct, var_usd, es_usd)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), strings.Join(run.Tickers, ","), strings.Join(weights, ","),
		run.Lookback, res.Horizon, res.Confidence, res.PortfolioValue, res.Observations,
		res.VaRPct, res.ESPct, res.VaRUSD, res.ESUSD,
	)
	return err
}

// RecordVolatility stores the latest volatility of every ticker, the primary
// ticker's latest regime, and the correlation pairs in one transaction.
func (r *SQLiteRecorder) RecordVolatility(run *VolatilityRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := run.Result
	now := time.Now().Unix()
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var regime string
	if n := len(res.Regimes); n > 0 {
		regime = string(res.Regimes[n-1].Regime)
	}
	for ticker, vols := range res.Volatilities {
		if len(vols) == 0 {
			continue
		}
		last := vols[len(vols)-1]
		tickerRegime := ""
		if ticker == res.Primary {
			tickerRegime = regime
		}
		if _, err := tx.Exec(`INSERT INTO volatility_runs
			(timestamp, model, lookback, window_size, ticker, as_of, volatility, regime)
			VALUES (?,?,?,?,?,?,?,?)`,
			now, res.Model, run.Lookback, run.Window, ticker, last.Date.String(), last.Volatility, tickerRegime,
		); err != nil {
			return fmt.Errorf("insert volatility: %w", err)
		}
	}
	for base, row := range res.Correlation {
		for quote, c := range row {
			if base >= quote {
				continue
			}
			if _, err := tx.Exec(`INSERT INTO correlations (timestamp, base, quote, correlation) VALUES (?,?,?,?)`,
				now, base, quote, c); err != nil {
				return fmt.Errorf("insert correlation: %w", err)
			}
		}
	}
	return tx.Commit()
}

// RecentRiskRuns returns up to limit risk runs, newest first.
func (r *SQLiteRecorder) RecentRiskRuns(limit int) ([]RiskRunRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(`SELECT id, timestamp, tickers, weights, lookback, horizon, confidence, value,
		var_pct, es_pct, var_usd, es_usd
		FROM risk_runs ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query risk runs: %w", err)
	}
	defer rows.Close()

	var out []RiskRunRecord
	for rows.Next() {
		var rec RiskRunRecord
		var ts int64
		if err := rows.Scan(&rec.ID, &ts, &rec.Tickers, &rec.Weights, &rec.Lookback, &rec.Horizon,
			&rec.Confidence, &rec.Value, &rec.VaRPct, &rec.ESPct, &rec.VaRUSD, &rec.ESUSD); err != nil {
			return nil, fmt.Errorf("scan risk run: %w", err)
		}
		rec.RecordedAt = time.Unix(ts, 0)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
