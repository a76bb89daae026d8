// Package export writes a finished report to a file for use outside the
// dashboard. Exports are output only; nothing is ever read back.
package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/janekbaraniewski/pacewatch/internal/core"
	"github.com/janekbaraniewski/pacewatch/internal/pipeline"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS reports (
		report_id INTEGER PRIMARY KEY AUTOINCREMENT,
		generated_at TEXT NOT NULL,
		range_start TEXT NOT NULL,
		range_end TEXT NOT NULL,
		grain TEXT NOT NULL,
		state TEXT NOT NULL,
		standard_pacing REAL NOT NULL,
		latest_date TEXT
	);`,
	`CREATE TABLE IF NOT EXISTS paced_rows (
		report_id INTEGER NOT NULL,
		position INTEGER NOT NULL,
		campaign_id TEXT,
		account_name TEXT NOT NULL,
		campaign_name TEXT NOT NULL,
		monthly_budget REAL NOT NULL,
		period_net REAL NOT NULL,
		period_gross REAL NOT NULL,
		period_impression REAL NOT NULL,
		period_click REAL NOT NULL,
		latest_gross REAL NOT NULL,
		latest_impression REAL NOT NULL,
		latest_click REAL NOT NULL,
		diff_gross REAL NOT NULL,
		diff_impression REAL NOT NULL,
		diff_click REAL NOT NULL,
		progress_percent REAL NOT NULL,
		standard_pacing REAL NOT NULL,
		diff_point REAL NOT NULL,
		daily_progress_diff REAL NOT NULL,
		band TEXT NOT NULL,
		PRIMARY KEY (report_id, position),
		FOREIGN KEY(report_id) REFERENCES reports(report_id)
	);`,
	`CREATE TABLE IF NOT EXISTS series_points (
		report_id INTEGER NOT NULL,
		selection TEXT NOT NULL,
		day TEXT NOT NULL,
		daily_gross REAL NOT NULL,
		cumulative_gross REAL NOT NULL,
		cumulative_impression REAL NOT NULL,
		cumulative_click REAL NOT NULL,
		actual_progress REAL NOT NULL,
		ideal_progress REAL NOT NULL,
		observed INTEGER NOT NULL,
		PRIMARY KEY (report_id, selection, day),
		FOREIGN KEY(report_id) REFERENCES reports(report_id)
	);`,
}

// SQLite appends res to the database at path, creating it if needed, and
// returns the new report id.
func SQLite(ctx context.Context, path string, res pipeline.Result) (int64, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("export: creating DB dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return 0, fmt.Errorf("export: opening DB: %w", err)
	}
	defer db.Close()

	if err := configureConnection(ctx, db); err != nil {
		return 0, err
	}
	return writeReport(ctx, db, res, time.Now().UTC())
}

func configureConnection(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode = WAL;`); err != nil {
		return fmt.Errorf("export: set journal_mode WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000;`); err != nil {
		return fmt.Errorf("export: set busy_timeout: %w", err)
	}
	// Exports are a single writer.
	db.SetMaxOpenConns(1)
	return nil
}

func writeReport(ctx context.Context, db *sql.DB, res pipeline.Result, now time.Time) (int64, error) {
	for _, stmt := range append([]string{`PRAGMA foreign_keys = ON;`}, schema...) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return 0, fmt.Errorf("export: init schema: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("export: begin tx: %w", err)
	}
	defer tx.Rollback()

	var latest any
	if res.HasLatest {
		latest = res.LatestDate.Format(core.DateLayout)
	}
	r, err := tx.ExecContext(ctx,
		`INSERT INTO reports (generated_at, range_start, range_end, grain, state, standard_pacing, latest_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		now.Format(time.RFC3339), res.Range.Start.Format(core.DateLayout), res.Range.End.Format(core.DateLayout),
		string(res.Grain), string(res.State), res.StandardPacing, latest,
	)
	if err != nil {
		return 0, fmt.Errorf("export: insert report: %w", err)
	}
	reportID, err := r.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("export: report id: %w", err)
	}

	rowStmt, err := tx.PrepareContext(ctx, `INSERT INTO paced_rows (
		report_id, position, campaign_id, account_name, campaign_name, monthly_budget,
		period_net, period_gross, period_impression, period_click,
		latest_gross, latest_impression, latest_click,
		diff_gross, diff_impression, diff_click,
		progress_percent, standard_pacing, diff_point, daily_progress_diff, band
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("export: prepare rows: %w", err)
	}
	defer rowStmt.Close()

	for i, row := range res.Rows {
		var campaignID any
		if row.CampaignID != "" {
			campaignID = row.CampaignID
		}
		if _, err := rowStmt.ExecContext(ctx,
			reportID, i, campaignID, row.AccountName, row.CampaignName, row.MonthlyBudget,
			row.Period.Net, row.Period.Gross, row.Period.Impression, row.Period.Click,
			row.Latest.Gross, row.Latest.Impression, row.Latest.Click,
			row.Diff.Gross, row.Diff.Impression, row.Diff.Click,
			row.ProgressPercent, row.StandardPacing, row.DiffPoint, row.DailyProgressDiff, string(row.Band),
		); err != nil {
			return 0, fmt.Errorf("export: insert row %d: %w", i, err)
		}
	}

	if res.HasSeries {
		pointStmt, err := tx.PrepareContext(ctx, `INSERT INTO series_points (
			report_id, selection, day, daily_gross, cumulative_gross, cumulative_impression,
			cumulative_click, actual_progress, ideal_progress, observed
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, fmt.Errorf("export: prepare series: %w", err)
		}
		defer pointStmt.Close()

		sel := res.Series.Selection.String()
		for _, p := range res.Series.Points {
			observed := 0
			if p.Observed {
				observed = 1
			}
			if _, err := pointStmt.ExecContext(ctx,
				reportID, sel, p.Date.Format(core.DateLayout), p.Daily.Gross, p.Cumulative.Gross,
				p.Cumulative.Impression, p.Cumulative.Click, p.ActualProgress, p.IdealProgress, observed,
			); err != nil {
				return 0, fmt.Errorf("export: insert series point %s: %w", p.Date.Format(core.DateLayout), err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("export: commit: %w", err)
	}
	return reportID, nil
}
