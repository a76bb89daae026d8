package export

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/janekbaraniewski/pacewatch/internal/core"
	"github.com/janekbaraniewski/pacewatch/internal/pipeline"
)

func sampleResult() pipeline.Result {
	name := "Acme"
	p := core.Payload{
		Account: []core.PayloadAccount{{
			Name: &name,
			Campaign: []core.PayloadCampaign{{
				ID:   "1",
				Name: "Search",
				MonthlyChargeLimit: []core.PayloadChargeLimit{
					{Month: "202609", ChargeLimit: 100000},
				},
			}},
		}},
		Report: &core.PayloadReport{Records: []core.PayloadRecord{
			{CampaignID: "1", Date: "2026-09-19", Gross: 20000, Impression: 1000, Click: 10},
			{CampaignID: "1", Date: "2026-09-20", Gross: 30000, Impression: 2000, Click: 20},
		}},
	}
	rng := core.NewDateRange(
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC),
	)
	return pipeline.Run(p, pipeline.Options{Range: rng, Grain: core.GrainCampaign})
}

func TestSQLite_WritesReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.db")
	res := sampleResult()

	id, err := SQLite(context.Background(), path, res)
	if err != nil {
		t.Fatalf("SQLite() error: %v", err)
	}
	second, err := SQLite(context.Background(), path, res)
	if err != nil {
		t.Fatalf("second SQLite() error: %v", err)
	}
	if second <= id {
		t.Errorf("report ids = %d then %d, want increasing", id, second)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var gross, progress float64
	var band string
	err = db.QueryRow(`SELECT period_gross, progress_percent, band FROM paced_rows WHERE report_id = ?`, id).
		Scan(&gross, &progress, &band)
	if err != nil {
		t.Fatalf("query paced_rows: %v", err)
	}
	if gross != 50000 || progress != 50 || band != string(core.BandAtRisk) {
		t.Errorf("row = gross %v progress %v band %s", gross, progress, band)
	}

	var points, observed int
	if err := db.QueryRow(`SELECT COUNT(*), SUM(observed) FROM series_points WHERE report_id = ?`, id).
		Scan(&points, &observed); err != nil {
		t.Fatalf("query series_points: %v", err)
	}
	if points != 30 || observed != 20 {
		t.Errorf("series points = %d (observed %d), want 30 (20)", points, observed)
	}

	var latest string
	if err := db.QueryRow(`SELECT latest_date FROM reports WHERE report_id = ?`, id).Scan(&latest); err != nil {
		t.Fatal(err)
	}
	if latest != "2026-09-20" {
		t.Errorf("latest_date = %q", latest)
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, sampleResult()); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var doc struct {
		State string `json:"state"`
		Rows  []struct {
			CampaignName    string  `json:"campaign_name"`
			ProgressPercent float64 `json:"progress_percent"`
			Period          struct {
				Gross float64 `json:"gross"`
			} `json:"period"`
		} `json:"rows"`
		Series *struct {
			Points []json.RawMessage `json:"points"`
		} `json:"series"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("decoding export: %v", err)
	}
	if doc.State != "ok" || len(doc.Rows) != 1 {
		t.Fatalf("doc = %+v", doc)
	}
	if doc.Rows[0].CampaignName != "Search" || doc.Rows[0].Period.Gross != 50000 {
		t.Errorf("row = %+v", doc.Rows[0])
	}
	if doc.Series == nil || len(doc.Series.Points) != 30 {
		t.Error("expected a 30-point series")
	}
}

func TestJSON_EmptyResultHasEmptyRows(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, pipeline.Run(core.Payload{}, pipeline.Options{})); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"rows": []`)) {
		t.Errorf("expected empty rows array, got %s", buf.String())
	}
}
