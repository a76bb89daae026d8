package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/janekbaraniewski/pacewatch/internal/core"
	"github.com/janekbaraniewski/pacewatch/internal/pipeline"
)

type jsonReport struct {
	GeneratedAt    time.Time        `json:"generated_at"`
	Range          core.DateRange   `json:"range"`
	Grain          core.Grain       `json:"grain"`
	State          core.ReportState `json:"state"`
	StandardPacing float64          `json:"standard_pacing"`
	LatestDate     *time.Time       `json:"latest_date,omitempty"`
	Rows           []core.PacedRow  `json:"rows"`
	Summary        core.Summary     `json:"summary"`
	Series         *core.Series     `json:"series,omitempty"`
}

// JSON writes res as an indented JSON document.
func JSON(w io.Writer, res pipeline.Result) error {
	out := jsonReport{
		GeneratedAt:    time.Now().UTC(),
		Range:          res.Range,
		Grain:          res.Grain,
		State:          res.State,
		StandardPacing: res.StandardPacing,
		Rows:           res.Rows,
		Summary:        res.Summary,
	}
	if out.Rows == nil {
		out.Rows = []core.PacedRow{}
	}
	if res.HasLatest {
		latest := res.LatestDate
		out.LatestDate = &latest
	}
	if res.HasSeries {
		series := res.Series
		out.Series = &series
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("export: encoding json: %w", err)
	}
	return nil
}
