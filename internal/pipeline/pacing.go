package pipeline

import (
	"time"

	"github.com/janekbaraniewski/pacewatch/internal/core"
	"github.com/samber/lo"
)

// StandardPacing is the share of end's month that has elapsed by end, in
// percent: the ideal share of a monthly budget spent under uniform daily spend.
func StandardPacing(end time.Time) float64 {
	if end.IsZero() {
		return 0
	}
	return float64(end.Day()) / float64(core.DaysInMonth(end)) * 100
}

// percentOfBudget returns amount/budget*100, or 0 when there is no budget.
func percentOfBudget(amount, budget float64) float64 {
	if budget <= 0 {
		return 0
	}
	return amount / budget * 100
}

// Pace derives pacing metrics for rows at whatever grain they are in. It must
// run after ReduceGrain: percentages of a sum are not sums of percentages.
func Pace(rows []core.EntityRow, end time.Time) []core.PacedRow {
	standard := StandardPacing(end)
	return lo.Map(rows, func(r core.EntityRow, _ int) core.PacedRow {
		progress := percentOfBudget(r.Period.Gross, r.MonthlyBudget)
		diff := progress - standard
		return core.PacedRow{
			EntityRow:         r,
			ProgressPercent:   progress,
			StandardPacing:    standard,
			DiffPoint:         diff,
			DailyProgressDiff: percentOfBudget(r.Latest.Gross, r.MonthlyBudget),
			Band:              core.ClassifyPacing(diff),
		}
	})
}
