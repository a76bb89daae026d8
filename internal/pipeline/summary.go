package pipeline

import (
	"github.com/janekbaraniewski/pacewatch/internal/core"
	"github.com/samber/lo"
)

// Summarize computes the scalar cards over the (already filtered) table.
// Average progress is the plain mean over rows with a budget, as shown on the
// dashboard; it is a display figure, not an account-level pacing metric.
func Summarize(rows []core.PacedRow, standardPacing float64, rng core.DateRange) core.Summary {
	s := core.Summary{IdealPacing: standardPacing}

	var period, latest, diff core.Metrics
	for _, r := range rows {
		period = period.Add(r.Period)
		latest = latest.Add(r.Latest)
		diff = diff.Add(r.Diff)
	}

	s.TotalGross = period.Gross
	s.LatestGross = latest.Gross
	s.DiffGross = diff.Gross
	s.TotalImpression = period.Impression
	s.LatestImpression = latest.Impression
	s.DiffImpression = diff.Impression
	s.TotalClick = period.Click
	s.LatestClick = latest.Click
	s.DiffClick = diff.Click

	budgeted := lo.Filter(rows, func(r core.PacedRow, _ int) bool {
		return r.MonthlyBudget > 0
	})
	if len(budgeted) > 0 {
		s.HasBudgetedRows = true
		s.AvgProgress = lo.SumBy(budgeted, func(r core.PacedRow) float64 {
			return r.ProgressPercent
		}) / float64(len(budgeted))
		s.AvgProgressDiff = s.AvgProgress - standardPacing
	}

	if days := rng.Days(); days > 0 {
		s.AvgDailyImpression = period.Impression / float64(days)
		s.AvgDailyClick = period.Click / float64(days)
	}
	if period.Impression > 0 {
		s.CTR = period.Click / period.Impression * 100
		s.CPM = period.Gross / period.Impression * 1000
	}
	return s
}
