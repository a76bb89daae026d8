package pipeline

import (
	"time"

	"github.com/janekbaraniewski/pacewatch/internal/core"
	"github.com/samber/lo"
)

// IdealProgress is the ideal cumulative spend share on day of a month with
// daysInMonth days: day/N*100, exactly 100 on the last day.
func IdealProgress(day, daysInMonth int) float64 {
	if daysInMonth <= 0 {
		return 0
	}
	if day >= daysInMonth {
		return 100
	}
	return float64(day) / float64(daysInMonth) * 100
}

// ExtractSeries builds the daily cumulative series for sel across every
// calendar day of start's month. It returns false when the selection has no
// records in that month.
func ExtractSeries(records []core.PerformanceRecord, meta []core.CampaignMeta, sel core.Selection, start time.Time) (core.Series, bool) {
	ids, budget, label := resolveSelection(meta, sel)

	monthStart := core.MonthStart(start)
	monthEnd := core.MonthEnd(start)
	selected := lo.Filter(records, func(rec core.PerformanceRecord, _ int) bool {
		if rec.Date.Before(monthStart) || rec.Date.After(monthEnd) {
			return false
		}
		_, ok := ids[rec.CampaignID]
		return ok
	})
	if len(selected) == 0 {
		return core.Series{Selection: sel, Label: label, Budget: budget}, false
	}

	daily := make(map[int]core.Metrics)
	lastDay := 0
	for _, rec := range selected {
		d := rec.Date.Day()
		daily[d] = daily[d].Add(rec.Metrics)
		if d > lastDay {
			lastDay = d
		}
	}

	n := core.DaysInMonth(start)
	points := make([]core.TimeSeriesPoint, 0, n)
	var cumulative core.Metrics
	for d := 1; d <= n; d++ {
		cumulative = cumulative.Add(daily[d])
		points = append(points, core.TimeSeriesPoint{
			Date:           monthStart.AddDate(0, 0, d-1),
			Daily:          daily[d],
			Cumulative:     cumulative,
			ActualProgress: percentOfBudget(cumulative.Gross, budget),
			IdealProgress:  IdealProgress(d, n),
			Observed:       d <= lastDay,
		})
	}

	return core.Series{
		Selection: sel,
		Label:     label,
		Budget:    budget,
		Points:    points,
	}, true
}

// resolveSelection returns the campaign ids covered by sel, their combined
// budget and a display label. Records of campaigns without metadata are never
// covered, matching the join.
func resolveSelection(meta []core.CampaignMeta, sel core.Selection) (map[string]struct{}, float64, string) {
	var matched []core.CampaignMeta
	label := "All campaigns"
	switch sel.Kind {
	case core.SelectAccount:
		matched = lo.Filter(meta, func(m core.CampaignMeta, _ int) bool {
			return m.AccountName == sel.Key
		})
		label = sel.Key
	case core.SelectCampaign:
		matched = lo.Filter(meta, func(m core.CampaignMeta, _ int) bool {
			return m.CampaignID == sel.Key
		})
		label = sel.Key
		if len(matched) > 0 {
			label = matched[0].CampaignName
		}
	default:
		matched = meta
	}

	ids := lo.SliceToMap(matched, func(m core.CampaignMeta) (string, struct{}) {
		return m.CampaignID, struct{}{}
	})
	budget := lo.SumBy(matched, func(m core.CampaignMeta) float64 { return m.MonthlyBudget })
	return ids, budget, label
}
