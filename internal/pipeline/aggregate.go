package pipeline

import (
	"time"

	"github.com/janekbaraniewski/pacewatch/internal/core"
	"github.com/samber/lo"
)

// sumByCampaign group-sums records per campaign id, keeping the order in
// which ids first appear.
func sumByCampaign(records []core.PerformanceRecord) ([]string, map[string]core.Metrics) {
	order := make([]string, 0)
	sums := make(map[string]core.Metrics)
	for _, rec := range records {
		cur, ok := sums[rec.CampaignID]
		if !ok {
			order = append(order, rec.CampaignID)
		}
		sums[rec.CampaignID] = cur.Add(rec.Metrics)
	}
	return order, sums
}

// AggregatePeriod sums every metric per campaign across all records.
func AggregatePeriod(records []core.PerformanceRecord) []core.PeriodAggregate {
	if len(records) == 0 {
		return nil
	}
	order, sums := sumByCampaign(records)
	return lo.Map(order, func(id string, _ int) core.PeriodAggregate {
		return core.PeriodAggregate{CampaignID: id, Metrics: sums[id]}
	})
}

// LatestDate is the maximum date present in records, which may be earlier
// than the requested end date when the API's data is delayed.
func LatestDate(records []core.PerformanceRecord) (time.Time, bool) {
	if len(records) == 0 {
		return time.Time{}, false
	}
	latest := lo.MaxBy(records, func(a, b core.PerformanceRecord) bool {
		return a.Date.After(b.Date)
	})
	return latest.Date, true
}

// AggregateDaily computes latest-day sums and day-over-day deltas for every
// campaign with data on the latest date. A campaign without a row on the day
// before gets a prior value of 0, so its delta equals its latest value.
func AggregateDaily(records []core.PerformanceRecord) ([]core.DailyDelta, time.Time, bool) {
	latest, ok := LatestDate(records)
	if !ok {
		return nil, time.Time{}, false
	}
	prior := latest.AddDate(0, 0, -1)

	latestOrder, latestSums := sumByCampaign(onDay(records, latest))
	_, priorSums := sumByCampaign(onDay(records, prior))

	deltas := lo.Map(latestOrder, func(id string, _ int) core.DailyDelta {
		cur := latestSums[id]
		return core.DailyDelta{
			CampaignID: id,
			Latest:     cur,
			Diff:       cur.Sub(priorSums[id]),
		}
	})
	return deltas, latest, true
}

func onDay(records []core.PerformanceRecord, day time.Time) []core.PerformanceRecord {
	return lo.Filter(records, func(rec core.PerformanceRecord, _ int) bool {
		return rec.Date.Equal(day)
	})
}
