package pipeline

import (
	"github.com/janekbaraniewski/pacewatch/internal/core"
	"github.com/samber/lo"
)

// Join left-joins period aggregates and daily deltas onto campaign metadata.
// Metadata rows without delivery keep zero metrics; aggregates whose campaign
// has no metadata are dropped.
func Join(meta []core.CampaignMeta, agg []core.PeriodAggregate, deltas []core.DailyDelta) []core.EntityRow {
	if len(meta) == 0 {
		return nil
	}
	periodByID := lo.SliceToMap(agg, func(a core.PeriodAggregate) (string, core.Metrics) {
		return a.CampaignID, a.Metrics
	})
	deltaByID := lo.KeyBy(deltas, func(d core.DailyDelta) string {
		return d.CampaignID
	})

	return lo.Map(meta, func(m core.CampaignMeta, _ int) core.EntityRow {
		d := deltaByID[m.CampaignID]
		return core.EntityRow{
			CampaignID:    m.CampaignID,
			AccountName:   m.AccountName,
			CampaignName:  m.CampaignName,
			MonthlyBudget: m.MonthlyBudget,
			Period:        periodByID[m.CampaignID],
			Latest:        d.Latest,
			Diff:          d.Diff,
		}
	})
}

// ReduceGrain returns rows unchanged at campaign grain. At account grain it
// sums budget and every metric column per account, in first-seen order.
// Only raw amounts are summed here; pacing percentages are derived later.
func ReduceGrain(rows []core.EntityRow, grain core.Grain) []core.EntityRow {
	if grain != core.GrainAccount {
		return append([]core.EntityRow(nil), rows...)
	}

	order := make([]string, 0)
	byAccount := make(map[string]core.EntityRow)
	for _, r := range rows {
		acc, ok := byAccount[r.AccountName]
		if !ok {
			order = append(order, r.AccountName)
			acc = core.EntityRow{
				AccountName:  r.AccountName,
				CampaignName: core.AccountTotalLabel,
			}
		}
		acc.MonthlyBudget += r.MonthlyBudget
		acc.Period = acc.Period.Add(r.Period)
		acc.Latest = acc.Latest.Add(r.Latest)
		acc.Diff = acc.Diff.Add(r.Diff)
		byAccount[r.AccountName] = acc
	}

	return lo.Map(order, func(name string, _ int) core.EntityRow {
		return byAccount[name]
	})
}
