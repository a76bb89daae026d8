package pipeline

import (
	"log"
	"strings"

	"github.com/janekbaraniewski/pacewatch/internal/core"
	"github.com/janekbaraniewski/pacewatch/internal/parsers"
)

const unknownAccountName = "Unknown"

// NormalizeCampaigns flattens account → campaign → monthly limit into one
// metadata row per campaign. The budget is the first limit entry whose month
// equals monthKey, in payload order; no match means a budget of 0.
func NormalizeCampaigns(p core.Payload, monthKey string) []core.CampaignMeta {
	var out []core.CampaignMeta
	seen := make(map[string]bool)

	for _, acct := range p.Account {
		accountName := unknownAccountName
		if acct.Name != nil && strings.TrimSpace(*acct.Name) != "" {
			accountName = strings.TrimSpace(*acct.Name)
		}
		for _, camp := range acct.Campaign {
			id := camp.ID.String()
			if id == "" {
				log.Printf("pipeline: skipping campaign %q without id", camp.Name)
				continue
			}
			if seen[id] {
				log.Printf("pipeline: duplicate campaign id %s, keeping first", id)
				continue
			}
			seen[id] = true

			out = append(out, core.CampaignMeta{
				CampaignID:    id,
				AccountName:   accountName,
				CampaignName:  camp.Name,
				MonthlyBudget: monthlyBudget(camp.MonthlyChargeLimit, monthKey),
			})
		}
	}
	return out
}

func monthlyBudget(limits []core.PayloadChargeLimit, monthKey string) float64 {
	for _, limit := range limits {
		if normalizeMonthKey(limit.Month.String()) == monthKey {
			return limit.ChargeLimit.Float()
		}
	}
	return 0
}

// normalizeMonthKey accepts "202610", "2026-10" and "2026/10".
func normalizeMonthKey(s string) string {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("-", "", "/", "").Replace(s)
	return s
}

// NormalizeRecords extracts the daily performance rows that fall inside rng.
// Metric values were already coerced to numbers while decoding; rows whose
// date cannot be parsed are dropped.
func NormalizeRecords(p core.Payload, rng core.DateRange) []core.PerformanceRecord {
	if p.Report == nil || len(p.Report.Records) == 0 {
		return nil
	}

	out := make([]core.PerformanceRecord, 0, len(p.Report.Records))
	dropped := 0
	for _, rec := range p.Report.Records {
		day, ok := parsers.ParseDate(rec.Date.String())
		if !ok {
			dropped++
			continue
		}
		if !rng.Contains(day) {
			dropped++
			continue
		}
		out = append(out, core.PerformanceRecord{
			CampaignID: rec.CampaignID.String(),
			Date:       day,
			Metrics: core.Metrics{
				Net:        rec.Net.Float(),
				Gross:      rec.Gross.Float(),
				Impression: rec.Impression.Float(),
				Click:      rec.Click.Float(),
			},
		})
	}
	if dropped > 0 {
		log.Printf("pipeline: dropped %d record(s) with unparseable or out-of-range dates", dropped)
	}
	return out
}
