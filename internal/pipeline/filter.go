package pipeline

import (
	"strings"

	"github.com/janekbaraniewski/pacewatch/internal/core"
	"github.com/samber/lo"
)

// FilterByNames keeps rows whose entity name at grain is in names. An empty
// name list keeps every row.
func FilterByNames(rows []core.PacedRow, grain core.Grain, names []string) []core.PacedRow {
	if len(names) == 0 {
		return rows
	}
	wanted := lo.SliceToMap(names, func(n string) (string, struct{}) {
		return n, struct{}{}
	})
	return lo.Filter(rows, func(r core.PacedRow, _ int) bool {
		_, ok := wanted[r.EntityName(grain)]
		return ok
	})
}

// FilterByQuery keeps rows whose account or campaign name contains query,
// ignoring case.
func FilterByQuery(rows []core.PacedRow, query string) []core.PacedRow {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return rows
	}
	return lo.Filter(rows, func(r core.PacedRow, _ int) bool {
		return strings.Contains(strings.ToLower(r.AccountName), query) ||
			strings.Contains(strings.ToLower(r.CampaignName), query)
	})
}

// EntityNames lists the distinct entity names at grain, in row order.
func EntityNames(rows []core.PacedRow, grain core.Grain) []string {
	return lo.Uniq(lo.Map(rows, func(r core.PacedRow, _ int) string {
		return r.EntityName(grain)
	}))
}
