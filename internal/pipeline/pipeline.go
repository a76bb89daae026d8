// Package pipeline turns a MicroAd report payload into the pacing table,
// summary cards and chart series shown by the dashboard.
//
// Every function here is pure: inputs are never mutated and each stage
// returns a new slice. The stages run in a fixed order:
//
//	normalize → aggregate (period, daily) → join → reduce grain → pace → filter → summarize
//
// The time series is an independent projection over the normalized records.
package pipeline

import (
	"time"

	"github.com/janekbaraniewski/pacewatch/internal/core"
)

type Options struct {
	Range core.DateRange
	Grain core.Grain
	// Names is the multi-select filter over entity names at Grain.
	Names []string
	// Query is a case-insensitive substring filter over account and campaign names.
	Query     string
	Selection core.Selection
}

type Result struct {
	State          core.ReportState
	Grain          core.Grain
	Range          core.DateRange
	StandardPacing float64
	// LatestDate is the most recent day with data; zero when HasLatest is false.
	LatestDate time.Time
	HasLatest  bool

	Campaigns []core.CampaignMeta
	Records   []core.PerformanceRecord
	// AllRows is the paced table before name filters; Rows is what is shown.
	AllRows []core.PacedRow
	Rows    []core.PacedRow
	Summary core.Summary

	Series    core.Series
	HasSeries bool
}

// Run executes the whole pipeline. It never fails: empty inputs produce an
// empty table and a non-OK State.
func Run(p core.Payload, opts Options) Result {
	if opts.Grain == "" {
		opts.Grain = core.GrainCampaign
	}
	if opts.Selection.Kind == "" {
		opts.Selection = core.Portfolio()
	}

	meta := NormalizeCampaigns(p, opts.Range.MonthKey())
	records := NormalizeRecords(p, opts.Range)

	period := AggregatePeriod(records)
	deltas, latest, hasLatest := AggregateDaily(records)

	joined := Join(meta, period, deltas)
	reduced := ReduceGrain(joined, opts.Grain)
	standard := StandardPacing(opts.Range.End)
	paced := Pace(reduced, opts.Range.End)

	shown := FilterByQuery(FilterByNames(paced, opts.Grain, opts.Names), opts.Query)

	res := Result{
		State:          stateFor(meta, records),
		Grain:          opts.Grain,
		Range:          opts.Range,
		StandardPacing: standard,
		LatestDate:     latest,
		HasLatest:      hasLatest,
		Campaigns:      meta,
		Records:        records,
		AllRows:        paced,
		Rows:           shown,
		Summary:        Summarize(shown, standard, opts.Range),
	}
	res.Series, res.HasSeries = ExtractSeries(records, meta, opts.Selection, opts.Range.Start)
	return res
}

func stateFor(meta []core.CampaignMeta, records []core.PerformanceRecord) core.ReportState {
	switch {
	case len(meta) == 0:
		return core.ReportNoCampaigns
	case len(records) == 0:
		return core.ReportNoDelivery
	default:
		return core.ReportOK
	}
}
