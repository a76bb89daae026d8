package core

import (
	"strings"
	"time"
)

// Metrics is the additive metric vector carried by every report row.
type Metrics struct {
	Net        float64 `json:"net"`
	Gross      float64 `json:"gross"`
	Impression float64 `json:"impression"`
	Click      float64 `json:"click"`
}

func (m Metrics) Add(o Metrics) Metrics {
	return Metrics{
		Net:        m.Net + o.Net,
		Gross:      m.Gross + o.Gross,
		Impression: m.Impression + o.Impression,
		Click:      m.Click + o.Click,
	}
}

func (m Metrics) Sub(o Metrics) Metrics {
	return Metrics{
		Net:        m.Net - o.Net,
		Gross:      m.Gross - o.Gross,
		Impression: m.Impression - o.Impression,
		Click:      m.Click - o.Click,
	}
}

func (m Metrics) IsZero() bool {
	return m == Metrics{}
}

// CampaignMeta is one campaign's metadata for the reporting month.
type CampaignMeta struct {
	CampaignID    string  `json:"campaign_id"`
	AccountName   string  `json:"account_name"`
	CampaignName  string  `json:"campaign_name"`
	MonthlyBudget float64 `json:"monthly_budget"`
}

// PerformanceRecord is one campaign's metrics for one calendar day. Several
// records may share a (CampaignID, Date) pair; they are summed, never replaced.
type PerformanceRecord struct {
	CampaignID string    `json:"campaign_id"`
	Date       time.Time `json:"date"`
	Metrics
}

type PeriodAggregate struct {
	CampaignID string `json:"campaign_id"`
	Metrics
}

// DailyDelta holds the latest observed day's sums and the change against the
// day before. A missing prior day counts as zero activity.
type DailyDelta struct {
	CampaignID string  `json:"campaign_id"`
	Latest     Metrics `json:"latest"`
	Diff       Metrics `json:"diff"`
}

// EntityRow is metadata joined with period and daily aggregates, at either
// campaign or account grain. Only raw currency/count columns live here.
type EntityRow struct {
	CampaignID    string  `json:"campaign_id,omitempty"`
	AccountName   string  `json:"account_name"`
	CampaignName  string  `json:"campaign_name"`
	MonthlyBudget float64 `json:"monthly_budget"`
	Period        Metrics `json:"period"`
	Latest        Metrics `json:"latest"`
	Diff          Metrics `json:"diff"`
}

// EntityName is the name shown for the row at its grain.
func (r EntityRow) EntityName(g Grain) string {
	if g == GrainAccount {
		return r.AccountName
	}
	return r.CampaignName
}

type PacedRow struct {
	EntityRow
	ProgressPercent float64 `json:"progress_percent"`
	StandardPacing  float64 `json:"standard_pacing"`
	DiffPoint       float64 `json:"diff_point"`
	// DailyProgressDiff is the latest day's gross as a percent of budget. It is
	// not the day-over-day change of ProgressPercent.
	DailyProgressDiff float64    `json:"daily_progress_diff"`
	Band              PacingBand `json:"band"`
}

type Grain string

const (
	GrainCampaign Grain = "campaign"
	GrainAccount  Grain = "account"
)

// AccountTotalLabel replaces the campaign name on account-grain rows.
const AccountTotalLabel = "(account total)"

func ParseGrain(s string) Grain {
	if Grain(s) == GrainAccount {
		return GrainAccount
	}
	return GrainCampaign
}

func (g Grain) Toggle() Grain {
	if g == GrainAccount {
		return GrainCampaign
	}
	return GrainAccount
}

func (g Grain) Label() string {
	if g == GrainAccount {
		return "Account"
	}
	return "Campaign"
}

type ReportState string

const (
	ReportOK          ReportState = "ok"
	ReportNoCampaigns ReportState = "no_campaigns"
	ReportNoDelivery  ReportState = "no_delivery"
)

func (s ReportState) Message() string {
	switch s {
	case ReportNoCampaigns:
		return "No campaigns in the report payload."
	case ReportNoDelivery:
		return "No delivery data for this period."
	default:
		return ""
	}
}

type SelectionKind string

const (
	SelectPortfolio SelectionKind = "portfolio"
	SelectAccount   SelectionKind = "account"
	SelectCampaign  SelectionKind = "campaign"
)

// Selection names the entity whose time series is charted. Key is the account
// name for accounts and the campaign id for campaigns.
type Selection struct {
	Kind SelectionKind `json:"kind"`
	Key  string        `json:"key,omitempty"`
}

func Portfolio() Selection { return Selection{Kind: SelectPortfolio} }

// ParseSelection accepts "portfolio", "account:<name>" or "campaign:<id>".
func ParseSelection(s string) Selection {
	kind, key, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found {
		return Portfolio()
	}
	switch SelectionKind(kind) {
	case SelectAccount, SelectCampaign:
		if key != "" {
			return Selection{Kind: SelectionKind(kind), Key: key}
		}
	}
	return Portfolio()
}

func (s Selection) String() string {
	if s.Kind == SelectPortfolio || s.Kind == "" {
		return string(SelectPortfolio)
	}
	return string(s.Kind) + ":" + s.Key
}

type TimeSeriesPoint struct {
	Date       time.Time `json:"date"`
	Daily      Metrics   `json:"daily"`
	Cumulative Metrics   `json:"cumulative"`
	// ActualProgress is cumulative gross over the selection budget, in percent.
	ActualProgress float64 `json:"actual_progress"`
	IdealProgress  float64 `json:"ideal_progress"`
	// Observed is false for days after the last day that has data.
	Observed bool `json:"observed"`
}

type Series struct {
	Selection Selection         `json:"selection"`
	Label     string            `json:"label"`
	Budget    float64           `json:"budget"`
	Points    []TimeSeriesPoint `json:"points"`
}

// Summary is the set of scalar cards computed over the filtered table.
type Summary struct {
	IdealPacing        float64 `json:"ideal_pacing"`
	TotalGross         float64 `json:"total_gross"`
	LatestGross        float64 `json:"latest_gross"`
	DiffGross          float64 `json:"diff_gross"`
	AvgProgress        float64 `json:"avg_progress"`
	AvgProgressDiff    float64 `json:"avg_progress_diff"`
	HasBudgetedRows    bool    `json:"has_budgeted_rows"`
	TotalImpression    float64 `json:"total_impression"`
	LatestImpression   float64 `json:"latest_impression"`
	DiffImpression     float64 `json:"diff_impression"`
	TotalClick         float64 `json:"total_click"`
	LatestClick        float64 `json:"latest_click"`
	DiffClick          float64 `json:"diff_click"`
	AvgDailyImpression float64 `json:"avg_daily_impression"`
	AvgDailyClick      float64 `json:"avg_daily_click"`
	CTR                float64 `json:"ctr"`
	CPM                float64 `json:"cpm"`
}
