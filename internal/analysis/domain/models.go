package domain

import "time"

// BillAnalysis is the normalized shape of a model response. Every field the
// model may omit is represented explicitly: nested sections are nil when
// absent, slices are non-nil on the success path. Once produced by the
// normalizer the record is treated as immutable.
type BillAnalysis struct {
	BillSummary         *BillSummary         `json:"bill_summary,omitempty"`
	ConsumptionAnalysis *ConsumptionAnalysis `json:"consumption_analysis,omitempty"`
	CostInsights        *CostInsights        `json:"cost_insights,omitempty"`
	Recommendations     []string             `json:"recommendations,omitempty"`
	Anomalies           []string             `json:"anomalies,omitempty"`
	ComparisonMetrics   *ComparisonMetrics   `json:"comparison_metrics,omitempty"`
	ActionItems         []string             `json:"action_items,omitempty"`

	// Server-assigned; the model never controls these.
	AnalysisDate time.Time `json:"analysis_date"`
	RawAnalysis  string    `json:"raw_analysis,omitempty"`

	// Set only on the degraded path.
	Error string `json:"error,omitempty"`
}

type BillSummary struct {
	BillingPeriod string `json:"billing_period,omitempty"`
	TotalAmount   string `json:"total_amount,omitempty"`
	UnitsConsumed string `json:"units_consumed,omitempty"`
	RatePerUnit   string `json:"rate_per_unit,omitempty"`

	// Populated by the fallback path only, holding the truncated raw text.
	AnalysisText string `json:"analysis_text,omitempty"`
}

type ConsumptionAnalysis struct {
	ConsumptionTrend string `json:"consumption_trend,omitempty"`
	PeakUsagePeriod  string `json:"peak_usage_period,omitempty"`
	// By convention one of poor/average/good/excellent; not enforced here.
	EfficiencyRating string `json:"efficiency_rating,omitempty"`
}

type CostInsights struct {
	CostBreakdown    string `json:"cost_breakdown,omitempty"`
	HiddenCharges    string `json:"hidden_charges,omitempty"`
	SavingsPotential string `json:"savings_potential,omitempty"`
}

type ComparisonMetrics struct {
	AverageHouseholdComparison string `json:"average_household_comparison,omitempty"`
	SeasonalFactors            string `json:"seasonal_factors,omitempty"`
}

// IsDegraded reports whether the record came out of a failure path.
func (a BillAnalysis) IsDegraded() bool {
	return a.Error != ""
}

// KeyRecommendations returns the first n recommendations; fewer when fewer
// exist. The list is ranked, the head entries are the key ones.
func (a BillAnalysis) KeyRecommendations(n int) []string {
	if n <= 0 || len(a.Recommendations) == 0 {
		return nil
	}
	if len(a.Recommendations) < n {
		n = len(a.Recommendations)
	}
	return a.Recommendations[:n]
}

// Summary returns the bill summary section, never nil.
func (a BillAnalysis) Summary() BillSummary {
	if a.BillSummary == nil {
		return BillSummary{}
	}
	return *a.BillSummary
}

// Consumption returns the consumption section, never nil.
func (a BillAnalysis) Consumption() ConsumptionAnalysis {
	if a.ConsumptionAnalysis == nil {
		return ConsumptionAnalysis{}
	}
	return *a.ConsumptionAnalysis
}
