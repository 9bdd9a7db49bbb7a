package analysis

import (
	"time"

	"github.com/wattlens/wattlens/internal/analysis/domain"
)

const notAvailable = "N/A"

// DashboardView is the flattened shape the dashboard consumes.
type DashboardView struct {
	Status      string           `json:"status"`
	Message     string           `json:"message,omitempty"`
	Timestamp   time.Time        `json:"timestamp"`
	Summary     DashboardSummary `json:"summary"`
	KeyInsights []string         `json:"key_insights"`
	Anomalies   []string         `json:"anomalies"`
	ActionItems []string         `json:"action_items"`
}

type DashboardSummary struct {
	TotalAmount      string `json:"total_amount"`
	UnitsConsumed    string `json:"units_consumed"`
	EfficiencyRating string `json:"efficiency_rating"`
}

// FormatForDashboard flattens an analysis for display. Degraded records map
// to an error status carrying the recorded reason.
func FormatForDashboard(a domain.BillAnalysis) DashboardView {
	if a.IsDegraded() {
		return DashboardView{
			Status:    "error",
			Message:   a.Error,
			Timestamp: a.AnalysisDate,
		}
	}

	summary := a.Summary()
	consumption := a.Consumption()

	return DashboardView{
		Status:    "success",
		Timestamp: a.AnalysisDate,
		Summary: DashboardSummary{
			TotalAmount:      orDefault(summary.TotalAmount),
			UnitsConsumed:    orDefault(summary.UnitsConsumed),
			EfficiencyRating: orDefault(consumption.EfficiencyRating),
		},
		KeyInsights: emptyIfNil(a.KeyRecommendations(3)),
		Anomalies:   emptyIfNil(a.Anomalies),
		ActionItems: emptyIfNil(a.ActionItems),
	}
}

func orDefault(value string) string {
	if value == "" {
		return notAvailable
	}
	return value
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
