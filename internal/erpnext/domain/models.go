package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	analysisdomain "github.com/wattlens/wattlens/internal/analysis/domain"
)

const (
	DoctypeCommunication = "Communication"
	DoctypeTodo          = "ToDo"
	DoctypeBillInsight   = "Electricity Bill Insight"
)

type CommunicationRequest struct {
	Subject string
	Content string
}

type TodoRequest struct {
	Description   string
	Priority      string
	ReferenceType string
	ReferenceName string
}

type BillInsightRequest struct {
	LinkedUpload           string
	BillingPeriod          string
	TotalAmount            float64
	UnitsConsumed          string
	RatePerUnit            string
	EfficiencyRating       string
	ConsumptionTrend       string
	PeakUsagePeriod        string
	Anomalies              string
	Recommendations        string
	AnalysisDate           string
	CommunicationReference string
}

// Client creates ERPNext resources. Each call returns the generated document
// name on success or the body-carried error otherwise.
type Client interface {
	CreateCommunication(ctx context.Context, req CommunicationRequest) (string, error)
	CreateTodo(ctx context.Context, req TodoRequest) (string, error)
	CreateBillInsight(ctx context.Context, req BillInsightRequest) (string, error)
}

// StepResult is the typed outcome of one external call. Failures are carried
// as values, never swallowed and never raised.
type StepResult struct {
	OK    bool   `json:"ok"`
	Ref   string `json:"ref,omitempty"`
	Error string `json:"error,omitempty"`
}

type TaskResult struct {
	Description string `json:"description"`
	StepResult
}

// PublishResult aggregates the fanout: one comment thread, up to three
// tasks, one structured insight record. Partial success is expected; the
// caller decides what counts as successful enough.
type PublishResult struct {
	Communication StepResult   `json:"communication"`
	Todos         []TaskResult `json:"todos"`
	Insight       StepResult   `json:"insight"`
}

// AllSucceeded reports whether every attempted step came back clean.
func (r PublishResult) AllSucceeded() bool {
	if !r.Communication.OK || !r.Insight.OK {
		return false
	}
	for _, todo := range r.Todos {
		if !todo.OK {
			return false
		}
	}
	return true
}

type Service interface {
	Publish(ctx context.Context, analysis analysisdomain.BillAnalysis, billID snowflake.ID) PublishResult
	PublishRawText(ctx context.Context, rawText string, billID snowflake.ID) StepResult
}

var (
	ErrMissingCredentials = errors.New("missing_erpnext_credentials")
	ErrMissingBillID      = errors.New("missing_bill_id")
)
