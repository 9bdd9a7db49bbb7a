// Package service maps one BillAnalysis onto the three ERPNext records:
// a comment thread, up to three tasks, and one structured insight. The fanout
// is ordered (tasks and the insight back-reference the thread) and tolerates
// partial failure; no step aborts the rest.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	analysisdomain "github.com/wattlens/wattlens/internal/analysis/domain"
	"github.com/wattlens/wattlens/internal/erpnext/domain"
	"github.com/wattlens/wattlens/pkg/numeric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const keyTaskCount = 3

type Params struct {
	fx.In

	Client domain.Client
	Log    *zap.Logger
}

type Publisher struct {
	client domain.Client
	log    *zap.Logger
}

func New(p Params) domain.Service {
	return &Publisher{
		client: p.Client,
		log:    p.Log.Named("erpnext.publisher"),
	}
}

// Publish runs the three-step fanout sequentially: the thread reference from
// step 1 feeds steps 2 and 3. A failed thread creation degrades the
// back-references to empty instead of cancelling the remaining steps.
func (p *Publisher) Publish(ctx context.Context, analysis analysisdomain.BillAnalysis, billID snowflake.ID) domain.PublishResult {
	var result domain.PublishResult

	subject := fmt.Sprintf("Electricity Bill Analysis - Bill #%s", billID)
	result.Communication = p.createThread(ctx, subject, analysis)

	threadRef := result.Communication.Ref
	result.Todos = p.createTasks(ctx, analysis, billID, threadRef)
	result.Insight = p.createInsight(ctx, analysis, billID, threadRef)

	if !result.AllSucceeded() {
		p.log.Warn("fanout completed with failures",
			zap.String("bill_id", billID.String()),
			zap.Bool("communication", result.Communication.OK),
			zap.Bool("insight", result.Insight.OK),
		)
	}
	return result
}

func (p *Publisher) createThread(ctx context.Context, subject string, analysis analysisdomain.BillAnalysis) domain.StepResult {
	content, err := renderReport(analysis)
	if err != nil {
		return domain.StepResult{Error: err.Error()}
	}

	name, err := p.client.CreateCommunication(ctx, domain.CommunicationRequest{
		Subject: subject,
		Content: content,
	})
	if err != nil {
		p.log.Warn("comment thread creation failed", zap.Error(err))
		return domain.StepResult{Error: err.Error()}
	}
	return domain.StepResult{OK: true, Ref: name}
}

func (p *Publisher) createTasks(ctx context.Context, analysis analysisdomain.BillAnalysis, billID snowflake.ID, threadRef string) []domain.TaskResult {
	key := analysis.KeyRecommendations(keyTaskCount)
	results := make([]domain.TaskResult, 0, len(key))

	for _, recommendation := range key {
		req := domain.TodoRequest{
			Description: fmt.Sprintf("[Bill #%s] %s", billID, recommendation),
			Priority:    "High",
		}
		if threadRef != "" {
			req.ReferenceType = domain.DoctypeCommunication
			req.ReferenceName = threadRef
		}

		task := domain.TaskResult{Description: req.Description}
		name, err := p.client.CreateTodo(ctx, req)
		if err != nil {
			p.log.Warn("task creation failed", zap.Error(err))
			task.Error = err.Error()
		} else {
			task.OK = true
			task.Ref = name
		}
		results = append(results, task)
	}
	return results
}

func (p *Publisher) createInsight(ctx context.Context, analysis analysisdomain.BillAnalysis, billID snowflake.ID, threadRef string) domain.StepResult {
	summary := analysis.Summary()
	consumption := analysis.Consumption()

	name, err := p.client.CreateBillInsight(ctx, domain.BillInsightRequest{
		LinkedUpload:  billID.String(),
		BillingPeriod: summary.BillingPeriod,
		// External schema requires a number; unparseable amounts become 0.
		TotalAmount:            numeric.ExtractOrZero(summary.TotalAmount),
		UnitsConsumed:          summary.UnitsConsumed,
		RatePerUnit:            summary.RatePerUnit,
		EfficiencyRating:       consumption.EfficiencyRating,
		ConsumptionTrend:       consumption.ConsumptionTrend,
		PeakUsagePeriod:        consumption.PeakUsagePeriod,
		Anomalies:              strings.Join(analysis.Anomalies, "\n"),
		Recommendations:        strings.Join(analysis.Recommendations, "\n"),
		AnalysisDate:           analysis.AnalysisDate.UTC().Format("2006-01-02 15:04"),
		CommunicationReference: threadRef,
	})
	if err != nil {
		p.log.Warn("insight record creation failed", zap.Error(err))
		return domain.StepResult{Error: err.Error()}
	}
	return domain.StepResult{OK: true, Ref: name}
}

// PublishRawText forwards a degraded or unparsed analysis verbatim as a
// single comment thread, skipping the structured mapping.
func (p *Publisher) PublishRawText(ctx context.Context, rawText string, billID snowflake.ID) domain.StepResult {
	content, err := renderRawText(rawText)
	if err != nil {
		return domain.StepResult{Error: err.Error()}
	}

	name, err := p.client.CreateCommunication(ctx, domain.CommunicationRequest{
		Subject: fmt.Sprintf("Electricity Bill Summary - Bill #%s", billID),
		Content: content,
	})
	if err != nil {
		p.log.Warn("raw text thread creation failed", zap.Error(err))
		return domain.StepResult{Error: err.Error()}
	}
	return domain.StepResult{OK: true, Ref: name}
}
