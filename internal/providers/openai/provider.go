// Package openai is the upstream model collaborator: submit a rendered
// prompt, receive one opaque text completion. Nothing here trusts the
// structure of the response; that is the normalizer's job.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingAPIKey  = errors.New("missing_openai_api_key")
	ErrEmptyBillText  = errors.New("empty_bill_text")
	ErrEmptyResponse  = errors.New("empty_model_response")
	ErrProviderNotSet = errors.New("model_provider_not_configured")
)

// Provider submits a bill's extracted text for analysis and returns the raw
// completion text.
type Provider interface {
	AnalyzeBill(ctx context.Context, billText string) (string, error)
}

// NoOpProvider is wired when no API key is configured; callers get a typed
// error instead of a half-configured client.
type NoOpProvider struct{}

func (NoOpProvider) AnalyzeBill(ctx context.Context, billText string) (string, error) {
	return "", ErrProviderNotSet
}

const systemRole = "You are an expert electricity bill analyzer providing detailed insights."

const analysisPromptTemplate = `You are an expert electricity bill analyzer. Analyze the following electricity bill data and provide comprehensive insights:

BILL DATA:
%s

Please provide analysis in the following JSON format:
{
    "bill_summary": {
        "billing_period": "extracted period",
        "total_amount": "extracted amount",
        "units_consumed": "extracted units",
        "rate_per_unit": "calculated rate"
    },
    "consumption_analysis": {
        "consumption_trend": "analysis of usage pattern",
        "peak_usage_period": "when highest consumption occurred",
        "efficiency_rating": "poor/average/good/excellent"
    },
    "cost_insights": {
        "cost_breakdown": "breakdown of charges",
        "hidden_charges": "any additional fees identified",
        "savings_potential": "estimated savings possible"
    },
    "recommendations": [
        "specific actionable recommendation 1",
        "specific actionable recommendation 2",
        "specific actionable recommendation 3"
    ],
    "anomalies": [
        "any unusual patterns or charges identified"
    ],
    "comparison_metrics": {
        "average_household_comparison": "how this compares to average",
        "seasonal_factors": "seasonal considerations"
    },
    "action_items": [
        "immediate actions to take",
        "long-term improvements"
    ]
}

Make the analysis detailed, actionable, and easy to understand for homeowners.`

func renderPrompt(billText string) string {
	return fmt.Sprintf(analysisPromptTemplate, strings.TrimSpace(billText))
}
