// Package client speaks the ERPNext resource API: token-pair auth, one POST
// per document, the generated name in the response body.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wattlens/wattlens/internal/erpnext/domain"
	"go.uber.org/zap"
)

const (
	requestTimeout = 15 * time.Second

	// Error bodies can be full tracebacks; keep a bounded slice.
	maxErrorBody = 512
)

type Config struct {
	BaseURL   string
	APIKey    string
	APISecret string
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *zap.Logger
}

func New(cfg Config, log *zap.Logger) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, domain.ErrMissingCredentials
	}

	return &Client{
		baseURL: baseURL,
		token:   fmt.Sprintf("token %s:%s", cfg.APIKey, cfg.APISecret),
		http:    &http.Client{Timeout: requestTimeout},
		log:     log.Named("erpnext.client"),
	}, nil
}

type communicationPayload struct {
	Doctype           string `json:"doctype"`
	Subject           string `json:"subject"`
	Content           string `json:"content"`
	CommunicationType string `json:"communication_type"`
	SentOrReceived    string `json:"sent_or_received"`
	Status            string `json:"status"`
}

func (c *Client) CreateCommunication(ctx context.Context, req domain.CommunicationRequest) (string, error) {
	return c.createResource(ctx, domain.DoctypeCommunication, communicationPayload{
		Doctype:           domain.DoctypeCommunication,
		Subject:           req.Subject,
		Content:           req.Content,
		CommunicationType: "Comment",
		SentOrReceived:    "Sent",
		Status:            "Open",
	})
}

type todoPayload struct {
	Doctype       string `json:"doctype"`
	Description   string `json:"description"`
	Priority      string `json:"priority"`
	Status        string `json:"status"`
	ReferenceType string `json:"reference_type,omitempty"`
	ReferenceName string `json:"reference_name,omitempty"`
}

func (c *Client) CreateTodo(ctx context.Context, req domain.TodoRequest) (string, error) {
	priority := req.Priority
	if priority == "" {
		priority = "Medium"
	}
	return c.createResource(ctx, domain.DoctypeTodo, todoPayload{
		Doctype:       domain.DoctypeTodo,
		Description:   req.Description,
		Priority:      priority,
		Status:        "Open",
		ReferenceType: req.ReferenceType,
		ReferenceName: req.ReferenceName,
	})
}

type billInsightPayload struct {
	LinkedUpload           string  `json:"linked_upload"`
	BillingPeriod          string  `json:"billing_period"`
	TotalAmount            float64 `json:"total_amount"`
	UnitsConsumed          string  `json:"units_consumed"`
	RatePerUnit            string  `json:"rate_per_unit"`
	EfficiencyRating       string  `json:"efficiency_rating"`
	ConsumptionTrend       string  `json:"consumption_trend"`
	PeakUsagePeriod        string  `json:"peak_usage_period"`
	Anomalies              string  `json:"anomalies"`
	Recommendations        string  `json:"recommendations"`
	AnalysisDate           string  `json:"analysis_date"`
	CommunicationReference string  `json:"communication_reference,omitempty"`
}

func (c *Client) CreateBillInsight(ctx context.Context, req domain.BillInsightRequest) (string, error) {
	return c.createResource(ctx, domain.DoctypeBillInsight, billInsightPayload{
		LinkedUpload:           req.LinkedUpload,
		BillingPeriod:          req.BillingPeriod,
		TotalAmount:            req.TotalAmount,
		UnitsConsumed:          req.UnitsConsumed,
		RatePerUnit:            req.RatePerUnit,
		EfficiencyRating:       req.EfficiencyRating,
		ConsumptionTrend:       req.ConsumptionTrend,
		PeakUsagePeriod:        req.PeakUsagePeriod,
		Anomalies:              req.Anomalies,
		Recommendations:        req.Recommendations,
		AnalysisDate:           req.AnalysisDate,
		CommunicationReference: req.CommunicationReference,
	})
}

type resourceResponse struct {
	Data struct {
		Name string `json:"name"`
	} `json:"data"`
}

func (c *Client) createResource(ctx context.Context, doctype string, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/api/resource/%s", c.baseURL, url.PathEscape(doctype))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", c.token)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("resource creation rejected",
			zap.String("doctype", doctype),
			zap.Int("status", resp.StatusCode),
		)
		return "", fmt.Errorf("erpnext %s: %s", resp.Status, truncate(string(respBody), maxErrorBody))
	}

	var parsed resourceResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("erpnext response: %w", err)
	}
	return parsed.Data.Name, nil
}

func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if len(value) <= limit {
		return value
	}
	return value[:limit]
}
