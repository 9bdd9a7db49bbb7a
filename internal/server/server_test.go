package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wattlens/wattlens/internal/analysis"
	analysisdomain "github.com/wattlens/wattlens/internal/analysis/domain"
	billdomain "github.com/wattlens/wattlens/internal/bill/domain"
	"github.com/wattlens/wattlens/internal/clock"
	"github.com/wattlens/wattlens/internal/config"
	erpnextdomain "github.com/wattlens/wattlens/internal/erpnext/domain"
	"github.com/wattlens/wattlens/internal/webhook"
)

type fakeAnalyzer struct {
	reply string
	err   error
	calls int
}

func (f *fakeAnalyzer) AnalyzeBill(ctx context.Context, billText string) (string, error) {
	f.calls++
	_ = ctx
	_ = billText
	return f.reply, f.err
}

type fakeBillService struct {
	persisted  []billdomain.PersistRequest
	persistID  snowflake.ID
	persistErr error
	bill       *billdomain.Bill
	getErr     error
	trends     []billdomain.TrendBucket
	insights   []billdomain.InsightView
	lastMonths int
	lastLimit  int
}

func (f *fakeBillService) Persist(ctx context.Context, req billdomain.PersistRequest) (snowflake.ID, error) {
	_ = ctx
	f.persisted = append(f.persisted, req)
	return f.persistID, f.persistErr
}

func (f *fakeBillService) Get(ctx context.Context, id snowflake.ID) (*billdomain.Bill, error) {
	_ = ctx
	_ = id
	return f.bill, f.getErr
}

func (f *fakeBillService) MonthlyTrends(ctx context.Context, windowMonths int) ([]billdomain.TrendBucket, error) {
	_ = ctx
	f.lastMonths = windowMonths
	return f.trends, nil
}

func (f *fakeBillService) RecentInsights(ctx context.Context, limit int) ([]billdomain.InsightView, error) {
	_ = ctx
	f.lastLimit = limit
	return f.insights, nil
}

type fakePublisher struct {
	published  []snowflake.ID
	rawTexts   []string
	rawBillIDs []snowflake.ID
	result     erpnextdomain.PublishResult
}

func (f *fakePublisher) Publish(ctx context.Context, a analysisdomain.BillAnalysis, billID snowflake.ID) erpnextdomain.PublishResult {
	_ = ctx
	_ = a
	f.published = append(f.published, billID)
	return f.result
}

func (f *fakePublisher) PublishRawText(ctx context.Context, rawText string, billID snowflake.ID) erpnextdomain.StepResult {
	_ = ctx
	f.rawTexts = append(f.rawTexts, rawText)
	f.rawBillIDs = append(f.rawBillIDs, billID)
	return erpnextdomain.StepResult{OK: true, Ref: "COMM-0001"}
}

type serverFixture struct {
	server    *Server
	analyzer  *fakeAnalyzer
	billSvc   *fakeBillService
	publisher *fakePublisher
}

func newTestServer(t *testing.T) *serverFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zap.NewNop()
	fix := &serverFixture{
		analyzer:  &fakeAnalyzer{},
		billSvc:   &fakeBillService{},
		publisher: &fakePublisher{},
	}

	clk := clock.NewFakeClock(time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC))
	normalizer := analysis.NewNormalizer(analysis.NormalizerParams{Clock: clk, Log: log})

	fix.server = NewServer(ServerParams{
		Gin:        NewEngine(log),
		Cfg:        config.Config{},
		Log:        log,
		Analyzer:   fix.analyzer,
		Normalizer: normalizer,
		BillSvc:    fix.billSvc,
		Publisher:  fix.publisher,
		Trigger:    webhook.New("", log),
	})
	return fix
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeBillReturnsNormalizedAnalysis(t *testing.T) {
	fix := newTestServer(t)
	fix.analyzer.reply = `{"bill_summary": {"total_amount": "1500", "billing_period": "May 2024"}, "recommendations": ["Shift usage off-peak"]}`

	rec := doJSON(t, fix.server.Engine(), http.MethodPost, "/v1/bills/analyze", gin.H{"bill_text": "Electricity bill..."})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Analysis analysisdomain.BillAnalysis `json:"analysis"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Analysis.BillSummary)
	assert.Equal(t, "1500", resp.Analysis.BillSummary.TotalAmount)
	assert.Empty(t, resp.Analysis.Error)
	assert.Equal(t, 1, fix.analyzer.calls)
}

func TestAnalyzeBillRequiresText(t *testing.T) {
	fix := newTestServer(t)

	rec := doJSON(t, fix.server.Engine(), http.MethodPost, "/v1/bills/analyze", gin.H{"bill_text": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, fix.analyzer.calls)
}

func TestCreateBillPersistsAndReturnsID(t *testing.T) {
	fix := newTestServer(t)
	fix.billSvc.persistID = snowflake.ID(12345)

	rec := doJSON(t, fix.server.Engine(), http.MethodPost, "/v1/bills", gin.H{
		"file_url":  "https://files.example/bill.pdf",
		"file_type": "pdf",
		"analysis":  gin.H{"bill_summary": gin.H{"total_amount": "1500"}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "12345", resp["bill_id"])

	require.Len(t, fix.billSvc.persisted, 1)
	assert.Equal(t, "https://files.example/bill.pdf", fix.billSvc.persisted[0].FileURL)
}

func TestPublishBillUsesStoredAnalysis(t *testing.T) {
	fix := newTestServer(t)
	fix.billSvc.bill = &billdomain.Bill{
		ID:           snowflake.ID(42),
		AnalysisJSON: []byte(`{"bill_summary": {"total_amount": "1500"}, "recommendations": ["one"]}`),
	}
	fix.publisher.result = erpnextdomain.PublishResult{
		Communication: erpnextdomain.StepResult{OK: true, Ref: "COMM-0001"},
		Insight:       erpnextdomain.StepResult{OK: true, Ref: "EBI-0001"},
	}

	rec := doJSON(t, fix.server.Engine(), http.MethodPost, "/v1/bills/42/publish", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, fix.publisher.published, 1)
	assert.Equal(t, snowflake.ID(42), fix.publisher.published[0])

	var resp erpnextdomain.PublishResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Communication.OK)
}

func TestPublishBillDegradedFallsBackToRawText(t *testing.T) {
	fix := newTestServer(t)
	fix.billSvc.bill = &billdomain.Bill{
		ID:           snowflake.ID(42),
		AnalysisJSON: []byte(`{"error": "model returned no insights", "raw_analysis": "plain text reply"}`),
	}

	rec := doJSON(t, fix.server.Engine(), http.MethodPost, "/v1/bills/42/publish", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Empty(t, fix.publisher.published)
	require.Len(t, fix.publisher.rawTexts, 1)
	assert.Equal(t, "plain text reply", fix.publisher.rawTexts[0])
}

func TestPublishBillRawTextRequiresExistingBill(t *testing.T) {
	fix := newTestServer(t)
	fix.billSvc.getErr = billdomain.ErrNotFound

	rec := doJSON(t, fix.server.Engine(), http.MethodPost, "/v1/bills/42/publish", gin.H{"raw_text": "plain summary"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, fix.publisher.rawTexts)

	fix.billSvc.getErr = nil
	fix.billSvc.bill = &billdomain.Bill{ID: snowflake.ID(42), AnalysisJSON: []byte(`{}`)}

	rec = doJSON(t, fix.server.Engine(), http.MethodPost, "/v1/bills/42/publish", gin.H{"raw_text": "plain summary"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, fix.publisher.rawTexts, 1)
	assert.Equal(t, "plain summary", fix.publisher.rawTexts[0])
	assert.Empty(t, fix.publisher.published)
}

func TestPublishBillNotFound(t *testing.T) {
	fix := newTestServer(t)
	fix.billSvc.getErr = billdomain.ErrNotFound

	rec := doJSON(t, fix.server.Engine(), http.MethodPost, "/v1/bills/42/publish", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMonthlyTrendsPassesWindow(t *testing.T) {
	fix := newTestServer(t)
	fix.billSvc.trends = []billdomain.TrendBucket{{Month: "2024-05", AvgCost: 1500, BillCount: 2}}

	rec := doJSON(t, fix.server.Engine(), http.MethodGet, "/v1/trends?months=6", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 6, fix.billSvc.lastMonths)

	var resp struct {
		Trends []billdomain.TrendBucket `json:"trends"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Trends, 1)
	assert.Equal(t, "2024-05", resp.Trends[0].Month)
}

func TestRecentInsightsRejectsNegativeLimit(t *testing.T) {
	fix := newTestServer(t)

	rec := doJSON(t, fix.server.Engine(), http.MethodGet, "/v1/insights?limit=-1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTriggerWebhookUnconfigured(t *testing.T) {
	fix := newTestServer(t)

	rec := doJSON(t, fix.server.Engine(), http.MethodPost, "/v1/webhook/trigger", gin.H{
		"file_url":  "https://files.example/bill.pdf",
		"file_type": "pdf",
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealth(t *testing.T) {
	fix := newTestServer(t)

	rec := doJSON(t, fix.server.Engine(), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
