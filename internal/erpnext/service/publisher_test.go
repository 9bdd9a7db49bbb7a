package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	analysisdomain "github.com/wattlens/wattlens/internal/analysis/domain"
	"github.com/wattlens/wattlens/internal/erpnext/domain"
	"go.uber.org/zap"
)

type fakeClient struct {
	failCommunication bool
	failTodoIndex     int // 1-based; 0 means no todo fails
	failInsight       bool

	communications []domain.CommunicationRequest
	todos          []domain.TodoRequest
	insights       []domain.BillInsightRequest
}

func (c *fakeClient) CreateCommunication(ctx context.Context, req domain.CommunicationRequest) (string, error) {
	c.communications = append(c.communications, req)
	if c.failCommunication {
		return "", errors.New("communication rejected")
	}
	return fmt.Sprintf("COMM-%04d", len(c.communications)), nil
}

func (c *fakeClient) CreateTodo(ctx context.Context, req domain.TodoRequest) (string, error) {
	c.todos = append(c.todos, req)
	if c.failTodoIndex == len(c.todos) {
		return "", errors.New("todo rejected")
	}
	return fmt.Sprintf("TODO-%04d", len(c.todos)), nil
}

func (c *fakeClient) CreateBillInsight(ctx context.Context, req domain.BillInsightRequest) (string, error) {
	c.insights = append(c.insights, req)
	if c.failInsight {
		return "", errors.New("insight rejected")
	}
	return "EBI-0001", nil
}

func testAnalysis(recommendations int) analysisdomain.BillAnalysis {
	recs := make([]string, 0, recommendations)
	for i := 1; i <= recommendations; i++ {
		recs = append(recs, fmt.Sprintf("recommendation %d", i))
	}
	return analysisdomain.BillAnalysis{
		BillSummary: &analysisdomain.BillSummary{
			BillingPeriod: "May 2024",
			TotalAmount:   "₹1500",
			UnitsConsumed: "320 kWh",
		},
		ConsumptionAnalysis: &analysisdomain.ConsumptionAnalysis{
			EfficiencyRating: "good",
			ConsumptionTrend: "stable",
		},
		Recommendations: recs,
		Anomalies:       []string{"spike on weekends"},
		AnalysisDate:    time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func newPublisher(client domain.Client) domain.Service {
	return New(Params{Client: client, Log: zap.NewNop()})
}

func billID(t *testing.T) snowflake.ID {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return node.Generate()
}

func TestPublishCreatesFirstThreeTasks(t *testing.T) {
	client := &fakeClient{}
	id := billID(t)

	result := newPublisher(client).Publish(context.Background(), testAnalysis(5), id)

	assert.True(t, result.AllSucceeded())
	require.Len(t, client.todos, 3)
	assert.Contains(t, client.todos[0].Description, "recommendation 1")
	assert.Contains(t, client.todos[2].Description, "recommendation 3")
	for _, todo := range client.todos {
		assert.Equal(t, "High", todo.Priority)
		assert.Equal(t, domain.DoctypeCommunication, todo.ReferenceType)
		assert.Equal(t, result.Communication.Ref, todo.ReferenceName)
	}
}

func TestPublishFewerThanThreeRecommendations(t *testing.T) {
	client := &fakeClient{}

	result := newPublisher(client).Publish(context.Background(), testAnalysis(2), billID(t))

	assert.True(t, result.AllSucceeded())
	assert.Len(t, client.todos, 2)
	assert.Len(t, result.Todos, 2)
}

func TestPublishThreadFailureContinues(t *testing.T) {
	client := &fakeClient{failCommunication: true}

	result := newPublisher(client).Publish(context.Background(), testAnalysis(5), billID(t))

	assert.False(t, result.Communication.OK)
	assert.NotEmpty(t, result.Communication.Error)

	// Tasks and the insight record are still attempted, without back-refs.
	require.Len(t, client.todos, 3)
	for _, todo := range client.todos {
		assert.Empty(t, todo.ReferenceType)
		assert.Empty(t, todo.ReferenceName)
	}
	require.Len(t, client.insights, 1)
	assert.Empty(t, client.insights[0].CommunicationReference)
	assert.True(t, result.Insight.OK)
	assert.False(t, result.AllSucceeded())
}

func TestPublishTaskFailuresAreIndependent(t *testing.T) {
	client := &fakeClient{failTodoIndex: 2}

	result := newPublisher(client).Publish(context.Background(), testAnalysis(3), billID(t))

	require.Len(t, result.Todos, 3)
	assert.True(t, result.Todos[0].OK)
	assert.False(t, result.Todos[1].OK)
	assert.NotEmpty(t, result.Todos[1].Error)
	assert.True(t, result.Todos[2].OK)
	assert.True(t, result.Insight.OK)
	assert.False(t, result.AllSucceeded())
}

func TestPublishInsightNumericMapping(t *testing.T) {
	client := &fakeClient{}

	newPublisher(client).Publish(context.Background(), testAnalysis(1), billID(t))

	require.Len(t, client.insights, 1)
	insight := client.insights[0]
	assert.InDelta(t, 1500.0, insight.TotalAmount, 1e-9)
	assert.Equal(t, "spike on weekends", insight.Anomalies)
	assert.Equal(t, "recommendation 1", insight.Recommendations)
	assert.Equal(t, "2024-06-01 12:00", insight.AnalysisDate)
}

func TestPublishInsightAmountDefaultsToZero(t *testing.T) {
	client := &fakeClient{}
	analysis := testAnalysis(1)
	analysis.BillSummary.TotalAmount = "N/A"

	newPublisher(client).Publish(context.Background(), analysis, billID(t))

	require.Len(t, client.insights, 1)
	assert.Zero(t, client.insights[0].TotalAmount)
}

func TestPublishReportBody(t *testing.T) {
	client := &fakeClient{}
	analysis := testAnalysis(2)

	newPublisher(client).Publish(context.Background(), analysis, billID(t))

	require.Len(t, client.communications, 1)
	body := client.communications[0].Content
	assert.Contains(t, body, "<h4>Bill Summary</h4>")
	assert.Contains(t, body, "<h4>Consumption Analysis</h4>")
	assert.Contains(t, body, "<ol><li>recommendation 1</li><li>recommendation 2</li></ol>")
	assert.Contains(t, body, "Anomalies Detected")

	// Anomaly section disappears when there are none.
	analysis.Anomalies = nil
	client = &fakeClient{}
	newPublisher(client).Publish(context.Background(), analysis, billID(t))
	assert.NotContains(t, client.communications[0].Content, "Anomalies Detected")
}

func TestPublishRawText(t *testing.T) {
	client := &fakeClient{}
	raw := "line one\nline <two>"

	result := newPublisher(client).PublishRawText(context.Background(), raw, billID(t))

	assert.True(t, result.OK)
	require.Len(t, client.communications, 1)
	assert.True(t, strings.HasPrefix(client.communications[0].Subject, "Electricity Bill Summary - Bill #"))
	assert.Contains(t, client.communications[0].Content, "line one")
	assert.Contains(t, client.communications[0].Content, "&lt;two&gt;")
	assert.Empty(t, client.todos)
	assert.Empty(t, client.insights)
}
