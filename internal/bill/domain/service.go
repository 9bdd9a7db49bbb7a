package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	analysisdomain "github.com/wattlens/wattlens/internal/analysis/domain"
)

type PersistRequest struct {
	FileURL       string
	FileType      string
	ExtractedText string
	Analysis      analysisdomain.BillAnalysis
}

type Service interface {
	// Persist stores the bill row and its insight rows as one atomic unit
	// and returns the generated bill id.
	Persist(ctx context.Context, req PersistRequest) (snowflake.ID, error)

	// Get returns the stored bill row or ErrNotFound.
	Get(ctx context.Context, id snowflake.ID) (*Bill, error)

	// MonthlyTrends aggregates bills uploaded within the trailing window,
	// bucketed by calendar month, ascending.
	MonthlyTrends(ctx context.Context, windowMonths int) ([]TrendBucket, error)

	// RecentInsights returns the newest insight rows joined with their
	// parent bill's amount and efficiency, capped at limit.
	RecentInsights(ctx context.Context, limit int) ([]InsightView, error)
}

var (
	ErrInvalidAnalysis = errors.New("invalid_analysis")
	ErrNotFound        = errors.New("not_found")
)
