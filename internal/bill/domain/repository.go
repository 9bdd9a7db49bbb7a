package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository takes an explicit db handle so the service controls the
// transactional scope: both inserts for one persist call run on the same tx.
type Repository interface {
	InsertBill(ctx context.Context, db *gorm.DB, bill *Bill) error
	GetBill(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Bill, error)
	InsertInsight(ctx context.Context, db *gorm.DB, insight *Insight) error
	ListSamplesSince(ctx context.Context, db *gorm.DB, since time.Time) ([]BillSample, error)
	RecentInsights(ctx context.Context, db *gorm.DB, limit int) ([]InsightView, error)
}
