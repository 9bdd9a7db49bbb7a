package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/wattlens/wattlens/internal/bill/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertBill(ctx context.Context, db *gorm.DB, bill *domain.Bill) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO bills (id, upload_date, file_url, file_type, extracted_text, analysis_json,
		                    total_amount, units_consumed, billing_period, efficiency_rating)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bill.ID,
		bill.UploadDate,
		bill.FileURL,
		bill.FileType,
		bill.ExtractedText,
		bill.AnalysisJSON,
		bill.TotalAmount,
		bill.UnitsConsumed,
		bill.BillingPeriod,
		bill.EfficiencyRating,
	).Error
}

func (r *repo) GetBill(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Bill, error) {
	var bill domain.Bill
	err := db.WithContext(ctx).
		Raw(`SELECT * FROM bills WHERE id = ?`, id).
		Scan(&bill).Error
	if err != nil {
		return nil, err
	}
	if bill.ID == 0 {
		return nil, domain.ErrNotFound
	}
	return &bill, nil
}

func (r *repo) InsertInsight(ctx context.Context, db *gorm.DB, insight *domain.Insight) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO insights (id, bill_id, insight_date, insight_type, insight_text)
		 VALUES (?, ?, ?, ?, ?)`,
		insight.ID,
		insight.BillID,
		insight.InsightDate,
		insight.Type,
		insight.Text,
	).Error
}

func (r *repo) ListSamplesSince(ctx context.Context, db *gorm.DB, since time.Time) ([]domain.BillSample, error) {
	var samples []domain.BillSample
	err := db.WithContext(ctx).Raw(
		`SELECT upload_date, total_amount, units_consumed
		 FROM bills
		 WHERE upload_date >= ?
		 ORDER BY upload_date ASC`,
		since,
	).Scan(&samples).Error
	if err != nil {
		return nil, err
	}
	return samples, nil
}

func (r *repo) RecentInsights(ctx context.Context, db *gorm.DB, limit int) ([]domain.InsightView, error) {
	var views []domain.InsightView
	err := db.WithContext(ctx).Raw(
		`SELECT i.insight_text, i.insight_type, i.insight_date, b.total_amount, b.efficiency_rating
		 FROM insights i
		 JOIN bills b ON i.bill_id = b.id
		 ORDER BY i.insight_date DESC, i.id DESC
		 LIMIT ?`,
		limit,
	).Scan(&views).Error
	if err != nil {
		return nil, err
	}
	return views, nil
}
