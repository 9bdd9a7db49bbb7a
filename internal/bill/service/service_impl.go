package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	analysisdomain "github.com/wattlens/wattlens/internal/analysis/domain"
	"github.com/wattlens/wattlens/internal/bill/domain"
	"github.com/wattlens/wattlens/internal/clock"
	pkgdb "github.com/wattlens/wattlens/pkg/db"
	"github.com/wattlens/wattlens/pkg/numeric"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultTrendWindowMonths = 12
	defaultInsightLimit      = 10
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clk   clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("bill.service"),
		genID: p.GenID,
		clk:   p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Persist(ctx context.Context, req domain.PersistRequest) (snowflake.ID, error) {
	analysisJSON, err := json.Marshal(req.Analysis)
	if err != nil {
		return 0, domain.ErrInvalidAnalysis
	}

	summary := req.Analysis.Summary()
	now := s.clk.Now()

	bill := domain.Bill{
		ID:            s.genID.Generate(),
		UploadDate:    now,
		FileURL:       req.FileURL,
		FileType:      req.FileType,
		ExtractedText: req.ExtractedText,
		AnalysisJSON:  analysisJSON,

		TotalAmount:      numeric.Extract(summary.TotalAmount),
		UnitsConsumed:    numeric.Extract(summary.UnitsConsumed),
		BillingPeriod:    summary.BillingPeriod,
		EfficiencyRating: req.Analysis.Consumption().EfficiencyRating,
	}

	persist := func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := s.repo.InsertBill(ctx, tx, &bill); err != nil {
				return err
			}
			if err := s.insertInsights(ctx, tx, bill.ID, now, domain.InsightTypeRecommendation, req.Analysis.Recommendations); err != nil {
				return err
			}
			return s.insertInsights(ctx, tx, bill.ID, now, domain.InsightTypeAnomaly, req.Analysis.Anomalies)
		})
	}

	err = persist()
	if pkgdb.IsDuplicateKeyErr(err) {
		// id collision across processes sharing a node id; one fresh id is enough
		bill.ID = s.genID.Generate()
		err = persist()
	}
	if err != nil {
		s.log.Error("persist failed", zap.Error(err), zap.String("file_url", req.FileURL))
		return 0, err
	}

	s.log.Info("bill persisted",
		zap.String("bill_id", bill.ID.String()),
		zap.Int("recommendations", len(req.Analysis.Recommendations)),
		zap.Int("anomalies", len(req.Analysis.Anomalies)),
	)
	return bill.ID, nil
}

func (s *Service) insertInsights(ctx context.Context, tx *gorm.DB, billID snowflake.ID, at time.Time, insightType string, texts []string) error {
	for _, text := range texts {
		insight := domain.Insight{
			ID:          s.genID.Generate(),
			BillID:      billID,
			InsightDate: at,
			Type:        insightType,
			Text:        text,
		}
		if err := s.repo.InsertInsight(ctx, tx, &insight); err != nil {
			return err
		}
	}
	return nil
}

// MonthlyTrends buckets in Go rather than in SQL so the grouping behaves the
// same on every configured engine. Averages skip rows whose denormalized
// column is null, matching AVG semantics; bill_count counts every row.
func (s *Service) MonthlyTrends(ctx context.Context, windowMonths int) ([]domain.TrendBucket, error) {
	if windowMonths <= 0 {
		windowMonths = defaultTrendWindowMonths
	}

	since := s.clk.Now().AddDate(0, -windowMonths, 0)
	samples, err := s.repo.ListSamplesSince(ctx, s.db, since)
	if err != nil {
		return nil, err
	}

	type acc struct {
		costSum    float64
		costN      int
		consumeSum float64
		consumeN   int
		count      int
	}

	buckets := map[string]*acc{}
	for _, sample := range samples {
		key := sample.UploadDate.UTC().Format("2006-01")
		bucket, ok := buckets[key]
		if !ok {
			bucket = &acc{}
			buckets[key] = bucket
		}
		bucket.count++
		if sample.TotalAmount != nil {
			bucket.costSum += *sample.TotalAmount
			bucket.costN++
		}
		if sample.UnitsConsumed != nil {
			bucket.consumeSum += *sample.UnitsConsumed
			bucket.consumeN++
		}
	}

	months := make([]string, 0, len(buckets))
	for month := range buckets {
		months = append(months, month)
	}
	sort.Strings(months)

	trends := make([]domain.TrendBucket, 0, len(months))
	for _, month := range months {
		bucket := buckets[month]
		trend := domain.TrendBucket{Month: month, BillCount: bucket.count}
		if bucket.costN > 0 {
			trend.AvgCost = bucket.costSum / float64(bucket.costN)
		}
		if bucket.consumeN > 0 {
			trend.AvgConsumption = bucket.consumeSum / float64(bucket.consumeN)
		}
		trends = append(trends, trend)
	}

	return trends, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*domain.Bill, error) {
	return s.repo.GetBill(ctx, s.db, id)
}

func (s *Service) RecentInsights(ctx context.Context, limit int) ([]domain.InsightView, error) {
	if limit <= 0 {
		limit = defaultInsightLimit
	}
	return s.repo.RecentInsights(ctx, s.db, limit)
}

// ParseAnalysis restores a BillAnalysis from its persisted serialized form,
// so fanout can run in a later invocation than persist.
func ParseAnalysis(raw []byte) (analysisdomain.BillAnalysis, error) {
	var a analysisdomain.BillAnalysis
	if err := json.Unmarshal(raw, &a); err != nil {
		return analysisdomain.BillAnalysis{}, domain.ErrInvalidAnalysis
	}
	return a, nil
}
