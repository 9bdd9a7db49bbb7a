package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Bill is the persisted row for one analyzed upload. Created once, never
// updated or deleted here; retention is an external policy. The four scalar
// columns are denormalized copies of analysis fields for aggregate queries.
type Bill struct {
	ID            snowflake.ID   `gorm:"primaryKey" json:"id"`
	UploadDate    time.Time      `gorm:"not null;index" json:"upload_date"`
	FileURL       string         `gorm:"column:file_url" json:"file_url"`
	FileType      string         `gorm:"column:file_type" json:"file_type"`
	ExtractedText string         `gorm:"column:extracted_text" json:"extracted_text"`
	AnalysisJSON  datatypes.JSON `gorm:"column:analysis_json" json:"analysis_json"`

	TotalAmount      *float64 `gorm:"column:total_amount" json:"total_amount,omitempty"`
	UnitsConsumed    *float64 `gorm:"column:units_consumed" json:"units_consumed,omitempty"`
	BillingPeriod    string   `gorm:"column:billing_period" json:"billing_period,omitempty"`
	EfficiencyRating string   `gorm:"column:efficiency_rating" json:"efficiency_rating,omitempty"`
}

func (Bill) TableName() string { return "bills" }

const (
	InsightTypeRecommendation = "recommendation"
	InsightTypeAnomaly        = "anomaly"
)

// Insight is one recommendation or anomaly string, linked to its parent bill.
// Written in the same transaction as the bill; no update path.
type Insight struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	BillID      snowflake.ID `gorm:"column:bill_id;not null;index" json:"bill_id"`
	InsightDate time.Time    `gorm:"column:insight_date;not null;index" json:"insight_date"`
	Type        string       `gorm:"column:insight_type;not null" json:"type"`
	Text        string       `gorm:"column:insight_text;not null" json:"text"`
}

func (Insight) TableName() string { return "insights" }

// TrendBucket aggregates bills for one calendar month. Derived on read, never
// stored. Months with no bills are omitted, not zero-filled.
type TrendBucket struct {
	Month          string  `json:"month_year"`
	AvgCost        float64 `json:"avg_cost"`
	AvgConsumption float64 `json:"avg_consumption"`
	BillCount      int     `json:"bill_count"`
}

// InsightView is a recent-insight row joined with its parent bill's scalars.
type InsightView struct {
	Text       string    `gorm:"column:insight_text" json:"insight"`
	Type       string    `gorm:"column:insight_type" json:"type"`
	Date       time.Time `gorm:"column:insight_date" json:"date"`
	BillAmount *float64  `gorm:"column:total_amount" json:"bill_amount,omitempty"`
	Efficiency string    `gorm:"column:efficiency_rating" json:"efficiency,omitempty"`
}

// BillSample carries the columns needed to build trend buckets.
type BillSample struct {
	UploadDate    time.Time `gorm:"column:upload_date"`
	TotalAmount   *float64  `gorm:"column:total_amount"`
	UnitsConsumed *float64  `gorm:"column:units_consumed"`
}
