// internal/models/common.go
package models

import (
	"time"
)

// Base model with common fields
type BaseModel struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Enums
type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "pending"
	PurchaseStatusCompleted PurchaseStatus = "completed"
	PurchaseStatusCanceled  PurchaseStatus = "canceled"
)

func (s PurchaseStatus) IsValid() bool {
	switch s {
	case PurchaseStatusPending, PurchaseStatusCompleted, PurchaseStatusCanceled:
		return true
	}
	return false
}

// Metric names used by the performance engine and history rows.
type Metric string

const (
	MetricOnTimeDeliveryRate  Metric = "on_time_delivery_rate"
	MetricQualityRatingAvg    Metric = "quality_rating_avg"
	MetricAverageResponseTime Metric = "average_response_time"
	MetricFulfillmentRate     Metric = "fulfillment_rate"
)
