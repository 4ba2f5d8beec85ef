// internal/models/historical_performance.go
package models

import (
	"time"
)

// HistoricalPerformance is an append-only record written on every metric
// recalculation.
type HistoricalPerformance struct {
	ID                  uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	VendorID            uint      `json:"vendor" gorm:"not null;index"`
	Date                time.Time `json:"date" gorm:"autoCreateTime"`
	OnTimeDeliveryRate  float64   `json:"on_time_delivery_rate" gorm:"default:0"`
	QualityRatingAvg    float64   `json:"quality_rating_avg" gorm:"default:0"`
	AverageResponseTime float64   `json:"average_response_time" gorm:"default:0"`
	FulfillmentRate     float64   `json:"fulfillment_rate" gorm:"default:0"`

	Vendor *Vendor `json:"-" gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE"`
}

func (HistoricalPerformance) TableName() string {
	return "historical_performances"
}
