// internal/models/vendor.go
package models

// Vendor is a supplier. The four metric fields are owned by the performance
// engine and never written from request payloads.
type Vendor struct {
	BaseModel
	Name                string  `json:"name" gorm:"size:100;not null"`
	ContactDetails      string  `json:"contact_details" gorm:"type:text"`
	Address             string  `json:"address" gorm:"size:225"`
	VendorCode          string  `json:"vendor_code" gorm:"uniqueIndex;size:50;not null"`
	OnTimeDeliveryRate  float64 `json:"on_time_delivery_rate" gorm:"default:0"`
	QualityRatingAvg    float64 `json:"quality_rating_avg" gorm:"default:0"`
	AverageResponseTime float64 `json:"average_response_time" gorm:"default:0"`
	FulfillmentRate     float64 `json:"fulfillment_rate" gorm:"default:0"`
}

func (Vendor) TableName() string {
	return "vendors"
}

// MetricValue returns the current value of the named metric.
func (v *Vendor) MetricValue(m Metric) float64 {
	switch m {
	case MetricOnTimeDeliveryRate:
		return v.OnTimeDeliveryRate
	case MetricQualityRatingAvg:
		return v.QualityRatingAvg
	case MetricAverageResponseTime:
		return v.AverageResponseTime
	case MetricFulfillmentRate:
		return v.FulfillmentRate
	}
	return 0
}

// SetMetric stores value in the named metric field.
func (v *Vendor) SetMetric(m Metric, value float64) {
	switch m {
	case MetricOnTimeDeliveryRate:
		v.OnTimeDeliveryRate = value
	case MetricQualityRatingAvg:
		v.QualityRatingAvg = value
	case MetricAverageResponseTime:
		v.AverageResponseTime = value
	case MetricFulfillmentRate:
		v.FulfillmentRate = value
	}
}
