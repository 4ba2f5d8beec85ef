// internal/services/performance_service.go
package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/javajoker/vms-backend/internal/config"
	"github.com/javajoker/vms-backend/internal/models"
)

// RecalculationEvent describes one metric written to a vendor row.
type RecalculationEvent struct {
	VendorID uint          `json:"vendor_id"`
	Metric   models.Metric `json:"metric"`
	Value    float64       `json:"value"`
}

// metricCascades lists metrics recomputed right after another one from the
// same set of orders.
var metricCascades = map[models.Metric][]models.Metric{
	models.MetricOnTimeDeliveryRate: {models.MetricFulfillmentRate},
}

var metricFuncs = map[models.Metric]func([]models.PurchaseOrder) float64{
	models.MetricOnTimeDeliveryRate:  OnTimeDeliveryRate,
	models.MetricFulfillmentRate:     FulfillmentRate,
	models.MetricQualityRatingAvg:    QualityRatingAverage,
	models.MetricAverageResponseTime: AverageResponseTime,
}

// PerformanceService recomputes vendor metrics from purchase orders and
// appends history rows.
type PerformanceService struct {
	historyMode string
}

func NewPerformanceService(cfg *config.Config) *PerformanceService {
	return &PerformanceService{historyMode: cfg.Performance.HistoryMode}
}

func expandMetrics(requested []models.Metric) []models.Metric {
	seen := make(map[models.Metric]bool)
	var out []models.Metric
	var add func(m models.Metric)
	add = func(m models.Metric) {
		if seen[m] {
			return
		}
		seen[m] = true
		out = append(out, m)
		for _, next := range metricCascades[m] {
			add(next)
		}
	}
	for _, m := range requested {
		add(m)
	}
	return out
}

// Recalculate recomputes the requested metrics (plus their cascades) for one
// vendor inside tx. One history row is appended per metric written.
func (s *PerformanceService) Recalculate(ctx context.Context, tx *gorm.DB, vendorID uint, requested ...models.Metric) ([]RecalculationEvent, error) {
	metrics := expandMetrics(requested)
	if len(metrics) == 0 {
		return nil, nil
	}

	db := tx.WithContext(ctx)

	var vendor models.Vendor
	if err := db.First(&vendor, vendorID).Error; err != nil {
		return nil, fmt.Errorf("failed to load vendor %d: %w", vendorID, err)
	}

	var orders []models.PurchaseOrder
	if err := db.Where("fk_vendor_id = ?", vendorID).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to load purchase orders for vendor %d: %w", vendorID, err)
	}

	events := make([]RecalculationEvent, 0, len(metrics))
	for _, metric := range metrics {
		compute, ok := metricFuncs[metric]
		if !ok {
			return nil, fmt.Errorf("unknown metric %q", metric)
		}

		value := compute(orders)
		vendor.SetMetric(metric, value)

		if err := db.Model(&models.Vendor{}).Where("id = ?", vendorID).Update(string(metric), value).Error; err != nil {
			return nil, fmt.Errorf("failed to update %s for vendor %d: %w", metric, vendorID, err)
		}

		history := s.historyRow(&vendor, metric)
		if err := db.Create(history).Error; err != nil {
			return nil, fmt.Errorf("failed to record performance history for vendor %d: %w", vendorID, err)
		}

		events = append(events, RecalculationEvent{VendorID: vendorID, Metric: metric, Value: value})
	}

	return events, nil
}

func (s *PerformanceService) historyRow(vendor *models.Vendor, metric models.Metric) *models.HistoricalPerformance {
	row := &models.HistoricalPerformance{VendorID: vendor.ID}

	if s.historyMode == config.HistoryModeSnapshot {
		row.OnTimeDeliveryRate = vendor.OnTimeDeliveryRate
		row.QualityRatingAvg = vendor.QualityRatingAvg
		row.AverageResponseTime = vendor.AverageResponseTime
		row.FulfillmentRate = vendor.FulfillmentRate
		return row
	}

	value := vendor.MetricValue(metric)
	switch metric {
	case models.MetricOnTimeDeliveryRate:
		row.OnTimeDeliveryRate = value
	case models.MetricQualityRatingAvg:
		row.QualityRatingAvg = value
	case models.MetricAverageResponseTime:
		row.AverageResponseTime = value
	case models.MetricFulfillmentRate:
		row.FulfillmentRate = value
	}
	return row
}
