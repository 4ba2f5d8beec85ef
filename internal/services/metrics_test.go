// internal/services/metrics_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/javajoker/vms-backend/internal/models"
)

func ptrTime(t time.Time) *time.Time { return &t }
func ptrFloat(f float64) *float64    { return &f }
func ptrString(s string) *string     { return &s }

func completedOrder(completed, delivery *time.Time) models.PurchaseOrder {
	return models.PurchaseOrder{
		Status:        models.PurchaseStatusCompleted,
		CompletedDate: completed,
		DeliveryDate:  delivery,
	}
}

func TestMetricsWithoutCompletedOrders(t *testing.T) {
	orders := []models.PurchaseOrder{
		{Status: models.PurchaseStatusPending, QualityRating: ptrFloat(80)},
		{Status: models.PurchaseStatusCanceled},
	}

	assert.Zero(t, OnTimeDeliveryRate(orders))
	assert.Zero(t, FulfillmentRate(orders))
	assert.Zero(t, QualityRatingAverage(orders))
	assert.Zero(t, AverageResponseTime(nil))
}

func TestOnTimeDeliveryRate(t *testing.T) {
	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		orders []models.PurchaseOrder
		want   float64
	}{
		{
			name:   "single on time",
			orders: []models.PurchaseOrder{completedOrder(ptrTime(base), ptrTime(base.Add(time.Hour)))},
			want:   100,
		},
		{
			name:   "completed exactly at delivery date",
			orders: []models.PurchaseOrder{completedOrder(ptrTime(base), ptrTime(base))},
			want:   100,
		},
		{
			name: "one late out of two",
			orders: []models.PurchaseOrder{
				completedOrder(ptrTime(base), ptrTime(base.Add(time.Hour))),
				completedOrder(ptrTime(base.Add(2*time.Hour)), ptrTime(base)),
			},
			want: 50,
		},
		{
			name: "missing delivery date counts as late",
			orders: []models.PurchaseOrder{
				completedOrder(ptrTime(base), nil),
				completedOrder(ptrTime(base), ptrTime(base.Add(time.Hour))),
				completedOrder(ptrTime(base), ptrTime(base.Add(time.Hour))),
				{Status: models.PurchaseStatusPending, DeliveryDate: ptrTime(base)},
			},
			want: 200.0 / 3.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, OnTimeDeliveryRate(tt.orders), 1e-9)
		})
	}
}

func TestFulfillmentRate(t *testing.T) {
	orders := []models.PurchaseOrder{
		{Status: models.PurchaseStatusCompleted},
		{Status: models.PurchaseStatusCompleted, IssueOrder: ptrString("damaged items")},
		{Status: models.PurchaseStatusPending, IssueOrder: ptrString("late")},
	}

	assert.InDelta(t, 50, FulfillmentRate(orders), 1e-9)

	withIssue := []models.PurchaseOrder{
		{Status: models.PurchaseStatusCompleted, IssueOrder: ptrString("wrong item")},
	}
	assert.Zero(t, FulfillmentRate(withIssue))
}

func TestQualityRatingAverage(t *testing.T) {
	orders := []models.PurchaseOrder{
		{Status: models.PurchaseStatusCompleted, QualityRating: ptrFloat(70)},
		{Status: models.PurchaseStatusCompleted, QualityRating: ptrFloat(90)},
		{Status: models.PurchaseStatusCompleted},
		{Status: models.PurchaseStatusPending, QualityRating: ptrFloat(10)},
	}

	assert.InDelta(t, 80, QualityRatingAverage(orders), 1e-9)
}

func TestAverageResponseTime(t *testing.T) {
	issued := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	orders := []models.PurchaseOrder{
		{Status: models.PurchaseStatusPending, IssueDate: ptrTime(issued), AcknowledgmentDate: ptrTime(issued.Add(24 * time.Hour))},
		{Status: models.PurchaseStatusCompleted, IssueDate: ptrTime(issued), AcknowledgmentDate: ptrTime(issued.Add(12 * time.Hour))},
		{Status: models.PurchaseStatusPending, IssueDate: ptrTime(issued)},
	}

	assert.InDelta(t, 18, AverageResponseTime(orders), 1e-9)
}
