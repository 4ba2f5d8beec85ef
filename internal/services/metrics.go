// internal/services/metrics.go
package services

import (
	"github.com/javajoker/vms-backend/internal/models"
)

// The reductions below run over rows already fetched for one vendor. Each
// returns 0 when there is nothing to measure.

func completedOrders(orders []models.PurchaseOrder) []models.PurchaseOrder {
	completed := make([]models.PurchaseOrder, 0, len(orders))
	for _, po := range orders {
		if po.IsCompleted() {
			completed = append(completed, po)
		}
	}
	return completed
}

// OnTimeDeliveryRate is the percentage of completed orders whose completion
// did not pass the expected delivery date. A missing date on either side
// counts as late.
func OnTimeDeliveryRate(orders []models.PurchaseOrder) float64 {
	completed := completedOrders(orders)
	if len(completed) == 0 {
		return 0
	}

	onTime := 0
	for _, po := range completed {
		if po.CompletedDate == nil || po.DeliveryDate == nil {
			continue
		}
		if !po.CompletedDate.After(*po.DeliveryDate) {
			onTime++
		}
	}

	return float64(onTime) / float64(len(completed)) * 100
}

// FulfillmentRate is the percentage of completed orders without a recorded issue.
func FulfillmentRate(orders []models.PurchaseOrder) float64 {
	completed := completedOrders(orders)
	if len(completed) == 0 {
		return 0
	}

	fulfilled := 0
	for _, po := range completed {
		if po.IssueOrder == nil {
			fulfilled++
		}
	}

	return float64(fulfilled) / float64(len(completed)) * 100
}

// QualityRatingAverage is the mean rating over rated completed orders.
func QualityRatingAverage(orders []models.PurchaseOrder) float64 {
	var sum float64
	count := 0
	for _, po := range orders {
		if !po.IsCompleted() || po.QualityRating == nil {
			continue
		}
		sum += *po.QualityRating
		count++
	}

	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// AverageResponseTime is the mean acknowledgment delay in hours over orders
// that were both issued and acknowledged, whatever their status.
func AverageResponseTime(orders []models.PurchaseOrder) float64 {
	var totalHours float64
	count := 0
	for _, po := range orders {
		if po.IssueDate == nil || po.AcknowledgmentDate == nil {
			continue
		}
		totalHours += po.AcknowledgmentDate.Sub(*po.IssueDate).Hours()
		count++
	}

	if count == 0 {
		return 0
	}
	return totalHours / float64(count)
}
