// internal/services/dispatcher.go
package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/vms-backend/internal/models"
)

// Purchase order fields the dispatcher reacts to.
const (
	FieldStatus             = "status"
	FieldQualityRating      = "quality_rating"
	FieldAcknowledgmentDate = "acknowledgment_date"
	FieldCompletedDate      = "completed_date"
)

// ChangeSet holds the names of the purchase order fields written by an update.
type ChangeSet map[string]struct{}

func Changed(fields ...string) ChangeSet {
	cs := make(ChangeSet, len(fields))
	for _, f := range fields {
		cs[f] = struct{}{}
	}
	return cs
}

func (cs ChangeSet) Has(field string) bool {
	_, ok := cs[field]
	return ok
}

// Listener is notified once the transaction carrying the recalculations has
// committed.
type Listener interface {
	OnRecalculated(ctx context.Context, events []RecalculationEvent)
}

type ListenerFunc func(ctx context.Context, events []RecalculationEvent)

func (f ListenerFunc) OnRecalculated(ctx context.Context, events []RecalculationEvent) {
	f(ctx, events)
}

// Dispatcher maps purchase order changes to metric recalculations.
type Dispatcher struct {
	engine    *PerformanceService
	listeners []Listener
}

func NewDispatcher(engine *PerformanceService, listeners ...Listener) *Dispatcher {
	return &Dispatcher{engine: engine, listeners: listeners}
}

// Triggers returns the metrics to recompute for order after the fields in
// changed were written. Rules are independent of each other.
func Triggers(order *models.PurchaseOrder, changed ChangeSet) []models.Metric {
	if order == nil || len(changed) == 0 {
		return nil
	}

	var metrics []models.Metric
	if changed.Has(FieldStatus) && order.IsCompleted() {
		metrics = append(metrics, models.MetricOnTimeDeliveryRate)
	}
	if changed.Has(FieldQualityRating) && order.IsCompleted() {
		metrics = append(metrics, models.MetricQualityRatingAvg)
	}
	if changed.Has(FieldAcknowledgmentDate) && order.AcknowledgmentDate != nil && order.IssueDate != nil {
		metrics = append(metrics, models.MetricAverageResponseTime)
	}
	return metrics
}

// OrderUpdated runs the recalculations triggered by an update inside tx.
func (d *Dispatcher) OrderUpdated(ctx context.Context, tx *gorm.DB, order *models.PurchaseOrder, changed ChangeSet) ([]RecalculationEvent, error) {
	metrics := Triggers(order, changed)
	if len(metrics) == 0 {
		return nil, nil
	}
	return d.engine.Recalculate(ctx, tx, order.VendorID, metrics...)
}

// Publish hands committed events to the listeners.
func (d *Dispatcher) Publish(ctx context.Context, events []RecalculationEvent) {
	if len(events) == 0 {
		return
	}
	for _, l := range d.listeners {
		l.OnRecalculated(ctx, events)
	}
}

// LogListener writes one line per recalculated metric.
func LogListener() Listener {
	return ListenerFunc(func(ctx context.Context, events []RecalculationEvent) {
		for _, e := range events {
			logrus.WithFields(logrus.Fields{
				"vendor_id": e.VendorID,
				"metric":    e.Metric,
				"value":     e.Value,
			}).Info("Vendor performance recalculated")
		}
	})
}
