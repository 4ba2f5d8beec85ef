// internal/services/purchase_order_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/javajoker/vms-backend/internal/config"
	"github.com/javajoker/vms-backend/internal/database"
	"github.com/javajoker/vms-backend/internal/i18n"
	"github.com/javajoker/vms-backend/internal/metrics"
	"github.com/javajoker/vms-backend/internal/models"
	"github.com/javajoker/vms-backend/internal/utils"
)

// PONumberSource allocates the next purchase order number inside the creating
// transaction.
type PONumberSource interface {
	Next(ctx context.Context, tx *gorm.DB) (string, time.Time, error)
}

type PurchaseOrderService struct {
	db          *gorm.DB
	dispatcher  *Dispatcher
	numbers     PONumberSource
	maxAttempts int
	now         func() time.Time
}

type CreatePurchaseOrderRequest struct {
	VendorID     uint           `json:"fk_vendor" validate:"required"`
	DeliveryDate *time.Time     `json:"delivery_date"`
	Items        datatypes.JSON `json:"items" validate:"required"`
	Quantity     int            `json:"quantity" validate:"gte=0"`
	IssueOrder   *string        `json:"issue_order" validate:"omitempty,max=225"`
	IssueDate    *time.Time     `json:"issue_date"`
}

// UpdatePurchaseOrderRequest is a partial update. An empty issue_order clears it.
type UpdatePurchaseOrderRequest struct {
	VendorID     *uint          `json:"fk_vendor" validate:"omitempty,min=1"`
	DeliveryDate *time.Time     `json:"delivery_date"`
	Items        datatypes.JSON `json:"items"`
	Quantity     *int           `json:"quantity" validate:"omitempty,gte=0"`
	IssueOrder   *string        `json:"issue_order" validate:"omitempty,max=225"`
	IssueDate    *time.Time     `json:"issue_date"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,po_status"`
}

type UpdateRatingRequest struct {
	QualityRating *float64 `json:"quality_rating" validate:"required,gte=0,lte=100"`
}

type AcknowledgeRequest struct {
	AcknowledgmentDate *time.Time `json:"acknowledgment_date"`
}

type PurchaseOrderFilter struct {
	VendorID uint
	Status   models.PurchaseStatus
}

// PurchaseOrderView is the response shape of an order. The nested vendor
// carries its identity fields only.
type PurchaseOrderView struct {
	models.PurchaseOrder
	Vendor *VendorSummary `json:"fk_vendor,omitempty"`
}

func NewPurchaseOrderView(po *models.PurchaseOrder) *PurchaseOrderView {
	view := &PurchaseOrderView{PurchaseOrder: *po}
	if po.Vendor != nil {
		summary := NewVendorSummary(po.Vendor)
		view.Vendor = &summary
	}
	return view
}

func NewPurchaseOrderViews(orders []models.PurchaseOrder) []*PurchaseOrderView {
	views := make([]*PurchaseOrderView, 0, len(orders))
	for i := range orders {
		views = append(views, NewPurchaseOrderView(&orders[i]))
	}
	return views
}

func NewPurchaseOrderService(db *gorm.DB, cfg *config.Config, dispatcher *Dispatcher, numbers PONumberSource) *PurchaseOrderService {
	return &PurchaseOrderService{
		db:          db,
		dispatcher:  dispatcher,
		numbers:     numbers,
		maxAttempts: cfg.Performance.PONumberMaxAttempts,
		now:         time.Now,
	}
}

// SetClock replaces the time source used for server-side timestamps.
func (s *PurchaseOrderService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *PurchaseOrderService) findOrder(ctx context.Context, db *gorm.DB, poID uint, withVendor bool) (*models.PurchaseOrder, error) {
	query := db.WithContext(ctx)
	if withVendor {
		query = query.Preload("Vendor")
	}

	var po models.PurchaseOrder
	if err := query.First(&po, poID).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, ErrPurchaseOrderNotFound
		}
		return nil, fmt.Errorf("failed to get purchase order: %w", err)
	}
	return &po, nil
}

func (s *PurchaseOrderService) ensureVendor(ctx context.Context, db *gorm.DB, vendorID uint) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Vendor{}).Where("id = ?", vendorID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check vendor: %w", err)
	}
	if count == 0 {
		return NewValidationError(i18n.KeyVendorNotFound, nil)
	}
	return nil
}

func (s *PurchaseOrderService) ListPurchaseOrders(ctx context.Context, filter PurchaseOrderFilter, params utils.PaginationParams) ([]models.PurchaseOrder, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.PurchaseOrder{})
	if filter.VendorID != 0 {
		query = query.Where("fk_vendor_id = ?", filter.VendorID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count purchase orders: %w", err)
	}

	orders := []models.PurchaseOrder{}
	err := utils.ApplyPagination(query.Preload("Vendor").Order("id DESC"), params).Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list purchase orders: %w", err)
	}

	return orders, total, nil
}

// CreatePurchaseOrder allocates a po_number and inserts the order. A number
// collision retries the whole transaction.
func (s *PurchaseOrderService) CreatePurchaseOrder(ctx context.Context, req *CreatePurchaseOrderRequest) (*models.PurchaseOrder, error) {
	var po *models.PurchaseOrder
	var lastErr error

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		po = &models.PurchaseOrder{
			VendorID:     req.VendorID,
			DeliveryDate: req.DeliveryDate,
			Items:        req.Items,
			Quantity:     req.Quantity,
			Status:       models.PurchaseStatusPending,
			IssueOrder:   nonEmpty(req.IssueOrder),
			IssueDate:    req.IssueDate,
		}

		lastErr = database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
			if err := s.ensureVendor(ctx, tx, req.VendorID); err != nil {
				return err
			}

			number, orderDate, err := s.numbers.Next(ctx, tx)
			if err != nil {
				return err
			}
			po.PONumber = number
			po.OrderDate = orderDate

			return tx.Create(po).Error
		})
		if lastErr == nil {
			break
		}
		if !database.IsDuplicateKey(lastErr) {
			return nil, lastErr
		}
		metrics.PONumberRetryCounter.Inc()
	}

	if lastErr != nil {
		return nil, NewConflictError(i18n.KeyPONumberConflict, lastErr)
	}

	return s.findOrder(ctx, s.db, po.ID, true)
}

func (s *PurchaseOrderService) GetPurchaseOrder(ctx context.Context, poID uint) (*models.PurchaseOrder, error) {
	return s.findOrder(ctx, s.db, poID, true)
}

// UpdatePurchaseOrder writes descriptive fields only. It never triggers a
// metric recalculation.
func (s *PurchaseOrderService) UpdatePurchaseOrder(ctx context.Context, poID uint, req *UpdatePurchaseOrderRequest) (*models.PurchaseOrder, error) {
	if _, err := s.findOrder(ctx, s.db, poID, false); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.VendorID != nil {
		if err := s.ensureVendor(ctx, s.db, *req.VendorID); err != nil {
			return nil, err
		}
		updates["fk_vendor_id"] = *req.VendorID
	}
	if req.DeliveryDate != nil {
		updates["delivery_date"] = *req.DeliveryDate
	}
	if req.Items != nil {
		updates["items"] = req.Items
	}
	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
	}
	if req.IssueOrder != nil {
		updates["issue_order"] = nonEmpty(req.IssueOrder)
	}
	if req.IssueDate != nil {
		updates["issue_date"] = *req.IssueDate
	}

	if len(updates) > 0 {
		err := s.db.WithContext(ctx).Model(&models.PurchaseOrder{}).Where("id = ?", poID).Updates(updates).Error
		if err != nil {
			return nil, fmt.Errorf("failed to update purchase order: %w", err)
		}
	}

	return s.findOrder(ctx, s.db, poID, true)
}

func (s *PurchaseOrderService) DeletePurchaseOrder(ctx context.Context, poID uint) error {
	if _, err := s.findOrder(ctx, s.db, poID, false); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.PurchaseOrder{}, poID).Error; err != nil {
		return fmt.Errorf("failed to delete purchase order: %w", err)
	}
	return nil
}

// applyTracked writes updates, reloads the order and runs the dispatcher, all
// in one transaction. check sees the order before the write.
func (s *PurchaseOrderService) applyTracked(ctx context.Context, poID uint, check func(*models.PurchaseOrder) (map[string]interface{}, error)) (*models.PurchaseOrder, error) {
	var events []RecalculationEvent

	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		po, err := s.findOrder(ctx, tx, poID, false)
		if err != nil {
			return err
		}

		updates, err := check(po)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.PurchaseOrder{}).Where("id = ?", poID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update purchase order: %w", err)
		}

		po, err = s.findOrder(ctx, tx, poID, false)
		if err != nil {
			return err
		}

		changed := make(ChangeSet, len(updates))
		for field := range updates {
			changed[field] = struct{}{}
		}

		events, err = s.dispatcher.OrderUpdated(ctx, tx, po, changed)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.Publish(ctx, events)
	return s.findOrder(ctx, s.db, poID, true)
}

// UpdateStatus sets the status. Completing an order stamps completed_date
// with the server clock.
func (s *PurchaseOrderService) UpdateStatus(ctx context.Context, poID uint, req *UpdateStatusRequest) (*models.PurchaseOrder, error) {
	return s.applyTracked(ctx, poID, func(po *models.PurchaseOrder) (map[string]interface{}, error) {
		status := models.PurchaseStatus(req.Status)
		updates := map[string]interface{}{FieldStatus: status}
		if status == models.PurchaseStatusCompleted {
			updates[FieldCompletedDate] = s.now()
		}
		return updates, nil
	})
}

func (s *PurchaseOrderService) UpdateRating(ctx context.Context, poID uint, req *UpdateRatingRequest) (*models.PurchaseOrder, error) {
	return s.applyTracked(ctx, poID, func(po *models.PurchaseOrder) (map[string]interface{}, error) {
		if !po.IsCompleted() {
			return nil, ErrRatingNotAllowed
		}
		return map[string]interface{}{FieldQualityRating: *req.QualityRating}, nil
	})
}

// Acknowledge records the vendor acknowledgment, defaulting to now.
func (s *PurchaseOrderService) Acknowledge(ctx context.Context, poID uint, req *AcknowledgeRequest) (*models.PurchaseOrder, error) {
	return s.applyTracked(ctx, poID, func(po *models.PurchaseOrder) (map[string]interface{}, error) {
		if po.IssueDate == nil {
			return nil, ErrOrderNotIssued
		}
		ackDate := s.now()
		if req.AcknowledgmentDate != nil {
			ackDate = *req.AcknowledgmentDate
		}
		return map[string]interface{}{FieldAcknowledgmentDate: ackDate}, nil
	})
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
