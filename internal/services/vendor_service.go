// internal/services/vendor_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/javajoker/vms-backend/internal/database"
	"github.com/javajoker/vms-backend/internal/i18n"
	"github.com/javajoker/vms-backend/internal/models"
	"github.com/javajoker/vms-backend/internal/utils"
)

type VendorService struct {
	db    *gorm.DB
	cache PerformanceCache
}

type CreateVendorRequest struct {
	Name           string `json:"name" validate:"required,max=100"`
	ContactDetails string `json:"contact_details" validate:"required"`
	Address        string `json:"address" validate:"required,max=225"`
	VendorCode     string `json:"vendor_code" validate:"required,max=50"`
}

// UpdateVendorRequest carries no metric fields; those belong to the
// performance engine.
type UpdateVendorRequest struct {
	Name           *string `json:"name" validate:"omitempty,min=1,max=100"`
	ContactDetails *string `json:"contact_details" validate:"omitempty"`
	Address        *string `json:"address" validate:"omitempty,max=225"`
	VendorCode     *string `json:"vendor_code" validate:"omitempty,min=1,max=50"`
}

// VendorSummary is the identity view of a vendor.
type VendorSummary struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	ContactDetails string    `json:"contact_details"`
	Address        string    `json:"address"`
	VendorCode     string    `json:"vendor_code"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// VendorPerformance is the identity view plus the four metrics.
type VendorPerformance struct {
	VendorSummary
	OnTimeDeliveryRate  float64 `json:"on_time_delivery_rate"`
	QualityRatingAvg    float64 `json:"quality_rating_avg"`
	AverageResponseTime float64 `json:"average_response_time"`
	FulfillmentRate     float64 `json:"fulfillment_rate"`
}

func NewVendorSummary(v *models.Vendor) VendorSummary {
	return VendorSummary{
		ID:             v.ID,
		Name:           v.Name,
		ContactDetails: v.ContactDetails,
		Address:        v.Address,
		VendorCode:     v.VendorCode,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}

func NewVendorPerformance(v *models.Vendor) *VendorPerformance {
	return &VendorPerformance{
		VendorSummary:       NewVendorSummary(v),
		OnTimeDeliveryRate:  v.OnTimeDeliveryRate,
		QualityRatingAvg:    v.QualityRatingAvg,
		AverageResponseTime: v.AverageResponseTime,
		FulfillmentRate:     v.FulfillmentRate,
	}
}

func NewVendorService(db *gorm.DB, cache PerformanceCache) *VendorService {
	if cache == nil {
		cache = NoopPerformanceCache{}
	}
	return &VendorService{
		db:    db,
		cache: cache,
	}
}

func (s *VendorService) findVendor(ctx context.Context, db *gorm.DB, vendorID uint) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := db.WithContext(ctx).First(&vendor, vendorID).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, ErrVendorNotFound
		}
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}
	return &vendor, nil
}

func (s *VendorService) ListVendors(ctx context.Context, params utils.PaginationParams) ([]VendorSummary, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Vendor{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count vendors: %w", err)
	}

	var vendors []models.Vendor
	query := utils.ApplyPagination(s.db.WithContext(ctx).Order("id ASC"), params)
	if err := query.Find(&vendors).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list vendors: %w", err)
	}

	summaries := make([]VendorSummary, 0, len(vendors))
	for i := range vendors {
		summaries = append(summaries, NewVendorSummary(&vendors[i]))
	}
	return summaries, total, nil
}

func (s *VendorService) CreateVendor(ctx context.Context, req *CreateVendorRequest) (*VendorSummary, error) {
	vendor := &models.Vendor{
		Name:           req.Name,
		ContactDetails: req.ContactDetails,
		Address:        req.Address,
		VendorCode:     req.VendorCode,
	}

	if err := s.db.WithContext(ctx).Create(vendor).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return nil, NewConflictError(i18n.KeyVendorCodeUsed, err)
		}
		return nil, fmt.Errorf("failed to create vendor: %w", err)
	}

	summary := NewVendorSummary(vendor)
	return &summary, nil
}

func (s *VendorService) GetVendor(ctx context.Context, vendorID uint) (*VendorSummary, error) {
	vendor, err := s.findVendor(ctx, s.db, vendorID)
	if err != nil {
		return nil, err
	}
	summary := NewVendorSummary(vendor)
	return &summary, nil
}

func (s *VendorService) UpdateVendor(ctx context.Context, vendorID uint, req *UpdateVendorRequest) (*VendorSummary, error) {
	vendor, err := s.findVendor(ctx, s.db, vendorID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.ContactDetails != nil {
		updates["contact_details"] = *req.ContactDetails
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.VendorCode != nil {
		updates["vendor_code"] = *req.VendorCode
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(vendor).Updates(updates).Error; err != nil {
			if database.IsDuplicateKey(err) {
				return nil, NewConflictError(i18n.KeyVendorCodeUsed, err)
			}
			return nil, fmt.Errorf("failed to update vendor: %w", err)
		}
		s.cache.Invalidate(ctx, vendorID)
	}

	// Reload to pick up the new updated_at
	vendor, err = s.findVendor(ctx, s.db, vendorID)
	if err != nil {
		return nil, err
	}
	summary := NewVendorSummary(vendor)
	return &summary, nil
}

// DeleteVendor removes the vendor together with its purchase orders and
// performance history.
func (s *VendorService) DeleteVendor(ctx context.Context, vendorID uint) error {
	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		if _, err := s.findVendor(ctx, tx, vendorID); err != nil {
			return err
		}
		if err := tx.Where("vendor_id = ?", vendorID).Delete(&models.HistoricalPerformance{}).Error; err != nil {
			return fmt.Errorf("failed to delete performance history: %w", err)
		}
		if err := tx.Where("fk_vendor_id = ?", vendorID).Delete(&models.PurchaseOrder{}).Error; err != nil {
			return fmt.Errorf("failed to delete purchase orders: %w", err)
		}
		if err := tx.Delete(&models.Vendor{}, vendorID).Error; err != nil {
			return fmt.Errorf("failed to delete vendor: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, vendorID)
	return nil
}

func (s *VendorService) GetPerformance(ctx context.Context, vendorID uint) (*VendorPerformance, error) {
	if perf, ok := s.cache.Get(ctx, vendorID); ok {
		return perf, nil
	}

	vendor, err := s.findVendor(ctx, s.db, vendorID)
	if err != nil {
		return nil, err
	}

	perf := NewVendorPerformance(vendor)
	s.cache.Set(ctx, perf)
	return perf, nil
}

// ListHistory returns the vendor's performance history, newest first.
func (s *VendorService) ListHistory(ctx context.Context, vendorID uint, params utils.PaginationParams) ([]models.HistoricalPerformance, int64, error) {
	if _, err := s.findVendor(ctx, s.db, vendorID); err != nil {
		return nil, 0, err
	}

	base := s.db.WithContext(ctx).Model(&models.HistoricalPerformance{}).Where("vendor_id = ?", vendorID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count performance history: %w", err)
	}

	history := []models.HistoricalPerformance{}
	query := utils.ApplyPagination(
		s.db.WithContext(ctx).Where("vendor_id = ?", vendorID).Order("id DESC"),
		params,
	)
	if err := query.Find(&history).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list performance history: %w", err)
	}

	return history, total, nil
}
