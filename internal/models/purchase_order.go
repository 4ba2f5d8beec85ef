// internal/models/purchase_order.go
package models

import (
	"time"

	"gorm.io/datatypes"
)

type PurchaseOrder struct {
	BaseModel
	PONumber           string         `json:"po_number" gorm:"column:po_number;uniqueIndex;size:100;not null"`
	VendorID           uint           `json:"-" gorm:"column:fk_vendor_id;not null;index"`
	OrderDate          time.Time      `json:"order_date" gorm:"not null"`
	DeliveryDate       *time.Time     `json:"delivery_date"`
	Items              datatypes.JSON `json:"items"`
	Quantity           int            `json:"quantity" gorm:"default:0"`
	Status             PurchaseStatus `json:"status" gorm:"type:varchar(20);default:'pending';not null"`
	IssueOrder         *string        `json:"issue_order" gorm:"size:225"`
	QualityRating      *float64       `json:"quality_rating"`
	IssueDate          *time.Time     `json:"issue_date"`
	AcknowledgmentDate *time.Time     `json:"acknowledgment_date"`
	CompletedDate      *time.Time     `json:"completed_date"`

	// Relationships
	Vendor *Vendor `json:"fk_vendor,omitempty" gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE"`
}

func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

func (po *PurchaseOrder) IsCompleted() bool {
	return po.Status == PurchaseStatusCompleted
}
