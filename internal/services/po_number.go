// internal/services/po_number.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/vms-backend/internal/config"
	"github.com/javajoker/vms-backend/internal/models"
)

const poNumberPrefix = "PO-"

// FormatPONumber renders PO-YYYYMM-NNNNN for t (already in the PO timezone).
func FormatPONumber(t time.Time, seq int) string {
	return fmt.Sprintf("%s%s-%05d", poNumberPrefix, t.Format("200601"), seq)
}

func monthPrefix(t time.Time) string {
	return poNumberPrefix + t.Format("200601") + "-"
}

// PONumberGenerator allocates sequential purchase order numbers per calendar
// month. The unique index on po_number is the final arbiter; callers retry on
// a duplicate key.
type PONumberGenerator struct {
	loc *time.Location
	now func() time.Time
}

func NewPONumberGenerator(cfg *config.Config) *PONumberGenerator {
	loc, err := time.LoadLocation(cfg.Performance.PONumberTimezone)
	if err != nil {
		logrus.WithError(err).WithField("timezone", cfg.Performance.PONumberTimezone).
			Warn("Unknown PO number timezone, using UTC+07:00")
		loc = time.FixedZone("UTC+7", 7*60*60)
	}
	return &PONumberGenerator{loc: loc, now: time.Now}
}

// SetClock replaces the time source.
func (g *PONumberGenerator) SetClock(now func() time.Time) {
	g.now = now
}

func (g *PONumberGenerator) Location() *time.Location {
	return g.loc
}

// Next returns the next free number for the current month, and the instant
// it was computed for. It must run inside the creating transaction.
func (g *PONumberGenerator) Next(ctx context.Context, tx *gorm.DB) (string, time.Time, error) {
	now := g.now().In(g.loc)
	prefix := monthPrefix(now)

	// the sequence is compared as a number so it keeps growing past 99999
	var maxSeq int64
	err := tx.WithContext(ctx).
		Model(&models.PurchaseOrder{}).
		Select(fmt.Sprintf("COALESCE(MAX(CAST(SUBSTR(po_number, %d) AS INTEGER)), 0)", len(prefix)+1)).
		Where("po_number LIKE ?", prefix+"%").
		Scan(&maxSeq).Error
	if err != nil {
		return "", now, fmt.Errorf("failed to read latest po number: %w", err)
	}

	return FormatPONumber(now, int(maxSeq)+1), now, nil
}
