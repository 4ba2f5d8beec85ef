// internal/services/purchase_order_service_test.go
package services

import (
	"context"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/javajoker/vms-backend/internal/config"
	"github.com/javajoker/vms-backend/internal/metrics"
	"github.com/javajoker/vms-backend/internal/models"
	"github.com/javajoker/vms-backend/internal/testutil"
	"github.com/javajoker/vms-backend/internal/utils"
)

type PurchaseOrderServiceTestSuite struct {
	suite.Suite
	cfg     *config.Config
	db      *gorm.DB
	vendor  *models.Vendor
	service *PurchaseOrderService
	events  []RecalculationEvent
	now     time.Time
	ctx     context.Context
}

func (s *PurchaseOrderServiceTestSuite) SetupTest() {
	s.cfg = testutil.TestConfig(s.T())
	s.db = testutil.SetupTestDB(s.T(), s.cfg)
	s.vendor = testutil.SeedVendor(s.T(), s.db, "V-100")
	s.events = nil
	s.now = time.Date(2024, 6, 10, 3, 0, 0, 0, time.UTC)
	s.ctx = context.Background()

	dispatcher := NewDispatcher(NewPerformanceService(s.cfg), ListenerFunc(func(_ context.Context, events []RecalculationEvent) {
		s.events = append(s.events, events...)
	}))
	numbers := NewPONumberGenerator(s.cfg)
	numbers.SetClock(func() time.Time { return s.now })

	s.service = NewPurchaseOrderService(s.db, s.cfg, dispatcher, numbers)
	s.service.SetClock(func() time.Time { return s.now })
}

func (s *PurchaseOrderServiceTestSuite) create(req *CreatePurchaseOrderRequest) *models.PurchaseOrder {
	if req.VendorID == 0 {
		req.VendorID = s.vendor.ID
	}
	if req.Items == nil {
		req.Items = []byte(`[{"sku":"A-1","qty":2}]`)
	}
	po, err := s.service.CreatePurchaseOrder(s.ctx, req)
	s.Require().NoError(err)
	return po
}

func (s *PurchaseOrderServiceTestSuite) reloadVendor() models.Vendor {
	var v models.Vendor
	s.Require().NoError(s.db.First(&v, s.vendor.ID).Error)
	return v
}

func (s *PurchaseOrderServiceTestSuite) TestCreateAssignsSequentialNumbers() {
	first := s.create(&CreatePurchaseOrderRequest{Quantity: 2})
	second := s.create(&CreatePurchaseOrderRequest{Quantity: 3})

	s.Equal("PO-202406-00001", first.PONumber)
	s.Equal("PO-202406-00002", second.PONumber)
	s.Equal(models.PurchaseStatusPending, first.Status)
	s.Require().NotNil(first.Vendor)
	s.Equal(s.vendor.ID, first.Vendor.ID)
}

func (s *PurchaseOrderServiceTestSuite) TestNumbersStayUniqueAfterDelete() {
	first := s.create(&CreatePurchaseOrderRequest{})
	s.create(&CreatePurchaseOrderRequest{})
	s.Require().NoError(s.service.DeletePurchaseOrder(s.ctx, first.ID))

	// a count based sequence would hand out 00002 again
	third := s.create(&CreatePurchaseOrderRequest{})
	s.Equal("PO-202406-00003", third.PONumber)
}

func (s *PurchaseOrderServiceTestSuite) TestNumberingRestartsEachMonth() {
	s.create(&CreatePurchaseOrderRequest{})
	s.now = s.now.AddDate(0, 1, 0)

	next := s.create(&CreatePurchaseOrderRequest{})
	s.Equal("PO-202407-00001", next.PONumber)
}

func (s *PurchaseOrderServiceTestSuite) TestCreateRejectsUnknownVendor() {
	_, err := s.service.CreatePurchaseOrder(s.ctx, &CreatePurchaseOrderRequest{
		VendorID: 9999,
		Items:    []byte(`[]`),
	})
	s.Require().Error(err)
	s.Equal(KindValidation, KindOf(err))
}

func (s *PurchaseOrderServiceTestSuite) TestCompletingOrderRecalculatesOnTimeAndFulfillment() {
	delivery := s.now.Add(48 * time.Hour)
	po := s.create(&CreatePurchaseOrderRequest{DeliveryDate: &delivery})

	updated, err := s.service.UpdateStatus(s.ctx, po.ID, &UpdateStatusRequest{Status: "completed"})
	s.Require().NoError(err)
	s.Require().NotNil(updated.CompletedDate)
	s.True(updated.CompletedDate.Equal(s.now))

	v := s.reloadVendor()
	s.InDelta(100, v.OnTimeDeliveryRate, 1e-9)
	s.InDelta(100, v.FulfillmentRate, 1e-9)

	s.Require().Len(s.events, 2)
	s.Equal(models.MetricOnTimeDeliveryRate, s.events[0].Metric)
	s.Equal(models.MetricFulfillmentRate, s.events[1].Metric)

	var history []models.HistoricalPerformance
	s.Require().NoError(s.db.Where("vendor_id = ?", s.vendor.ID).Order("id ASC").Find(&history).Error)
	s.Require().Len(history, 2)
	s.InDelta(100, history[0].OnTimeDeliveryRate, 1e-9)
	s.Zero(history[0].FulfillmentRate)
	s.InDelta(100, history[1].FulfillmentRate, 1e-9)
	s.Zero(history[1].OnTimeDeliveryRate)
}

func (s *PurchaseOrderServiceTestSuite) TestCompletedWithIssueIsNotFulfilled() {
	delivery := s.now.Add(time.Hour)
	issue := "two boxes damaged"
	po := s.create(&CreatePurchaseOrderRequest{DeliveryDate: &delivery, IssueOrder: &issue})

	_, err := s.service.UpdateStatus(s.ctx, po.ID, &UpdateStatusRequest{Status: "completed"})
	s.Require().NoError(err)

	v := s.reloadVendor()
	s.InDelta(100, v.OnTimeDeliveryRate, 1e-9)
	s.Zero(v.FulfillmentRate)
}

func (s *PurchaseOrderServiceTestSuite) TestNonCompletingStatusDoesNotRecalculate() {
	po := s.create(&CreatePurchaseOrderRequest{})

	updated, err := s.service.UpdateStatus(s.ctx, po.ID, &UpdateStatusRequest{Status: "canceled"})
	s.Require().NoError(err)
	s.Equal(models.PurchaseStatusCanceled, updated.Status)
	s.Nil(updated.CompletedDate)
	s.Empty(s.events)
}

func (s *PurchaseOrderServiceTestSuite) TestRatingRequiresCompletedOrder() {
	po := s.create(&CreatePurchaseOrderRequest{})

	_, err := s.service.UpdateRating(s.ctx, po.ID, &UpdateRatingRequest{QualityRating: ptrFloat(70)})
	s.Require().Error(err)
	s.ErrorIs(err, ErrRatingNotAllowed)

	v := s.reloadVendor()
	s.Zero(v.QualityRatingAvg)

	var reloaded models.PurchaseOrder
	s.Require().NoError(s.db.First(&reloaded, po.ID).Error)
	s.Nil(reloaded.QualityRating)
}

func (s *PurchaseOrderServiceTestSuite) TestRatingUpdatesAverage() {
	po := s.create(&CreatePurchaseOrderRequest{})
	_, err := s.service.UpdateStatus(s.ctx, po.ID, &UpdateStatusRequest{Status: "completed"})
	s.Require().NoError(err)

	_, err = s.service.UpdateRating(s.ctx, po.ID, &UpdateRatingRequest{QualityRating: ptrFloat(70)})
	s.Require().NoError(err)

	s.InDelta(70, s.reloadVendor().QualityRatingAvg, 1e-9)
}

func (s *PurchaseOrderServiceTestSuite) TestAcknowledgeRequiresIssueDate() {
	po := s.create(&CreatePurchaseOrderRequest{})

	_, err := s.service.Acknowledge(s.ctx, po.ID, &AcknowledgeRequest{})
	s.Require().Error(err)
	s.ErrorIs(err, ErrOrderNotIssued)
}

func (s *PurchaseOrderServiceTestSuite) TestAcknowledgeComputesResponseTime() {
	issued := s.now.Add(-24 * time.Hour)
	po := s.create(&CreatePurchaseOrderRequest{IssueDate: &issued})

	// defaults to the server clock, 24h after issue
	updated, err := s.service.Acknowledge(s.ctx, po.ID, &AcknowledgeRequest{})
	s.Require().NoError(err)
	s.Require().NotNil(updated.AcknowledgmentDate)

	s.InDelta(24, s.reloadVendor().AverageResponseTime, 1e-6)
}

func (s *PurchaseOrderServiceTestSuite) TestPlainUpdateNeverRecalculates() {
	po := s.create(&CreatePurchaseOrderRequest{})
	_, err := s.service.UpdateStatus(s.ctx, po.ID, &UpdateStatusRequest{Status: "completed"})
	s.Require().NoError(err)
	s.events = nil

	issue := "late paperwork"
	qty := 9
	updated, err := s.service.UpdatePurchaseOrder(s.ctx, po.ID, &UpdatePurchaseOrderRequest{
		IssueOrder: &issue,
		Quantity:   &qty,
	})
	s.Require().NoError(err)
	s.Equal(9, updated.Quantity)
	s.Require().NotNil(updated.IssueOrder)
	s.Equal(issue, *updated.IssueOrder)
	s.Empty(s.events)
	// fulfillment keeps the value computed at completion
	s.InDelta(100, s.reloadVendor().FulfillmentRate, 1e-9)

	empty := ""
	updated, err = s.service.UpdatePurchaseOrder(s.ctx, po.ID, &UpdatePurchaseOrderRequest{IssueOrder: &empty})
	s.Require().NoError(err)
	s.Nil(updated.IssueOrder)
}

func (s *PurchaseOrderServiceTestSuite) TestListFilters() {
	other := testutil.SeedVendor(s.T(), s.db, "V-200")
	a := s.create(&CreatePurchaseOrderRequest{})
	s.create(&CreatePurchaseOrderRequest{VendorID: other.ID})
	_, err := s.service.UpdateStatus(s.ctx, a.ID, &UpdateStatusRequest{Status: "completed"})
	s.Require().NoError(err)

	orders, total, err := s.service.ListPurchaseOrders(s.ctx, PurchaseOrderFilter{VendorID: other.ID}, utils.PaginationParams{})
	s.Require().NoError(err)
	s.EqualValues(1, total)
	s.Require().Len(orders, 1)
	s.Equal(other.ID, orders[0].VendorID)

	orders, total, err = s.service.ListPurchaseOrders(s.ctx, PurchaseOrderFilter{Status: models.PurchaseStatusCompleted}, utils.PaginationParams{})
	s.Require().NoError(err)
	s.EqualValues(1, total)
	s.Equal(a.ID, orders[0].ID)

	orders, total, err = s.service.ListPurchaseOrders(s.ctx, PurchaseOrderFilter{}, utils.PaginationParams{})
	s.Require().NoError(err)
	s.EqualValues(2, total)
	// newest first
	s.Greater(orders[0].ID, orders[1].ID)
}

func (s *PurchaseOrderServiceTestSuite) TestMissingOrder() {
	_, err := s.service.GetPurchaseOrder(s.ctx, 4242)
	s.ErrorIs(err, ErrPurchaseOrderNotFound)
	s.Equal(KindNotFound, KindOf(err))

	s.ErrorIs(s.service.DeletePurchaseOrder(s.ctx, 4242), ErrPurchaseOrderNotFound)
}

// collidingNumbers answers with an already used number a fixed number of
// times (forever when collisions is negative), then defers to next.
type collidingNumbers struct {
	taken      string
	at         time.Time
	collisions int
	next       PONumberSource
	calls      int
}

func (n *collidingNumbers) Next(ctx context.Context, tx *gorm.DB) (string, time.Time, error) {
	n.calls++
	if n.collisions != 0 {
		if n.collisions > 0 {
			n.collisions--
		}
		return n.taken, n.at, nil
	}
	return n.next.Next(ctx, tx)
}

func retryCount(t require.TestingT) float64 {
	var m dto.Metric
	require.NoError(t, metrics.PONumberRetryCounter.Write(&m))
	return m.GetCounter().GetValue()
}

func (s *PurchaseOrderServiceTestSuite) TestCreateRetriesAfterNumberCollision() {
	existing := s.create(&CreatePurchaseOrderRequest{})
	numbers := &collidingNumbers{taken: existing.PONumber, at: s.now, collisions: 1, next: s.service.numbers}
	s.service.numbers = numbers
	before := retryCount(s.T())

	po := s.create(&CreatePurchaseOrderRequest{})

	s.Equal("PO-202406-00002", po.PONumber)
	s.Equal(2, numbers.calls)
	s.Equal(1.0, retryCount(s.T())-before)
}

func (s *PurchaseOrderServiceTestSuite) TestCreateConflictsWhenNumbersKeepColliding() {
	existing := s.create(&CreatePurchaseOrderRequest{})
	numbers := &collidingNumbers{taken: existing.PONumber, at: s.now, collisions: -1}
	s.service.numbers = numbers
	before := retryCount(s.T())

	_, err := s.service.CreatePurchaseOrder(s.ctx, &CreatePurchaseOrderRequest{
		VendorID: s.vendor.ID,
		Items:    []byte(`[{"sku":"A-1","qty":1}]`),
	})

	s.Require().Error(err)
	s.Equal(KindConflict, KindOf(err))
	attempts := s.cfg.Performance.PONumberMaxAttempts
	s.Equal(attempts, numbers.calls)
	s.Equal(float64(attempts), retryCount(s.T())-before)

	var count int64
	s.Require().NoError(s.db.Model(&models.PurchaseOrder{}).Count(&count).Error)
	s.EqualValues(1, count)
}

func TestPurchaseOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(PurchaseOrderServiceTestSuite))
}

func TestKindOfUnclassifiedError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(assert.AnError))
	require.Equal(t, "not_found", KindNotFound.String())
}
