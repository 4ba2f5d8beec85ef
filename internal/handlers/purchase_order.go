// internal/handlers/purchase_order.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/vms-backend/internal/i18n"
	"github.com/javajoker/vms-backend/internal/models"
	"github.com/javajoker/vms-backend/internal/services"
	"github.com/javajoker/vms-backend/internal/utils"
)

type PurchaseOrderHandler struct {
	poService *services.PurchaseOrderService
}

func NewPurchaseOrderHandler(poService *services.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		poService: poService,
	}
}

func (h *PurchaseOrderHandler) poID(c *gin.Context) (uint, bool) {
	return pathID(c, "po_id", i18n.KeyPONotFound)
}

// GET /v1/api/purchase_orders/
func (h *PurchaseOrderHandler) ListPurchaseOrders(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	params := utils.GetPaginationParams(c)

	var filter services.PurchaseOrderFilter
	if raw := c.Query("vendor_id"); raw != "" {
		vendorID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "vendor_id"), nil)
			return
		}
		filter.VendorID = uint(vendorID)
	}
	if raw := c.Query("status"); raw != "" {
		status := models.PurchaseStatus(raw)
		if !status.IsValid() {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "status"), nil)
			return
		}
		filter.Status = status
	}

	orders, total, err := h.poService.ListPurchaseOrders(c.Request.Context(), filter, params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(services.NewPurchaseOrderViews(orders), total, params))
}

// POST /v1/api/purchase_orders/
func (h *PurchaseOrderHandler) CreatePurchaseOrder(c *gin.Context) {
	var req services.CreatePurchaseOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	po, err := h.poService.CreatePurchaseOrder(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, services.NewPurchaseOrderView(po), i18n.KeyPOCreated)
}

// GET /v1/api/purchase_orders/:po_id
func (h *PurchaseOrderHandler) GetPurchaseOrder(c *gin.Context) {
	id, ok := h.poID(c)
	if !ok {
		return
	}

	po, err := h.poService.GetPurchaseOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, services.NewPurchaseOrderView(po))
}

// PUT /v1/api/purchase_orders/:po_id
func (h *PurchaseOrderHandler) UpdatePurchaseOrder(c *gin.Context) {
	id, ok := h.poID(c)
	if !ok {
		return
	}

	var req services.UpdatePurchaseOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	po, err := h.poService.UpdatePurchaseOrder(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.MessageResponse(c, http.StatusOK, services.NewPurchaseOrderView(po), i18n.KeyPOUpdated)
}

// DELETE /v1/api/purchase_orders/:po_id
func (h *PurchaseOrderHandler) DeletePurchaseOrder(c *gin.Context) {
	id, ok := h.poID(c)
	if !ok {
		return
	}

	if err := h.poService.DeletePurchaseOrder(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// POST /v1/api/purchase_orders/:po_id/status
func (h *PurchaseOrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.poID(c)
	if !ok {
		return
	}

	var req services.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	po, err := h.poService.UpdateStatus(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.MessageResponse(c, http.StatusOK, services.NewPurchaseOrderView(po), i18n.KeyPOStatusUpdated)
}

// POST /v1/api/purchase_orders/:po_id/rating
func (h *PurchaseOrderHandler) UpdateRating(c *gin.Context) {
	id, ok := h.poID(c)
	if !ok {
		return
	}

	var req services.UpdateRatingRequest
	if !bindJSON(c, &req) {
		return
	}

	po, err := h.poService.UpdateRating(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.MessageResponse(c, http.StatusOK, services.NewPurchaseOrderView(po), i18n.KeyPORatingUpdated)
}

// POST /v1/api/purchase_orders/:po_id/acknowledge
// The body is optional; without acknowledgment_date the server time is used.
func (h *PurchaseOrderHandler) Acknowledge(c *gin.Context) {
	id, ok := h.poID(c)
	if !ok {
		return
	}

	var req services.AcknowledgeRequest
	if c.Request.ContentLength != 0 {
		if !bindJSON(c, &req) {
			return
		}
	}

	po, err := h.poService.Acknowledge(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.MessageResponse(c, http.StatusOK, services.NewPurchaseOrderView(po), i18n.KeyPOAckUpdated)
}
