// internal/handlers/vendor.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/vms-backend/internal/i18n"
	"github.com/javajoker/vms-backend/internal/services"
	"github.com/javajoker/vms-backend/internal/utils"
)

type VendorHandler struct {
	vendorService *services.VendorService
	reportService *services.ReportService
}

func NewVendorHandler(vendorService *services.VendorService, reportService *services.ReportService) *VendorHandler {
	return &VendorHandler{
		vendorService: vendorService,
		reportService: reportService,
	}
}

func (h *VendorHandler) vendorID(c *gin.Context) (uint, bool) {
	return pathID(c, "vendor_id", i18n.KeyVendorNotFound)
}

// GET /v1/api/vendors/
func (h *VendorHandler) ListVendors(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	vendors, total, err := h.vendorService.ListVendors(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(vendors, total, params))
}

// POST /v1/api/vendors/
func (h *VendorHandler) CreateVendor(c *gin.Context) {
	var req services.CreateVendorRequest
	if !bindJSON(c, &req) {
		return
	}

	vendor, err := h.vendorService.CreateVendor(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, vendor, i18n.KeyVendorCreated)
}

// GET /v1/api/vendors/:vendor_id
func (h *VendorHandler) GetVendor(c *gin.Context) {
	id, ok := h.vendorID(c)
	if !ok {
		return
	}

	vendor, err := h.vendorService.GetVendor(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, vendor)
}

// PUT /v1/api/vendors/:vendor_id
func (h *VendorHandler) UpdateVendor(c *gin.Context) {
	id, ok := h.vendorID(c)
	if !ok {
		return
	}

	var req services.UpdateVendorRequest
	if !bindJSON(c, &req) {
		return
	}

	vendor, err := h.vendorService.UpdateVendor(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.MessageResponse(c, http.StatusOK, vendor, i18n.KeyVendorUpdated)
}

// DELETE /v1/api/vendors/:vendor_id
func (h *VendorHandler) DeleteVendor(c *gin.Context) {
	id, ok := h.vendorID(c)
	if !ok {
		return
	}

	if err := h.vendorService.DeleteVendor(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// GET /v1/api/vendors/:vendor_id/performance
func (h *VendorHandler) GetPerformance(c *gin.Context) {
	id, ok := h.vendorID(c)
	if !ok {
		return
	}

	perf, err := h.vendorService.GetPerformance(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, perf)
}

// GET /v1/api/vendors/:vendor_id/history
func (h *VendorHandler) GetHistory(c *gin.Context) {
	id, ok := h.vendorID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	history, total, err := h.vendorService.ListHistory(c.Request.Context(), id, params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(history, total, params))
}

// POST /v1/api/vendors/:vendor_id/performance/export
func (h *VendorHandler) ExportPerformance(c *gin.Context) {
	id, ok := h.vendorID(c)
	if !ok {
		return
	}

	result, err := h.reportService.ExportPerformance(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, result, i18n.KeyReportExported)
}
