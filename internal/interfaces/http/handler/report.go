package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	reportapp "github.com/outsiders/backend/internal/application/report"
)

// ReportHandler handles sales reporting endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.Service
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.Service) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// SalesSummary returns count, revenue and discount over a period
func (h *ReportHandler) SalesSummary(c *gin.Context) {
	var filter reportapp.PeriodFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	summary, err := h.reportService.SalesSummary(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// DailySummary returns the summary for a single day, defaulting to today
func (h *ReportHandler) DailySummary(c *gin.Context) {
	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
		day = parsed
	}

	var branchID *uuid.UUID
	if raw := c.Query("branchId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid branchId")
			return
		}
		branchID = &parsed
	}

	summary, err := h.reportService.DailySummary(c.Request.Context(), branchID, day)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// TopProducts returns the best selling variants over a period
func (h *ReportHandler) TopProducts(c *gin.Context) {
	var filter reportapp.TopProductsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	ranks, err := h.reportService.TopProducts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ranks)
}

// PaymentBreakdown returns revenue per payment method over a period
func (h *ReportHandler) PaymentBreakdown(c *gin.Context) {
	var filter reportapp.PeriodFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	breakdown, err := h.reportService.PaymentBreakdown(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, breakdown)
}
