package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/services"
	"github.com/cabinetlib/practice_mgmt_app/internal/core/services"
	"github.com/cabinetlib/practice_mgmt_app/internal/dto"
	"github.com/cabinetlib/practice_mgmt_app/internal/middleware"
	"github.com/cabinetlib/practice_mgmt_app/internal/utils/export"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// reportingHandler exposes the aging and KPI aggregations, as JSON or as
// CSV/XLSX downloads via ?format=.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers the reporting routes.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/wip-aging", h.wipAging)
		reports.GET("/invoice-aging", h.invoiceAging)
		reports.GET("/kpi", h.revenueKPI)
	}
}

// sendTable renders the table in the requested format. An empty format means
// the caller wants JSON and the table is not used.
func sendTable(c *gin.Context, table export.Table, baseName string) bool {
	switch c.Query("format") {
	case "":
		return false
	case "csv":
		var buf bytes.Buffer
		if err := export.WriteCSV(&buf, table, ';'); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render CSV"})
			return true
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", baseName))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
		return true
	case "xlsx":
		var buf bytes.Buffer
		if err := export.WriteXLSX(&buf, table); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render XLSX"})
			return true
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", baseName))
		c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
		return true
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown format, expected csv or xlsx"})
		return true
	}
}

// wipAging godoc
// @Summary WIP aging report
// @Description Buckets unbilled billable minutes by age, grouped along the selected dimensions
// @Tags reports
// @Produce json
// @Param byCollaborator query bool false "Group by collaborator"
// @Param byClient query bool false "Group by client"
// @Param byMatter query bool false "Group by matter"
// @Param format query string false "csv or xlsx for a download"
// @Success 200 {object} dto.WIPAgingResponse
// @Failure 400 {object} map[string]string "No grouping dimension selected"
// @Security BearerAuth
// @Router /reports/wip-aging [get]
func (h *reportingHandler) wipAging(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.WIPAgingRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	asOf := time.Now().UTC()
	rows, err := h.reportingService.WIPAging(c.Request.Context(), req.Dimensions(), asOf)
	if err != nil {
		if errors.Is(err, services.ErrNoDimension) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to compute WIP aging", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute WIP aging"})
		return
	}

	if sendTable(c, export.WIPAgingTable(rows), "wip-aging") {
		return
	}
	c.JSON(http.StatusOK, dto.WIPAgingResponse{AsOf: asOf, Rows: rows})
}

// invoiceAging godoc
// @Summary Unpaid invoice aging report
// @Tags reports
// @Produce json
// @Param format query string false "csv or xlsx for a download"
// @Success 200 {object} dto.InvoiceAgingResponse
// @Security BearerAuth
// @Router /reports/invoice-aging [get]
func (h *reportingHandler) invoiceAging(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOf := time.Now().UTC()
	report, err := h.reportingService.UnpaidInvoiceAging(c.Request.Context(), asOf)
	if err != nil {
		logger.Error("Failed to compute invoice aging", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute invoice aging"})
		return
	}

	if sendTable(c, export.InvoiceAgingTable(*report), "invoice-aging") {
		return
	}
	c.JSON(http.StatusOK, dto.InvoiceAgingResponse{AsOf: asOf, Report: *report})
}

// revenueKPI godoc
// @Summary Revenue KPI cross-tab
// @Description Billable, invoiced and collected revenue over a date range, grouped along the selected dimensions
// @Tags reports
// @Produce json
// @Param from query string true "Range start (YYYY-MM-DD)"
// @Param to query string true "Range end (YYYY-MM-DD)"
// @Param byCollaborator query bool false "Group by collaborator"
// @Param byClient query bool false "Group by client"
// @Param byMatter query bool false "Group by matter"
// @Param format query string false "csv or xlsx for a download"
// @Success 200 {object} dto.KPIResponse
// @Failure 400 {object} map[string]string "Missing range or no grouping dimension"
// @Security BearerAuth
// @Router /reports/kpi [get]
func (h *reportingHandler) revenueKPI(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.KPIRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	rows, err := h.reportingService.RevenueKPI(c.Request.Context(), req.Dimensions(), req.From, req.To)
	if err != nil {
		if errors.Is(err, services.ErrNoDimension) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to compute revenue KPI", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute revenue KPI"})
		return
	}

	if sendTable(c, export.KPITable(rows), "revenue-kpi") {
		return
	}
	c.JSON(http.StatusOK, dto.KPIResponse{From: req.From, To: req.To, Rows: rows})
}
