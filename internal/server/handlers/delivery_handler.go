package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/collection-desk/internal/domain/models"
	"github.com/mamadbah2/collection-desk/internal/repository"
	"github.com/mamadbah2/collection-desk/internal/service/delivery"
	"github.com/mamadbah2/collection-desk/pkg/response"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeZip  = "application/zip"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	nothingToExportMessage = "오늘 완료된 수거 내역이 없습니다."
)

// DeliveryService builds today's delivery notes.
type DeliveryService interface {
	Today() string
	ArchiveName() string
	TodayGroups(ctx context.Context) ([]delivery.GroupSummary, error)
	RenderOne(ctx context.Context, key delivery.GroupKey) (delivery.Document, error)
	Export(ctx context.Context, keys []delivery.GroupKey, sink delivery.Sink) (int, error)
}

// DailyReporter runs and looks up end-of-day snapshots.
type DailyReporter interface {
	RunDaily(ctx context.Context) (models.DailyShipmentReport, error)
	Report(ctx context.Context, date string) (*models.DailyShipmentReport, error)
}

// DeliveryHandler serves delivery note listings and documents.
type DeliveryHandler struct {
	svc      DeliveryService
	reporter DailyReporter
	logger   *zap.Logger
	now      func() time.Time
}

// NewDeliveryHandler constructs the HTTP handler adapter.
func NewDeliveryHandler(svc DeliveryService, reporter DailyReporter, logger *zap.Logger) *DeliveryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeliveryHandler{svc: svc, reporter: reporter, logger: logger, now: time.Now}
}

// RegisterRoutes mounts the delivery note endpoints on rg.
func (h *DeliveryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/delivery-notes")
	g.GET("", h.ListGroups)
	g.GET("/document", h.Document)
	g.POST("/export", h.Export)
	g.GET("/ledger.xlsx", h.Ledger)

	rg.GET("/reports/daily", h.GetDailyReport)
	rg.POST("/reports/daily", h.RunDailyReport)
}

type groupsResponse struct {
	Date   string                  `json:"date"`
	Groups []delivery.GroupSummary `json:"groups"`
}

// ListGroups returns today's groups with fee summaries.
func (h *DeliveryHandler) ListGroups(c *gin.Context) {
	groups, err := h.svc.TodayGroups(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list delivery groups", zap.Error(err))
		response.Abort(c, http.StatusInternalServerError, "internal error")
		return
	}
	response.JSON(c, http.StatusOK, groupsResponse{Date: h.svc.Today(), Groups: groups})
}

// Document streams one delivery note. mode=preview renders inline.
func (h *DeliveryHandler) Document(c *gin.Context) {
	key := delivery.GroupKey{Market: c.Query("market"), ProductType: c.Query("product_type")}
	if key.Market == "" || key.ProductType == "" {
		response.Abort(c, http.StatusBadRequest, "market and product_type are required")
		return
	}

	doc, err := h.svc.RenderOne(c.Request.Context(), key)
	if err != nil {
		h.exportFailed(c, err)
		return
	}

	disposition := "attachment"
	if c.Query("mode") == "preview" {
		disposition = "inline"
	}
	c.Header("Content-Disposition", contentDisposition(disposition, doc.FileName))
	if doc.Omitted > 0 {
		c.Header("X-Omitted-Records", strconv.Itoa(doc.Omitted))
	}
	c.Data(http.StatusOK, contentTypePDF, doc.Data)
}

type exportRequest struct {
	Groups []delivery.GroupKey `json:"groups"`
}

// Export renders the selected groups, or all of today's groups, into one zip archive.
func (h *DeliveryHandler) Export(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Abort(c, http.StatusBadRequest, "invalid request body")
		return
	}

	var buf bytes.Buffer
	sink := delivery.NewZipSink(&buf, h.now())
	count, err := h.svc.Export(c.Request.Context(), req.Groups, sink)
	if err == nil {
		err = sink.Close()
	}
	if err != nil {
		h.exportFailed(c, err)
		return
	}

	c.Header("Content-Disposition", contentDisposition("attachment", h.svc.ArchiveName()))
	c.Header("X-Export-Count", strconv.Itoa(count))
	c.Header("X-Export-Message", url.PathEscape(delivery.SuccessMessage(count)))
	c.Data(http.StatusOK, contentTypeZip, buf.Bytes())
}

// Ledger returns today's groups as a spreadsheet.
func (h *DeliveryHandler) Ledger(c *gin.Context) {
	groups, err := h.svc.TodayGroups(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list delivery groups", zap.Error(err))
		response.Abort(c, http.StatusInternalServerError, "internal error")
		return
	}

	today := h.svc.Today()
	data, err := delivery.BuildLedger(today, groups)
	if err != nil {
		h.logger.Error("failed to build ledger workbook", zap.Error(err))
		response.Abort(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.Header("Content-Disposition", contentDisposition("attachment", "출하대장_"+today+".xlsx"))
	c.Data(http.StatusOK, contentTypeXLSX, data)
}

// GetDailyReport returns the stored snapshot for ?date=, today by default.
func (h *DeliveryHandler) GetDailyReport(c *gin.Context) {
	report, err := h.reporter.Report(c.Request.Context(), c.Query("date"))
	if errors.Is(err, repository.ErrNotFound) {
		response.Abort(c, http.StatusNotFound, "daily report not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to load daily report", zap.Error(err))
		response.Abort(c, http.StatusInternalServerError, "internal error")
		return
	}
	response.JSON(c, http.StatusOK, report)
}

// RunDailyReport triggers the daily snapshot immediately.
func (h *DeliveryHandler) RunDailyReport(c *gin.Context) {
	report, err := h.reporter.RunDaily(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to run daily report", zap.Error(err))
		response.Abort(c, http.StatusInternalServerError, "internal error")
		return
	}
	response.JSON(c, http.StatusOK, report)
}

func (h *DeliveryHandler) exportFailed(c *gin.Context, err error) {
	if errors.Is(err, delivery.ErrNothingToExport) {
		response.Abort(c, http.StatusNotFound, nothingToExportMessage)
		return
	}
	h.logger.Error("delivery note export failed", zap.Error(err))
	response.Abort(c, http.StatusInternalServerError, delivery.FailureMessage)
}

// contentDisposition encodes non-ASCII file names per RFC 2231.
func contentDisposition(disposition, filename string) string {
	value := mime.FormatMediaType(disposition, map[string]string{"filename": filename})
	if value == "" {
		return disposition
	}
	return value
}
