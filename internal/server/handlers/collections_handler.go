package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/collection-desk/internal/domain/models"
	"github.com/mamadbah2/collection-desk/internal/service/collections"
	"github.com/mamadbah2/collection-desk/pkg/response"
)

// UserHeader carries the owning user reference. It is trusted as-is.
const UserHeader = "X-User-ID"

// CollectionService is the record lifecycle used by CollectionHandler.
type CollectionService interface {
	Register(ctx context.Context, userID string, in collections.RecordInput) (*models.CollectionRecord, error)
	Get(ctx context.Context, id string) (*models.CollectionRecord, error)
	List(ctx context.Context, filter models.RecordFilter) ([]models.CollectionRecord, error)
	Update(ctx context.Context, id string, in collections.RecordInput) (*models.CollectionRecord, error)
	SetStatus(ctx context.Context, id string, status models.Status) (*models.CollectionRecord, error)
	ToggleStatus(ctx context.Context, id string) (*models.CollectionRecord, error)
	Delete(ctx context.Context, id string) error
}

// CollectionHandler exposes collection records over HTTP.
type CollectionHandler struct {
	svc    CollectionService
	logger *zap.Logger
}

// NewCollectionHandler constructs the HTTP handler adapter.
func NewCollectionHandler(svc CollectionService, logger *zap.Logger) *CollectionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CollectionHandler{svc: svc, logger: logger}
}

// RegisterRoutes mounts the collection endpoints on rg.
func (h *CollectionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/markets", h.Markets)

	g := rg.Group("/collections")
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.PATCH("/:id/status", h.UpdateStatus)
	g.DELETE("/:id", h.Delete)
}

// Markets lists the wholesale markets a record may target.
func (h *CollectionHandler) Markets(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{"markets": models.Markets, "product_types": models.ProductTypes})
}

func (h *CollectionHandler) List(c *gin.Context) {
	filter := models.RecordFilter{
		ReceptionDate: c.Query("date"),
		Status:        models.Status(c.Query("status")),
		Market:        c.Query("market"),
		ProductType:   models.ProductType(c.Query("product_type")),
	}
	if c.Query("mine") == "true" {
		filter.UserID = strings.TrimSpace(c.GetHeader(UserHeader))
		if filter.UserID == "" {
			response.Abort(c, http.StatusBadRequest, UserHeader+" header is required with mine=true")
			return
		}
	}

	records, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, "list collections", err)
		return
	}
	response.JSON(c, http.StatusOK, records)
}

func (h *CollectionHandler) Create(c *gin.Context) {
	var in collections.RecordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.Warn("invalid collection payload", zap.Error(err))
		response.Abort(c, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.svc.Register(c.Request.Context(), c.GetHeader(UserHeader), in)
	if err != nil {
		h.fail(c, "register collection", err)
		return
	}
	response.JSON(c, http.StatusCreated, record)
}

func (h *CollectionHandler) Get(c *gin.Context) {
	record, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "get collection", err)
		return
	}
	response.JSON(c, http.StatusOK, record)
}

func (h *CollectionHandler) Update(c *gin.Context) {
	var in collections.RecordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.Warn("invalid collection payload", zap.Error(err))
		response.Abort(c, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.fail(c, "update collection", err)
		return
	}
	response.JSON(c, http.StatusOK, record)
}

type statusRequest struct {
	Status models.Status `json:"status"`
}

// UpdateStatus sets the status given in the body, or toggles it when the body is empty.
func (h *CollectionHandler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Abort(c, http.StatusBadRequest, "invalid request body")
		return
	}

	var (
		record *models.CollectionRecord
		err    error
	)
	if req.Status == "" {
		record, err = h.svc.ToggleStatus(c.Request.Context(), c.Param("id"))
	} else {
		record, err = h.svc.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	}
	if err != nil {
		h.fail(c, "update collection status", err)
		return
	}
	response.JSON(c, http.StatusOK, record)
}

func (h *CollectionHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, "delete collection", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CollectionHandler) fail(c *gin.Context, action string, err error) {
	switch {
	case errors.Is(err, collections.ErrInvalidRecord):
		response.Abort(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, collections.ErrNotFound):
		response.Abort(c, http.StatusNotFound, "collection not found")
	default:
		h.logger.Error("failed to "+action, zap.Error(err))
		response.Abort(c, http.StatusInternalServerError, "internal error")
	}
}
