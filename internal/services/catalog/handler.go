package catalog

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hannas-kitchen/internal/logger"
)

// Handler serves the /api/items routes
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new catalog handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// Register mounts the catalog routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/items", h.CreateItem)
	r.GET("/items", h.ListItems)
}

// CreateItem handles POST /api/items. Every failure is reported as a 500 with
// a fixed message.
func (h *Handler) CreateItem(c *gin.Context) {
	requestID := requestIDFrom(c)

	var in CreateItemInput
	if err := c.ShouldBind(&in.ItemForm); err != nil {
		h.logger.Error("validation_failed", "Failed to parse item form", requestID, err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item"})
		return
	}
	if fh, err := c.FormFile("image"); err == nil {
		in.Image = fh
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	if _, err := h.service.CreateItem(ctx, in, requestID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Item added!"})
}

// ListItems handles GET /api/items
func (h *Handler) ListItems(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	items, err := h.service.ListItems(ctx, requestIDFrom(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch items"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func requestIDFrom(c *gin.Context) string {
	if id := c.GetString(logger.RequestIDKey); id != "" {
		return id
	}
	return logger.GenerateRequestID()
}
