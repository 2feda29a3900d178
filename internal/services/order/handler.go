package order

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hannas-kitchen/internal/logger"
	"hannas-kitchen/internal/models"
)

// Handler handles HTTP requests for the order service
type Handler struct {
	service *Service
	feed    http.Handler
	logger  *logger.Logger
}

// NewHandler creates a new order handler. feed serves the live order stream
// and may be nil.
func NewHandler(service *Service, feed http.Handler, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		feed:    feed,
		logger:  log,
	}
}

// Register mounts the order routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/orders", h.CreateOrder)
	r.GET("/orders", h.ListOrders)
	if h.feed != nil {
		r.GET("/orders/feed", gin.WrapH(h.feed))
	}
}

// CreateOrder handles POST /api/orders
func (h *Handler) CreateOrder(c *gin.Context) {
	requestID := requestIDFrom(c)

	h.logger.Debug("order_received", "Received order creation request", requestID, map[string]interface{}{
		"content_length": c.Request.ContentLength,
		"remote_addr":    c.Request.RemoteAddr,
	})

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("validation_failed", "Failed to parse request body", requestID, err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order."})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	if _, err := h.service.CreateOrder(ctx, &req, requestID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order."})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Order placed successfully!"})
}

// ListOrders handles GET /api/orders
func (h *Handler) ListOrders(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	orders, err := h.service.ListOrders(ctx, requestIDFrom(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

func requestIDFrom(c *gin.Context) string {
	if id := c.GetString(logger.RequestIDKey); id != "" {
		return id
	}
	return logger.GenerateRequestID()
}
