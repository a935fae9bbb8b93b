// internal/interfaces/http/handlers/order.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oxaDeveloper/e-commerce-task/internal/domain/order"
	"github.com/oxaDeveloper/e-commerce-task/internal/pkg/pdf"
	"github.com/oxaDeveloper/e-commerce-task/internal/session"
)

// OrderHandler handles order endpoints
type OrderHandler struct {
	session *session.Session
	pdf     *pdf.Service
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(sess *session.Session, pdfService *pdf.Service) *OrderHandler {
	return &OrderHandler{
		session: sess,
		pdf:     pdfService,
	}
}

// UpdateStatusRequest is the status edit payload
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CheckoutRequest is the checkout payload
type CheckoutRequest struct {
	CustomerName string `json:"customerName"`
}

// GetOrders handles GET /orders
func (h *OrderHandler) GetOrders(c *gin.Context) {
	state, err := h.session.FetchAllOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    state,
	})
}

// GetMyOrders handles GET /orders/mine
func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	state, err := h.session.FetchMyOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    state,
	})
}

// UpdateStatus handles PUT /orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	next := order.Status(req.Status)
	if !next.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Unknown order status %q", req.Status),
		})
		return
	}

	updated, err := h.session.UpdateOrderStatus(c.Request.Context(), c.Param("id"), next)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"data":    updated,
	})
}

// Checkout handles POST /checkout
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	placed, err := h.session.Checkout(c.Request.Context(), req.CustomerName)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data":    placed,
	})
}

// GetReceipt handles GET /orders/:id/receipt
func (h *OrderHandler) GetReceipt(c *gin.Context) {
	id := c.Param("id")

	o, ok := h.session.OrderByID(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Order not found",
		})
		return
	}

	buf, err := h.pdf.GenerateReceipt(o)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate receipt",
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", id))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
