// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oxaDeveloper/e-commerce-task/internal/domain/cart"
	"github.com/oxaDeveloper/e-commerce-task/internal/session"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	session *session.Session
}

// NewCartHandler creates a new cart handler
func NewCartHandler(sess *session.Session) *CartHandler {
	return &CartHandler{session: sess}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    h.session.Cart(),
	})
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req cart.AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	state, err := h.session.AddToCart(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart",
		"data":    state,
	})
}

// UpdateItem handles PUT /cart/items/:productId
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req cart.QuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	state, err := h.session.SetCartQuantity(c.Request.Context(), c.Param("productId"), req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated",
		"data":    state,
	})
}

// RemoveItem handles DELETE /cart/items/:productId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	state, err := h.session.RemoveFromCart(c.Request.Context(), c.Param("productId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart",
		"data":    state,
	})
}

// Clear handles DELETE /cart
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.session.ClearCart(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared",
		"data":    h.session.Cart(),
	})
}
