package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"up2you.app/storefront/pkg/global"
	"up2you.app/storefront/pkg/models"
)

// Carts are keyed by an opaque session id chosen by the client. Adding an item
// snapshots it from the inventory; later catalog edits do not reach the cart.

func (r *Router) getCart(c *gin.Context) {
	sessionID := c.Param("sessionId")
	view := r.carts.Cart(c.Request.Context(), sessionID).View(sessionID)
	c.JSON(http.StatusOK, global.SuccessResponse(view))
}

func (r *Router) addToCart(c *gin.Context) {
	sessionID := c.Param("sessionId")

	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request body", []global.ValidationError{
			{Field: "item_id", Message: err.Error(), Code: "required"},
		}))
		return
	}

	ctx := c.Request.Context()
	item, err := r.inventory.GetItem(ctx, req.ItemID)
	if err != nil {
		r.respondError(c, "Failed to fetch item", err)
		return
	}

	accumulator := r.carts.Cart(ctx, sessionID)
	accumulator.Add(ctx, models.SnapshotOf(item), req.Quantity)
	c.JSON(http.StatusOK, global.SuccessResponse(accumulator.View(sessionID)))
}

func (r *Router) updateCartItem(c *gin.Context) {
	sessionID := c.Param("sessionId")

	var req models.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request body", []global.ValidationError{
			{Field: "quantity", Message: err.Error(), Code: "required"},
		}))
		return
	}

	ctx := c.Request.Context()
	accumulator := r.carts.Cart(ctx, sessionID)
	accumulator.UpdateQuantity(ctx, c.Param("lineId"), *req.Quantity)
	c.JSON(http.StatusOK, global.SuccessResponse(accumulator.View(sessionID)))
}

func (r *Router) removeFromCart(c *gin.Context) {
	sessionID := c.Param("sessionId")
	ctx := c.Request.Context()

	accumulator := r.carts.Cart(ctx, sessionID)
	accumulator.Remove(ctx, c.Param("lineId"))
	c.JSON(http.StatusOK, global.SuccessResponse(accumulator.View(sessionID)))
}

func (r *Router) clearCart(c *gin.Context) {
	sessionID := c.Param("sessionId")
	ctx := c.Request.Context()

	accumulator := r.carts.Cart(ctx, sessionID)
	accumulator.Clear(ctx)
	c.JSON(http.StatusOK, global.SuccessResponse(accumulator.View(sessionID)))
}
