package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/variant"
)

// CartItemRequest picks a product variety and quantity
type CartItemRequest struct {
	Slug      string            `json:"slug" binding:"required"`
	Selection variant.Selection `json:"selection"`
	Quantity  int               `json:"quantity"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// resolveItem turns a product choice into a cart line, checking stock
func resolveItem(c *gin.Context, svc *Services, req CartItemRequest) (domain.CartItem, error) {
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	product, err := svc.Backend.Product(c.Request.Context(), req.Slug)
	if err != nil {
		return domain.CartItem{}, err
	}
	v, err := variant.Resolve(product.Varieties, req.Selection)
	if err != nil {
		return domain.CartItem{}, err
	}
	if err := variant.CheckStock(v, req.Quantity); err != nil {
		return domain.CartItem{}, err
	}
	return variant.CartItem(*product, v, req.Quantity), nil
}

// HandleGetCart handles GET /v1/cart
func HandleGetCart(svc *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, ok := sessionID(c)
		if !ok {
			return
		}
		cart, err := svc.Carts.Load(c.Request.Context(), sid)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, cart.Summary())
	}
}

// HandleAddCartItem handles POST /v1/cart/items. The line is kept only if
// the backend cart accepts it.
func HandleAddCartItem(svc *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, ok := sessionID(c)
		if !ok {
			return
		}
		var req CartItemRequest
		if !bindJSON(c, &req) {
			return
		}

		item, err := resolveItem(c, svc, req)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		summary, err := svc.Checkout.AddItem(c.Request.Context(), sid, item)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

// HandleUpdateCartItem handles PATCH /v1/cart/items/:id
func HandleUpdateCartItem(svc *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, ok := sessionID(c)
		if !ok {
			return
		}
		var req UpdateQuantityRequest
		if !bindJSON(c, &req) {
			return
		}

		summary, err := svc.Carts.UpdateQuantity(c.Request.Context(), sid, c.Param("id"), req.Quantity)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

// HandleRemoveCartItem handles DELETE /v1/cart/items/:id
func HandleRemoveCartItem(svc *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, ok := sessionID(c)
		if !ok {
			return
		}
		summary, err := svc.Carts.Remove(c.Request.Context(), sid, c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}
