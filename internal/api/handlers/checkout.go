package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/checkout"
)

type QuickBuyRequest struct {
	CartItemRequest
	Description string `json:"description"`
}

// HandleCheckoutInfo handles GET /v1/checkout/info?address_id=
func HandleCheckoutInfo(svc *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, ok := sessionID(c)
		if !ok {
			return
		}

		var addressID int64
		if raw := c.Query("address_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address ID"})
				return
			}
			addressID = id
		}

		info, err := svc.Checkout.GetCheckoutInfo(c.Request.Context(), sid, addressID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, info)
	}
}

// HandleQuickBuy handles POST /v1/checkout/quick-buy
func HandleQuickBuy(svc *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, ok := sessionID(c)
		if !ok {
			return
		}
		var req QuickBuyRequest
		if !bindJSON(c, &req) {
			return
		}

		item, err := resolveItem(c, svc, req.CartItemRequest)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		result, err := svc.Checkout.QuickBuy(c.Request.Context(), sid, checkout.QuickBuyRequest{
			Item:        item,
			Description: req.Description,
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// HandleCheckout handles POST /v1/checkout
func HandleCheckout(svc *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, ok := sessionID(c)
		if !ok {
			return
		}
		var req checkout.CartCheckoutRequest
		if !bindJSON(c, &req) {
			return
		}

		result, err := svc.Checkout.Checkout(c.Request.Context(), sid, req)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
