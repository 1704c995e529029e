package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
)

// HandleCreateAddress handles POST /v1/address
func HandleCreateAddress(svc *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, ok := sessionID(c)
		if !ok {
			return
		}
		var req domain.Address
		if !bindJSON(c, &req) {
			return
		}

		id, err := svc.Addresses.Submit(c.Request.Context(), sid, req)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"address_id": id})
	}
}

// HandleForgetAddress handles DELETE /v1/address
func HandleForgetAddress(svc *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, ok := sessionID(c)
		if !ok {
			return
		}
		if err := svc.Addresses.Forget(c.Request.Context(), sid); err != nil {
			respondError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
