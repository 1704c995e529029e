package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/storefront"
)

type SubmitCommentRequest struct {
	Body string `json:"body" binding:"required"`
	Rate int    `json:"rate" binding:"min=0,max=5"`
}

// productID looks up the numeric id behind the :slug path parameter
func productID(c *gin.Context, svc *Services, logger *zap.Logger) (int64, bool) {
	product, err := svc.Backend.Product(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, logger, err)
		return 0, false
	}
	return product.ID, true
}

// HandleListComments handles GET /v1/products/:slug/comments
func HandleListComments(svc *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := productID(c, svc, logger)
		if !ok {
			return
		}
		comments, err := svc.Backend.Comments(c.Request.Context(), id)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"comments": comments})
	}
}

// HandleSubmitComment handles PUT /v1/products/:slug/comments
func HandleSubmitComment(svc *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, ok := sessionID(c)
		if !ok {
			return
		}
		id, ok := productID(c, svc, logger)
		if !ok {
			return
		}
		var req SubmitCommentRequest
		if !bindJSON(c, &req) {
			return
		}

		ctx := c.Request.Context()
		token, err := svc.Sessions.Token(ctx, sid)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		err = svc.Backend.SubmitComment(ctx, token, storefront.CommentRequest{
			ProductID: id,
			Body:      req.Body,
			Rate:      req.Rate,
		})
		if err != nil {
			respondError(c, logger, svc.Sessions.ClearTokenOnUnauthorized(ctx, sid, err))
			return
		}
		c.Status(http.StatusCreated)
	}
}
