package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/address"
	"github.com/jafarshop/storefront/internal/api/middleware"
	"github.com/jafarshop/storefront/internal/cart"
	"github.com/jafarshop/storefront/internal/checkout"
	"github.com/jafarshop/storefront/internal/session"
	"github.com/jafarshop/storefront/internal/storefront"
	"github.com/jafarshop/storefront/pkg/errors"
)

// Services groups what the handlers call into
type Services struct {
	Sessions  *session.Manager
	Backend   *storefront.Client
	Carts     *cart.Store
	Addresses *address.Resolver
	Checkout  *checkout.Service
}

// respondError writes err as {"error": ...} with a matching status
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var (
		validation *address.ValidationError
		domainErr  *errors.DomainError
		notFound   *errors.ErrNotFound
		unauth     *errors.ErrUnauthorized
		transition *errors.ErrInvalidStateTransition
		stepErr    *checkout.StepError
	)

	body := gin.H{"error": err.Error()}
	if stderrors.As(err, &stepErr) {
		body["step"] = stepErr.Step
	}

	switch {
	case stderrors.As(err, &validation):
		body["messages"] = validation.Messages
		c.JSON(http.StatusBadRequest, body)
	case stderrors.As(err, &domainErr):
		body["code"] = domainErr.Code
		c.JSON(errors.StatusCode(domainErr), body)
	case stderrors.As(err, &notFound):
		c.JSON(http.StatusNotFound, body)
	case stderrors.As(err, &unauth):
		c.JSON(http.StatusUnauthorized, body)
	case stderrors.As(err, &transition):
		c.JSON(http.StatusConflict, body)
	default:
		logger.Error("Request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// sessionID reads the session id, answering 401 when it is missing
func sessionID(c *gin.Context) (string, bool) {
	id, ok := middleware.GetSessionID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return id, ok
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "validation failed",
			"details": err.Error(),
		})
		return false
	}
	return true
}
