package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleCreateSession handles POST /v1/sessions
func HandleCreateSession(svc *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := svc.Sessions.Create(c.Request.Context())
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"session_id": id})
	}
}

// HandleDestroySession handles DELETE /v1/sessions
func HandleDestroySession(svc *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, ok := sessionID(c)
		if !ok {
			return
		}
		if err := svc.Sessions.Destroy(c.Request.Context(), sid); err != nil {
			respondError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

type RequestCodeRequest struct {
	Mobile string `json:"mobile" binding:"required"`
}

type VerifyCodeRequest struct {
	Mobile string `json:"mobile" binding:"required"`
	Code   string `json:"code" binding:"required"`
}

// HandleRequestCode handles POST /v1/auth/code
func HandleRequestCode(svc *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RequestCodeRequest
		if !bindJSON(c, &req) {
			return
		}
		if err := svc.Backend.RequestCode(c.Request.Context(), req.Mobile); err != nil {
			respondError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// HandleVerifyCode handles POST /v1/auth/verify. The token stays in the
// session and is never returned to the browser.
func HandleVerifyCode(svc *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, ok := sessionID(c)
		if !ok {
			return
		}
		var req VerifyCodeRequest
		if !bindJSON(c, &req) {
			return
		}

		token, err := svc.Backend.VerifyCode(c.Request.Context(), req.Mobile, req.Code)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		if err := svc.Sessions.SetToken(c.Request.Context(), sid, token); err != nil {
			respondError(c, logger, err)
			return
		}

		logger.Info("Customer signed in", zap.String("session", svc.Sessions.Fingerprint(sid)))
		c.JSON(http.StatusOK, gin.H{"signed_in": true})
	}
}

// HandleGetMe handles GET /v1/me
func HandleGetMe(svc *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, ok := sessionID(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()

		token, err := svc.Sessions.Token(ctx, sid)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		user, err := svc.Backend.GetUser(ctx, token)
		if err != nil {
			respondError(c, logger, svc.Sessions.ClearTokenOnUnauthorized(ctx, sid, err))
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
