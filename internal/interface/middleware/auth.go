package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-identity-service/internal/domain/entity"
	"github.com/oksasatya/go-identity-service/internal/infrastructure/redisstore"
	"github.com/oksasatya/go-identity-service/pkg/response"
)

const (
	CtxSessionUser = "sessionUser"
	CtxSessionID   = "sid"
)

// SessionLookup resolves a session id to the user stored with it.
type SessionLookup interface {
	Get(ctx context.Context, sid string) (*entity.SessionUser, error)
}

// Auth loads the server-side session named by the session cookie and
// aborts with 401 when it is missing or expired. On success the session
// user and id are set in the Gin context.
func Auth(store SessionLookup, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(cookieName)
		if err != nil || sid == "" {
			resp := response.Error[any](c, http.StatusUnauthorized, "missing session", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		user, err := store.Get(c.Request.Context(), sid)
		if err != nil {
			msg := "session lookup failed"
			status := http.StatusInternalServerError
			if errors.Is(err, redisstore.ErrSessionNotFound) {
				msg, status = "session not found", http.StatusUnauthorized
			}
			resp := response.Error[any](c, status, msg, nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		c.Set(CtxSessionID, sid)
		c.Set(CtxSessionUser, user)
		c.Next()
	}
}

// SessionUser returns the user set by Auth, or nil.
func SessionUser(c *gin.Context) *entity.SessionUser {
	v, ok := c.Get(CtxSessionUser)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.SessionUser)
	return u
}
