package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-identity-service/internal/interface/http"
	"github.com/oksasatya/go-identity-service/internal/interface/middleware"
)

// UserModule wires the account handlers under /v1/users.
// Public: POST /signup, POST /signin, GET /userinfo (identity token)
// Session: POST /signout, POST /token/refresh, GET /me,
// DELETE /:username, POST /:username/deactivate
type UserModule struct {
	Handler       *handlers.UserHandler
	Sessions      middleware.SessionLookup
	SessionCookie string
	IDTokens      middleware.TokenVerifier
}

func NewUserModule(h *handlers.UserHandler, sessions middleware.SessionLookup, sessionCookie string, idTokens middleware.TokenVerifier) *UserModule {
	return &UserModule{Handler: h, Sessions: sessions, SessionCookie: sessionCookie, IDTokens: idTokens}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/v1/users")
	users.POST("/signup", m.Handler.SignUpUser)
	users.POST("/signin", m.Handler.SignInUser)
	if m.IDTokens != nil {
		users.GET("/userinfo", middleware.IDToken(m.IDTokens), m.Handler.UserInfo)
	}

	auth := users.Group("/")
	auth.Use(middleware.Auth(m.Sessions, m.SessionCookie))
	{
		auth.POST("/signout", m.Handler.SignOutUser)
		auth.POST("/token/refresh", m.Handler.RefreshToken)
		auth.GET("/me", m.Handler.Me)
		auth.DELETE("/:username", m.Handler.DeleteUser)
		auth.POST("/:username/deactivate", m.Handler.DeactivateUser)
	}
}
