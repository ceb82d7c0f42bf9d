package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-identity-service/internal/application"
	"github.com/oksasatya/go-identity-service/internal/domain/entity"
	"github.com/oksasatya/go-identity-service/internal/interface/middleware"
	"github.com/oksasatya/go-identity-service/pkg/helpers"
	"github.com/oksasatya/go-identity-service/pkg/response"
	"github.com/oksasatya/go-identity-service/pkg/validation"
)

// SessionStore creates and destroys server-side sessions.
type SessionStore interface {
	Create(ctx context.Context, u entity.SessionUser) (string, error)
	Destroy(ctx context.Context, sid string) error
}

type UserHandler struct {
	SignUp     *application.SignUpUser
	SignIn     *application.SignInUser
	SignOut    *application.SignOutUser
	Refresh    *application.RefreshAccessToken
	Delete     *application.DeleteUser
	Deactivate *application.MarkUserForDeletion

	Sessions   SessionStore
	SessionTTL time.Duration
	IDTokenTTL time.Duration
	Cookies    *helpers.Manager
	Logger     *logrus.Logger
}

type signUpRequest struct {
	Username string `json:"username" binding:"required,username"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type signInRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Scope    string `json:"scope"`
}

type tokenResponse struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Scope        string    `json:"scope,omitempty"`
	ExpiresIn    int64     `json:"expires_in"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func toTokenResponse(t entity.AccessToken) tokenResponse {
	return tokenResponse{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshToken,
		Scope:        t.Scope,
		ExpiresIn:    t.ExpiresIn,
		ExpiresAt:    t.ExpiresAt,
	}
}

// fail writes a use case error with the status of its kind.
func fail(c *gin.Context, e *application.UseCaseError) {
	response.Write(c, response.Error[any](c, e.Kind.Status(), e.Message, gin.H{"type": e.Kind.String()}))
}

func (h *UserHandler) SignUpUser(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Write(c, response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err)))
		return
	}
	out := h.SignUp.Execute(c.Request.Context(), application.SignUpInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if out.IsLeft() {
		fail(c, out.LeftValue())
		return
	}
	response.Write(c, response.Success[any](c, http.StatusCreated, gin.H{"username": req.Username}, "user created", nil))
}

func (h *UserHandler) SignInUser(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Write(c, response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err)))
		return
	}
	out := h.SignIn.Execute(c.Request.Context(), application.SignInInput{
		Username: req.Username,
		Password: req.Password,
		Scope:    req.Scope,
	})
	if out.IsLeft() {
		fail(c, out.LeftValue())
		return
	}
	res := out.RightValue().Value()

	sid, err := h.Sessions.Create(c.Request.Context(), res.User)
	if err != nil {
		helpers.LogError(h.Logger, "create session failed", err, logrus.Fields{"username": res.User.Username})
		fail(c, application.UnexpectedError(err))
		return
	}
	h.Cookies.SetSession(c, sid, h.SessionTTL)
	if res.IDToken != "" {
		h.Cookies.SetIDToken(c, res.IDToken, time.Now().Add(h.IDTokenTTL))
	}
	response.Write(c, response.Success(c, http.StatusOK, toTokenResponse(res.Token), "signed in", gin.H{"user": res.User}))
}

// SignOutUser revokes tokens and always destroys the local session.
func (h *UserHandler) SignOutUser(c *gin.Context) {
	out := h.SignOut.Execute(c.Request.Context(), middleware.SessionUser(c))
	if sid := c.GetString(middleware.CtxSessionID); sid != "" {
		if err := h.Sessions.Destroy(c.Request.Context(), sid); err != nil {
			helpers.LogError(h.Logger, "destroy session failed", err, nil)
		}
	}
	h.Cookies.Clear(c)
	if out.IsLeft() {
		fail(c, out.LeftValue())
		return
	}
	response.Write(c, response.Success[any](c, http.StatusOK, gin.H{"signed_out": true}, "signed out", nil))
}

func (h *UserHandler) RefreshToken(c *gin.Context) {
	out := h.Refresh.Execute(c.Request.Context(), middleware.SessionUser(c))
	if out.IsLeft() {
		fail(c, out.LeftValue())
		return
	}
	response.Write(c, response.Success(c, http.StatusOK, toTokenResponse(out.RightValue().Value()), "token current", nil))
}

func (h *UserHandler) Me(c *gin.Context) {
	u := middleware.SessionUser(c)
	if u == nil {
		fail(c, application.NotAuthorized(nil))
		return
	}
	response.Write(c, response.Success(c, http.StatusOK, *u, "current user", nil))
}

// UserInfo returns the claims of a verified identity token.
func (h *UserHandler) UserInfo(c *gin.Context) {
	claims, _ := c.Get(middleware.CtxIDClaims)
	mc, ok := claims.(jwt.MapClaims)
	if !ok {
		fail(c, application.NotAuthorized(nil))
		return
	}
	response.Write(c, response.Success(c, http.StatusOK, mc, "userinfo", nil))
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	out := h.Delete.Execute(c.Request.Context(), application.DeleteUserInput{
		Username:  c.Param("username"),
		Requester: middleware.SessionUser(c),
	})
	if out.IsLeft() {
		fail(c, out.LeftValue())
		return
	}
	response.Write(c, response.Success[any](c, http.StatusOK, gin.H{"deleted": c.Param("username")}, "user deleted", nil))
}

func (h *UserHandler) DeactivateUser(c *gin.Context) {
	out := h.Deactivate.Execute(c.Request.Context(), application.DeleteUserInput{
		Username:  c.Param("username"),
		Requester: middleware.SessionUser(c),
	})
	if out.IsLeft() {
		fail(c, out.LeftValue())
		return
	}
	response.Write(c, response.Success[any](c, http.StatusOK, gin.H{"deactivated": c.Param("username")}, "user marked for deletion", nil))
}
