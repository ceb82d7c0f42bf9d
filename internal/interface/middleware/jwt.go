package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/oksasatya/go-identity-service/pkg/helpers"
	"github.com/oksasatya/go-identity-service/pkg/response"
)

const CtxIDClaims = "idClaims"

// TokenVerifier checks a signed identity token.
type TokenVerifier interface {
	VerifyToken(token string) (jwt.MapClaims, error)
}

// IDToken accepts an identity token from the Authorization bearer header or
// the id_token cookie, verifies it and injects its claims into context.
func IDToken(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token, _ = c.Cookie(helpers.IDTokenCookie)
		}
		if token == "" {
			resp := response.Error[any](c, http.StatusUnauthorized, "missing identity token", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		claims, err := v.VerifyToken(token)
		if err != nil {
			resp := response.Error[any](c, http.StatusUnauthorized, "invalid identity token", err.Error())
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		c.Set(CtxIDClaims, claims)
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
