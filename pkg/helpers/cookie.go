package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const IDTokenCookie = "id_token"

// Manager writes the session and identity token cookies.
type Manager struct {
	Domain        string
	Secure        bool
	SessionCookie string
}

func NewCookie(domain string, secure bool, sessionCookie string) *Manager {
	if sessionCookie == "" {
		sessionCookie = "sid"
	}
	return &Manager{Domain: domain, Secure: secure, SessionCookie: sessionCookie}
}

func (m *Manager) SetSession(c *gin.Context, sid string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.SessionCookie, sid, int(ttl.Seconds()), "/", m.Domain, m.Secure, true)
}

func (m *Manager) SetIDToken(c *gin.Context, token string, exp time.Time) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(IDTokenCookie, token, maxAgeFrom(exp), "/", m.Domain, m.Secure, true)
}

func (m *Manager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.SessionCookie, "", -1, "/", m.Domain, m.Secure, true)
	c.SetCookie(IDTokenCookie, "", -1, "/", m.Domain, m.Secure, true)
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
