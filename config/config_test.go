package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 300*time.Second, cfg.TokenExpirationWindow)
	assert.Equal(t, 10*time.Hour, cfg.IDTokenTTL)
	assert.Equal(t, 5*time.Second, cfg.CallTimeout)
	assert.Equal(t, "sid", cfg.SessionCookie)
	assert.Empty(t, cfg.CORSOrigins())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("OAUTH_EXPIRATION_WINDOW", "90s")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("ELASTICSEARCH_ADDRS", " http://es1:9200, ,http://es2:9200 ")
	t.Setenv("COMPANY_NAME", "Acme")

	cfg := Load()
	assert.Equal(t, 90*time.Second, cfg.TokenExpirationWindow)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, int32(25), cfg.DBMaxConns)
	assert.Equal(t, []string{"http://es1:9200", "http://es2:9200"}, cfg.ESAddrs())
	assert.Equal(t, "Acme", cfg.EmailBrand().CompanyName)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("CALL_TIMEOUT", "soon")
	t.Setenv("COOKIE_SECURE", "maybe")
	t.Setenv("REDIS_DB", "x")

	cfg := Load()
	assert.Equal(t, 5*time.Second, cfg.CallTimeout)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, 0, cfg.RedisDB)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "identity", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/identity?sslmode=disable", cfg.PostgresDSN())
}
