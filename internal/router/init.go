package router

import (
	"github.com/oksasatya/go-identity-service/internal/application"
	"github.com/oksasatya/go-identity-service/internal/container"
	pginfra "github.com/oksasatya/go-identity-service/internal/infrastructure/postgres"
	"github.com/oksasatya/go-identity-service/internal/infrastructure/redisstore"
	handlers "github.com/oksasatya/go-identity-service/internal/interface/http"
	"github.com/oksasatya/go-identity-service/internal/interface/middleware"
	"github.com/oksasatya/go-identity-service/internal/router/modules"
	"github.com/oksasatya/go-identity-service/pkg/helpers"
)

type UserModuleDeps struct {
	Repo     *pginfra.UserRepository
	Tokens   *application.TokenManager
	Issuer   *application.IDTokenIssuer
	Sessions *redisstore.SessionStore
	Handler  *handlers.UserHandler
}

func buildUserDeps() UserModuleDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	bus := container.GetBus()

	repo := pginfra.NewUserRepository(container.GetPGPool())
	tokens := application.NewTokenManager(
		container.GetAuthClient(),
		redisstore.NewTokenSessionStore(container.GetRedis(), cfg.TokenSessionTTL),
		cfg.TokenExpirationWindow,
		cfg.CallTimeout,
		logger,
	)
	var issuer *application.IDTokenIssuer
	if jwt := container.GetJWT(); jwt != nil {
		issuer = application.NewIDTokenIssuer(jwt, cfg.IDTokenTTL)
	}
	sessions := redisstore.NewSessionStore(container.GetRedis(), cfg.SessionTTL)

	handler := &handlers.UserHandler{
		SignUp:     application.NewSignUpUser(repo, bus, logger, cfg.CallTimeout),
		SignIn:     application.NewSignInUser(repo, tokens, issuer, logger, cfg.CallTimeout),
		SignOut:    application.NewSignOutUser(tokens, logger),
		Refresh:    application.NewRefreshAccessToken(tokens, logger),
		Delete:     application.NewDeleteUser(repo, bus, logger, cfg.CallTimeout),
		Deactivate: application.NewMarkUserForDeletion(repo, bus, logger, cfg.CallTimeout),

		Sessions:   sessions,
		SessionTTL: sessions.TTL,
		IDTokenTTL: cfg.IDTokenTTL,
		Cookies:    helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure, cfg.SessionCookie),
		Logger:     logger,
	}

	return UserModuleDeps{
		Repo:     repo,
		Tokens:   tokens,
		Issuer:   issuer,
		Sessions: sessions,
		Handler:  handler,
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	deps := buildUserDeps()
	var verifier middleware.TokenVerifier
	if deps.Issuer != nil {
		verifier = deps.Issuer
	}
	r.Add(modules.NewUserModule(deps.Handler, deps.Sessions, container.GetConfig().SessionCookie, verifier))
}
