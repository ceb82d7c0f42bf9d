// Package oauth2 adapts golang.org/x/oauth2 to the authorization client
// contract, adding RFC 7009 token revocation.
package oauth2

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	xoauth2 "golang.org/x/oauth2"

	"github.com/oksasatya/go-identity-service/internal/domain/entity"
	"github.com/oksasatya/go-identity-service/internal/domain/service"
)

var (
	ErrNoRefreshToken     = errors.New("token has no refresh token")
	ErrRevocationDisabled = errors.New("revocation endpoint not configured")
)

type Config struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	RevokeURL    string
	HTTPClient   *http.Client
}

// Client runs the resource owner password grant against a single
// authorization server.
type Client struct {
	oauth     xoauth2.Config
	revokeURL string
	http      *http.Client
	now       func() time.Time
}

func NewClient(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		oauth: xoauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     xoauth2.Endpoint{TokenURL: cfg.TokenURL, AuthStyle: xoauth2.AuthStyleInHeader},
		},
		revokeURL: cfg.RevokeURL,
		http:      hc,
		now:       time.Now,
	}
}

func (c *Client) GetToken(ctx context.Context, username, password, scope string) (service.TokenHandle, error) {
	conf := c.oauth
	conf.Scopes = strings.Fields(scope)
	tok, err := conf.PasswordCredentialsToken(c.withHTTP(ctx), username, password)
	if err != nil {
		return nil, classify(err)
	}
	return &handle{client: c, token: c.fromOAuth(tok, scope)}, nil
}

func (c *Client) CreateToken(t entity.AccessToken) service.TokenHandle {
	return &handle{client: c, token: t}
}

func (c *Client) withHTTP(ctx context.Context) context.Context {
	return context.WithValue(ctx, xoauth2.HTTPClient, c.http)
}

func (c *Client) fromOAuth(tok *xoauth2.Token, fallbackScope string) entity.AccessToken {
	out := entity.AccessToken{
		AccessToken:  tok.AccessToken,
		TokenType:    tok.Type(),
		RefreshToken: tok.RefreshToken,
		Scope:        fallbackScope,
		ExpiresAt:    tok.Expiry,
	}
	if s, ok := tok.Extra("scope").(string); ok && s != "" {
		out.Scope = s
	}
	if !tok.Expiry.IsZero() {
		out.ExpiresIn = int64(tok.Expiry.Sub(c.now()).Round(time.Second).Seconds())
	}
	return out
}

// revoke posts an RFC 7009 revocation request.
func (c *Client) revoke(ctx context.Context, token string, kind service.TokenKind) error {
	if c.revokeURL == "" {
		return ErrRevocationDisabled
	}
	form := url.Values{"token": {token}, "token_type_hint": {string(kind)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.revokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(url.QueryEscape(c.oauth.ClientID), url.QueryEscape(c.oauth.ClientSecret))

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 1<<10))
		return fmt.Errorf("%w: revoke %s: %s %s", service.ErrAuthorizationRejected, kind, res.Status, strings.TrimSpace(string(body)))
	}
	return nil
}

// classify marks server rejections; transport and context errors pass
// through unchanged.
func classify(err error) error {
	var re *xoauth2.RetrieveError
	if errors.As(err, &re) {
		return fmt.Errorf("%w: %v", service.ErrAuthorizationRejected, err)
	}
	return err
}

type handle struct {
	client *Client
	token  entity.AccessToken
}

func (h *handle) Token() entity.AccessToken { return h.token }

func (h *handle) Expired(window time.Duration) bool {
	return h.token.ExpiresWithin(window, h.client.now())
}

func (h *handle) Refresh(ctx context.Context) (service.TokenHandle, error) {
	if h.token.RefreshToken == "" {
		return nil, ErrNoRefreshToken
	}
	conf := h.client.oauth
	conf.Scopes = strings.Fields(h.token.Scope)
	// An empty access token forces the source to hit the token endpoint.
	src := conf.TokenSource(h.client.withHTTP(ctx), &xoauth2.Token{RefreshToken: h.token.RefreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, classify(err)
	}
	return &handle{client: h.client, token: h.client.fromOAuth(tok, h.token.Scope)}, nil
}

func (h *handle) Revoke(ctx context.Context, kind service.TokenKind) error {
	switch kind {
	case service.RefreshTokenKind:
		if h.token.RefreshToken == "" {
			return ErrNoRefreshToken
		}
		return h.client.revoke(ctx, h.token.RefreshToken, kind)
	default:
		return h.client.revoke(ctx, h.token.AccessToken, service.AccessTokenKind)
	}
}

// RevokeAll revokes the refresh token, when present, then the access token.
func (h *handle) RevokeAll(ctx context.Context) error {
	if h.token.RefreshToken != "" {
		if err := h.Revoke(ctx, service.RefreshTokenKind); err != nil {
			return err
		}
	}
	return h.Revoke(ctx, service.AccessTokenKind)
}

var _ service.AuthorizationClient = (*Client)(nil)
