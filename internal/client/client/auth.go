package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/taxdesk/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
)

func (h *HTTPClient) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	var res models.AuthResult
	err := h.do(ctx, call{
		method:    http.MethodPost,
		path:      "/auth/login/",
		body:      map[string]string{"email": email, "password": password},
		loginCall: true,
	}, &res)
	if err != nil {
		return nil, err
	}
	if err := checkTokens(res.Tokens); err != nil {
		return nil, err
	}
	return &res, nil
}

func (h *HTTPClient) Register(ctx context.Context, reg models.Registration) (*models.AuthResult, error) {
	var res models.AuthResult
	err := h.do(ctx, call{method: http.MethodPost, path: "/auth/register/", body: reg}, &res)
	if err != nil {
		return nil, err
	}
	if err := checkTokens(res.Tokens); err != nil {
		return nil, err
	}
	return &res, nil
}

func (h *HTTPClient) CurrentUser(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := h.do(ctx, call{method: http.MethodGet, path: "/auth/me/"}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// RefreshTokens exchanges refresh for a new pair. Backends that do not
// rotate refresh tokens return only "access"; the old refresh token is kept.
func (h *HTTPClient) RefreshTokens(ctx context.Context, refresh string) (models.TokenPair, error) {
	var res struct {
		models.TokenPair
		Tokens *models.TokenPair `json:"tokens"`
	}
	err := h.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/refresh/",
		body:   map[string]string{"refresh": refresh},
	}, &res)
	if err != nil {
		return models.TokenPair{}, err
	}

	pair := res.TokenPair
	if res.Tokens != nil {
		pair = *res.Tokens
	}
	if pair.Refresh == "" {
		pair.Refresh = refresh
	}
	if err := checkTokens(pair); err != nil {
		return models.TokenPair{}, err
	}
	return pair, nil
}

func checkTokens(p models.TokenPair) error {
	if p.Access == "" || p.Refresh == "" {
		return fmt.Errorf("%w: response carries no token pair", ErrNetworkOrServer)
	}
	return nil
}

// TokenExpiry decodes the exp claim of a JWT without verifying its
// signature. It is for display only.
func TokenExpiry(token string) (time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("parse token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("token has no exp claim")
	}
	return claims.ExpiresAt.Time, nil
}
