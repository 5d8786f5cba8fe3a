package client

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/taxdesk/internal/client/models"
)

func (h *HTTPClient) Profile(ctx context.Context) (*models.Profile, error) {
	var p models.Profile
	if err := h.do(ctx, call{method: http.MethodGet, path: "/profile/"}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (h *HTTPClient) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.Profile, error) {
	var p models.Profile
	if err := h.do(ctx, call{method: http.MethodPatch, path: "/profile/", body: upd}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
