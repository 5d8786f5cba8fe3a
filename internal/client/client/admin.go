package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/taxdesk/internal/client/models"
)

func (h *HTTPClient) AdminMetrics(ctx context.Context) (*models.AdminMetrics, error) {
	var m models.AdminMetrics
	if err := h.do(ctx, call{method: http.MethodGet, path: "/admin/metrics/"}, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (h *HTTPClient) ListUsers(ctx context.Context, search string) ([]models.User, error) {
	c := call{method: http.MethodGet, path: "/admin/users/"}
	if search != "" {
		c.query = url.Values{"search": []string{search}}
	}
	var raw json.RawMessage
	if err := h.do(ctx, c, &raw); err != nil {
		return nil, err
	}
	return decodeList[models.User](raw)
}

func (h *HTTPClient) UpdateUserStatus(ctx context.Context, id int64, status string) error {
	return h.do(ctx, call{
		method: http.MethodPatch,
		path:   fmt.Sprintf("/admin/users/%d/status/", id),
		body:   map[string]string{"account_status": status},
	}, nil)
}

func (h *HTTPClient) DeleteUser(ctx context.Context, id int64) error {
	return h.do(ctx, call{method: http.MethodDelete, path: fmt.Sprintf("/admin/users/%d/delete/", id)}, nil)
}

func (h *HTTPClient) UnpaidUsers(ctx context.Context) ([]models.TaxAccount, error) {
	var raw json.RawMessage
	if err := h.do(ctx, call{method: http.MethodGet, path: "/admin/unpaid-users/"}, &raw); err != nil {
		return nil, err
	}
	return decodeList[models.TaxAccount](raw)
}
