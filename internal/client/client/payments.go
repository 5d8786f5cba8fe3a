package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/taxdesk/internal/client/models"
)

func (h *HTTPClient) DashboardSummary(ctx context.Context) (*models.Summary, error) {
	var s models.Summary
	if err := h.do(ctx, call{method: http.MethodGet, path: "/dashboard/summary/"}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (h *HTTPClient) ListPayments(ctx context.Context) ([]models.Payment, error) {
	var raw json.RawMessage
	if err := h.do(ctx, call{method: http.MethodGet, path: "/payments/"}, &raw); err != nil {
		return nil, err
	}
	return decodeList[models.Payment](raw)
}

func (h *HTTPClient) GenerateControlNumber(ctx context.Context) (string, error) {
	var res models.ControlNumberResult
	if err := h.do(ctx, call{method: http.MethodPost, path: "/payments/generate_control_number/"}, &res); err != nil {
		return "", err
	}
	if res.ControlNumber == "" {
		return "", fmt.Errorf("%w: empty control number", ErrNetworkOrServer)
	}
	return res.ControlNumber, nil
}

func (h *HTTPClient) PayWithControlNumber(ctx context.Context, controlNumber string, amount models.Amount) (*models.PaymentResult, error) {
	var res models.PaymentResult
	err := h.do(ctx, call{
		method: http.MethodPost,
		path:   "/payments/pay_with_control_number/",
		body:   map[string]any{"control_number": controlNumber, "amount": amount},
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (h *HTTPClient) ApprovePayment(ctx context.Context, id int64) (*models.PaymentResult, error) {
	return h.paymentAction(ctx, id, "approve", nil)
}

func (h *HTTPClient) RejectPayment(ctx context.Context, id int64, reason string) (*models.PaymentResult, error) {
	return h.paymentAction(ctx, id, "reject", map[string]string{"rejection_reason": reason})
}

func (h *HTTPClient) MarkPaymentPaid(ctx context.Context, id int64) (*models.PaymentResult, error) {
	return h.paymentAction(ctx, id, "mark_paid", nil)
}

func (h *HTTPClient) paymentAction(ctx context.Context, id int64, action string, body any) (*models.PaymentResult, error) {
	var res models.PaymentResult
	err := h.do(ctx, call{
		method: http.MethodPost,
		path:   fmt.Sprintf("/payments/%d/%s/", id, action),
		body:   body,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
