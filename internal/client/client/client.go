package client

import (
	"context"

	"github.com/dmitrijs2005/taxdesk/internal/client/models"
)

// Client is the backend API as seen by the terminal client.
type Client interface {
	Login(ctx context.Context, email, password string) (*models.AuthResult, error)
	Register(ctx context.Context, reg models.Registration) (*models.AuthResult, error)
	CurrentUser(ctx context.Context) (*models.User, error)
	RefreshTokens(ctx context.Context, refresh string) (models.TokenPair, error)

	DashboardSummary(ctx context.Context) (*models.Summary, error)

	ListPayments(ctx context.Context) ([]models.Payment, error)
	GenerateControlNumber(ctx context.Context) (string, error)
	PayWithControlNumber(ctx context.Context, controlNumber string, amount models.Amount) (*models.PaymentResult, error)
	ApprovePayment(ctx context.Context, id int64) (*models.PaymentResult, error)
	RejectPayment(ctx context.Context, id int64, reason string) (*models.PaymentResult, error)
	MarkPaymentPaid(ctx context.Context, id int64) (*models.PaymentResult, error)

	AdminMetrics(ctx context.Context) (*models.AdminMetrics, error)
	ListUsers(ctx context.Context, search string) ([]models.User, error)
	UpdateUserStatus(ctx context.Context, id int64, status string) error
	DeleteUser(ctx context.Context, id int64) error
	UnpaidUsers(ctx context.Context) ([]models.TaxAccount, error)

	Profile(ctx context.Context) (*models.Profile, error)
	UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.Profile, error)

	Ping(ctx context.Context) error
}

// TokenSource supplies the access token for the next request.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, bool)
}
