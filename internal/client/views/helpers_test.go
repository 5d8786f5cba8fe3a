package views

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/taxdesk/internal/client/client/clienttest"
	"github.com/dmitrijs2005/taxdesk/internal/client/models"
	"github.com/dmitrijs2005/taxdesk/internal/client/notify"
	"github.com/dmitrijs2005/taxdesk/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/taxdesk/internal/client/services"
	"github.com/dmitrijs2005/taxdesk/internal/logging"
)

// script answers prompts from a fixed list.
type script struct {
	answers []string
	asked   []string
}

func (s *script) next(label string) (string, error) {
	s.asked = append(s.asked, label)
	if len(s.answers) == 0 {
		return "", ErrAborted
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

func (s *script) Ask(_ context.Context, label string) (string, error)       { return s.next(label) }
func (s *script) AskSecret(_ context.Context, label string) (string, error) { return s.next(label) }

type env struct {
	api      *clienttest.Fake
	store    *credentials.MemoryStore
	session  *services.SessionManager
	notes    *notify.Recorder
	prompt   *script
	out      *bytes.Buffer
	posted   []func(context.Context) error
	navigate []string
	deps     Deps
}

func newEnv(t *testing.T, answers ...string) *env {
	t.Helper()
	e := &env{
		api:    &clienttest.Fake{},
		store:  credentials.NewMemoryStore(),
		notes:  &notify.Recorder{},
		prompt: &script{answers: answers},
		out:    &bytes.Buffer{},
	}
	e.session = services.NewSessionManager(e.api, e.store, logging.Nop())
	e.deps = Deps{
		API:     e.api,
		Session: e.session,
		Store:   e.store,
		Notify:  e.notes,
		Prompt:  e.prompt,
		Out:     e.out,
		Log:     logging.Nop(),
		Navigate: func(_ context.Context, p string) {
			e.navigate = append(e.navigate, p)
		},
		Post: func(fn func(context.Context) error) {
			e.posted = append(e.posted, fn)
		},
		PollInterval: 5 * time.Millisecond,
		Now:          func() time.Time { return time.UnixMilli(1_700_000_000_000) },
	}
	return e
}

// signIn resolves the session as u through Initialize.
func (e *env) signIn(t *testing.T, u *models.User) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, credentials.SavePair(ctx, e.store, models.TokenPair{Access: "a", Refresh: "r"}))
	e.api.CurrentUserFunc = func(context.Context) (*models.User, error) { return u, nil }
	require.NoError(t, e.session.Initialize(ctx))
}

func taxpayerUser() *models.User {
	return &models.User{
		ID:       7,
		Email:    "asha@example.tz",
		Role:     models.RoleTaxpayer,
		FullName: "Asha Mushi",
		Profile:  &models.Profile{FirstName: "Asha", LastName: "Mushi", NationalID: "19900101-12345-00001-22", Ward: "Kijitonyama"},
	}
}

func stubSummary(e *env, outstanding models.Amount) {
	e.api.DashboardSummaryFunc = func(context.Context) (*models.Summary, error) {
		return &models.Summary{
			TotalTaxDue:        250000,
			PaidAmount:         250000 - outstanding,
			OutstandingBalance: outstanding,
			NextPaymentDueDate: "2026-12-31",
			Status:             "Active",
		}, nil
	}
}

func stubPayments(e *env, ps ...models.Payment) {
	e.api.ListPaymentsFunc = func(context.Context) ([]models.Payment, error) { return ps, nil }
}
