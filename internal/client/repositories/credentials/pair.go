package credentials

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/taxdesk/internal/client/models"
	"github.com/dmitrijs2005/taxdesk/internal/common"
)

// PairState describes what LoadPair found in the store.
type PairState int

const (
	PairAbsent PairState = iota
	PairComplete
	// PairInconsistent means only one token was stored. The stray token has
	// been removed unless LoadPair also returned an error.
	PairInconsistent
)

func (s PairState) String() string {
	switch s {
	case PairAbsent:
		return "absent"
	case PairComplete:
		return "complete"
	case PairInconsistent:
		return "inconsistent"
	default:
		return "unknown"
	}
}

// LoadPair reads both tokens. A half-stored pair is cleared and reported as
// PairInconsistent with a zero TokenPair. The error is non-nil only when
// that clearing failed.
func LoadPair(ctx context.Context, s Store) (models.TokenPair, PairState, error) {
	access, hasAccess := s.Get(ctx, common.AccessTokenKey)
	refresh, hasRefresh := s.Get(ctx, common.RefreshTokenKey)

	switch {
	case hasAccess && hasRefresh && access != "" && refresh != "":
		return models.TokenPair{Access: access, Refresh: refresh}, PairComplete, nil
	case !hasAccess && !hasRefresh:
		return models.TokenPair{}, PairAbsent, nil
	default:
		if err := ClearPair(ctx, s); err != nil {
			return models.TokenPair{}, PairInconsistent, fmt.Errorf("clear inconsistent pair: %w", err)
		}
		return models.TokenPair{}, PairInconsistent, nil
	}
}

// SavePair stores both tokens in one write.
func SavePair(ctx context.Context, s Store, p models.TokenPair) error {
	return s.SetMany(ctx, map[string]string{
		common.AccessTokenKey:  p.Access,
		common.RefreshTokenKey: p.Refresh,
	})
}

// ClearPair removes both tokens. Removing an absent pair is not an error.
func ClearPair(ctx context.Context, s Store) error {
	return s.RemoveMany(ctx, common.AccessTokenKey, common.RefreshTokenKey)
}

// AccessToken returns the stored access token, if any. It is the token
// source used by the API client on every request.
type AccessToken struct {
	Store Store
}

func (a AccessToken) AccessToken(ctx context.Context) (string, bool) {
	return a.Store.Get(ctx, common.AccessTokenKey)
}
