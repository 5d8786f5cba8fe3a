package apitest

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/taxdesk/internal/client/models"
	"golang.org/x/crypto/bcrypt"
)

// Default token lifetimes.
const (
	DefaultAccessTTL  = 5 * time.Minute
	DefaultRefreshTTL = 24 * time.Hour
)

type account struct {
	user    models.User
	hash    []byte
	profile *models.Profile
	tax     models.TaxAccount
}

// Request is one call recorded by the backend.
type Request struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
}

// Backend holds the fake API state. All methods are safe for concurrent use.
type Backend struct {
	mu sync.Mutex

	secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Now        func() time.Time

	nextID   int64
	accounts map[int64]*account
	payments []*models.Payment
	requests []Request
}

// NewBackend returns an empty backend signing tokens with secret.
func NewBackend(secret []byte) *Backend {
	return &Backend{
		secret:     secret,
		AccessTTL:  DefaultAccessTTL,
		RefreshTTL: DefaultRefreshTTL,
		Now:        time.Now,
		accounts:   make(map[int64]*account),
	}
}

func (b *Backend) id() int64 {
	b.nextID++
	return b.nextID
}

// AddUser creates an active account. Taxpayers get a profile built from
// fullName and an empty tax account.
func (b *Backend) AddUser(email, password string, role models.Role, fullName string) models.User {
	b.mu.Lock()
	defer b.mu.Unlock()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(fmt.Sprintf("apitest: hash password: %v", err))
	}
	now := b.Now().UTC()
	acc := &account{
		user: models.User{
			ID:            b.id(),
			Email:         email,
			Role:          role,
			AccountStatus: models.AccountActive,
			DateJoined:    &now,
			FullName:      fullName,
		},
		hash: hash,
	}
	if role == models.RoleTaxpayer {
		first, last, _ := strings.Cut(fullName, " ")
		acc.profile = &models.Profile{
			ID:               acc.user.ID,
			Email:            email,
			FirstName:        first,
			LastName:         last,
			TaxpayerType:     models.TaxpayerBusiness,
			RegistrationDate: &now,
		}
		acc.tax = models.TaxAccount{ID: acc.user.ID, Email: email, Status: "Active", TaxTypeName: "Property Tax"}
	}
	b.accounts[acc.user.ID] = acc
	return b.publicUser(acc)
}

// SetTaxDue sets the assessed total for userID; outstanding follows.
func (b *Backend) SetTaxDue(userID int64, due models.Amount, nextDue string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	acc, ok := b.accounts[userID]
	if !ok {
		return
	}
	acc.tax.TotalTaxDue = due
	acc.tax.OutstandingBalance = due - acc.tax.PaidAmount
	acc.tax.NextPaymentDueDate = nextDue
}

// SetStatus changes the account status of userID.
func (b *Backend) SetStatus(userID int64, status string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if acc, ok := b.accounts[userID]; ok {
		acc.user.AccountStatus = status
	}
}

// IssueTokens returns a fresh pair for userID, as login would.
func (b *Backend) IssueTokens(userID int64) (models.TokenPair, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.issue(userID)
}

func (b *Backend) issue(userID int64) (models.TokenPair, error) {
	now := b.Now()
	access, err := generateToken(userID, tokenAccess, b.secret, now, b.AccessTTL)
	if err != nil {
		return models.TokenPair{}, err
	}
	refresh, err := generateToken(userID, tokenRefresh, b.secret, now, b.RefreshTTL)
	if err != nil {
		return models.TokenPair{}, err
	}
	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

// Requests returns a copy of every request seen so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Request, len(b.requests))
	copy(out, b.requests)
	return out
}

// CountRequests returns how many requests hit method+path.
func (b *Backend) CountRequests(method, path string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Payments returns a copy of all payment requests, newest first.
func (b *Backend) Payments() []models.Payment {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sortedPayments(func(*models.Payment) bool { return true })
}

func (b *Backend) sortedPayments(keep func(*models.Payment) bool) []models.Payment {
	out := make([]models.Payment, 0, len(b.payments))
	for _, p := range b.payments {
		if keep(p) {
			out = append(out, *p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// publicUser is the /auth/me/ view of acc. Caller holds b.mu.
func (b *Backend) publicUser(acc *account) models.User {
	u := acc.user
	if acc.profile != nil {
		p := *acc.profile
		p.FullName = p.DisplayName()
		u.Profile = &p
		if u.FullName == "" {
			u.FullName = p.FullName
		}
	}
	return u
}

func (b *Backend) byEmail(email string) *account {
	for _, acc := range b.accounts {
		if strings.EqualFold(acc.user.Email, email) {
			return acc
		}
	}
	return nil
}

const controlNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func newControlNumber() string {
	var sb strings.Builder
	sb.WriteString("TXN")
	max := big.NewInt(int64(len(controlNumberAlphabet)))
	for i := 0; i < 10; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		sb.WriteByte(controlNumberAlphabet[n.Int64()])
	}
	return sb.String()
}
