package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"sync"
	"time"
)

// PendingStateTTL bounds how long an issued state token stays valid.
// Older never-consumed records are swept on the next issuance.
const PendingStateTTL = 15 * time.Minute

// PendingState binds an in-flight login attempt to its originating
// client and browser origin. Keyed by the opaque state token.
type PendingState struct {
	Provider       string
	ClientID       string
	FrontendOrigin string
	CreatedAt      time.Time
}

type accountKey struct {
	clientID string
	provider string
}

// Store is the process-wide OAuth state: connected accounts and pending
// login states behind a single mutex. The lock guards map access only;
// it is never held across a network call.
type Store struct {
	mu       sync.Mutex
	accounts map[accountKey]Account
	pending  map[string]PendingState
	now      func() time.Time
}

// StoreOption configures the store.
type StoreOption func(*Store)

// WithClock replaces the store's time source. Intended for tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates an empty account store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		accounts: make(map[accountKey]Account),
		pending:  make(map[string]PendingState),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetAccount stores or replaces the account for (clientID, provider).
// At most one live account exists per key.
func (s *Store) SetAccount(clientID string, acc Account) {
	key := accountKey{clientID: clientID, provider: acc.Provider}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[key] = acc
}

// Account returns the stored account for (clientID, provider).
func (s *Store) Account(clientID, provider string) (Account, bool) {
	key := accountKey{clientID: clientID, provider: provider}
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[key]
	return acc, ok
}

// RemoveAccount deletes the account for (clientID, provider), if any.
func (s *Store) RemoveAccount(clientID, provider string) {
	key := accountKey{clientID: clientID, provider: provider}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, key)
}

// Accounts returns all of a client's connected accounts keyed by provider.
func (s *Store) Accounts(clientID string) map[string]Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Account)
	for key, acc := range s.accounts {
		if key.clientID == clientID {
			out[key.provider] = acc
		}
	}
	return out
}

// CreatePendingState issues a fresh unguessable state token and records
// the pending login attempt. Pending records older than PendingStateTTL
// are swept opportunistically on every issuance.
func (s *Store) CreatePendingState(provider, clientID, frontendOrigin string) (string, error) {
	token, err := newStateToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-PendingStateTTL)
	for key, pending := range s.pending {
		if pending.CreatedAt.Before(cutoff) {
			delete(s.pending, key)
		}
	}

	s.pending[token] = PendingState{
		Provider:       provider,
		ClientID:       clientID,
		FrontendOrigin: frontendOrigin,
		CreatedAt:      s.now(),
	}
	return token, nil
}

// ConsumePendingState atomically pops the pending record for a state
// token. A token is usable exactly once; false means never issued,
// already consumed, or expired and swept — the caller treats all three
// as an authentication failure.
func (s *Store) ConsumePendingState(token string) (PendingState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending, ok := s.pending[token]
	if ok {
		delete(s.pending, token)
	}
	return pending, ok
}

// FreshAccount returns the client's account for the provider with a
// usable access token, refreshing it first when it is within ExpirySkew
// of expiry. The refreshed account replaces the stored one wholesale
// before it is returned. A missing or rejected refresh token surfaces
// ErrReauthRequired.
func (s *Store) FreshAccount(ctx context.Context, p Provider, clientID string) (Account, error) {
	acc, ok := s.Account(clientID, p.Name())
	if !ok {
		return Account{}, ErrNotConnected
	}
	if !acc.IsExpired(ExpirySkew) {
		return acc, nil
	}
	if acc.RefreshToken == "" {
		return Account{}, ErrReauthRequired
	}

	tok, err := p.Refresh(ctx, acc.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrReauthRequired) {
			return Account{}, err
		}
		return Account{}, errors.Join(ErrReauthRequired, err)
	}

	refreshed := Account{
		Provider:     acc.Provider,
		Email:        acc.Email,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.Expiry,
		UpdatedAt:    s.now(),
	}
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = acc.RefreshToken
	}
	s.SetAccount(clientID, refreshed)
	return refreshed, nil
}

// newStateToken returns 32 bytes of entropy, base64url-encoded without
// padding.
func newStateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Join(ErrStateToken, err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
