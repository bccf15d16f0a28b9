package oauth

import "time"

// ExpirySkew is the safety margin subtracted from a token's expiry:
// an access token this close to expiring is refreshed before use.
const ExpirySkew = 60 * time.Second

// Account is one connected OAuth identity. Accounts are replaced
// wholesale on login completion or token refresh, never patched.
type Account struct {
	Provider     string
	Email        string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	UpdatedAt    time.Time
}

// IsExpired reports whether the access token is expired or will be
// within skew.
func (a Account) IsExpired(skew time.Duration) bool {
	return !a.ExpiresAt.After(time.Now().Add(skew))
}
