package oauth

import "errors"

var (
	// ErrMissingClientID is returned when the OAuth client ID is not provided.
	ErrMissingClientID = errors.New("oauth: missing client ID")

	// ErrMissingClientSecret is returned when the OAuth client secret is not provided.
	ErrMissingClientSecret = errors.New("oauth: missing client secret")

	// ErrUnknownProvider is returned for a provider tag that is neither
	// "microsoft" nor "google".
	ErrUnknownProvider = errors.New("oauth: unknown provider")

	// ErrNotConnected is returned when no account is stored for a
	// (client id, provider) key.
	ErrNotConnected = errors.New("oauth: no connected account, please log in first")

	// ErrReauthRequired is returned when an expired access token cannot
	// be refreshed: the user has to run the login flow again.
	ErrReauthRequired = errors.New("oauth: token expired, please log in again")

	// ErrNoEmail is returned when the provider's profile carries no
	// readable email address.
	ErrNoEmail = errors.New("oauth: could not read email address from provider profile")

	// ErrFetchFailed is returned when a request to the provider fails.
	ErrFetchFailed = errors.New("oauth: failed to fetch from provider")

	// ErrRequestFailed is returned when the provider returns a non-OK status.
	ErrRequestFailed = errors.New("oauth: request returned non-OK status")

	// ErrDecodeFailed is returned when decoding a provider response fails.
	ErrDecodeFailed = errors.New("oauth: failed to decode response")

	// ErrStateToken is returned when generating a pending-state token fails.
	ErrStateToken = errors.New("oauth: failed to generate state token")
)
