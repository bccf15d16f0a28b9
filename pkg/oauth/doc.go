// Package oauth manages the OAuth account lifecycle behind the delivery
// engine's provider channels: the authorization-code flow for Microsoft
// and Google, per-client account storage, and the pending-state handshake
// that binds a login attempt to its originating client and browser origin.
//
// # Providers
//
// Provider wraps golang.org/x/oauth2 for one identity provider: it builds
// the authorization URL, exchanges the callback code for tokens, refreshes
// an expired access token, and reads the authenticated account's email
// address from the provider's profile endpoint. The sender address always
// comes from the profile, never from user input.
//
// # Store and state machine
//
// Store holds two maps behind one mutex: accounts keyed by
// (client id, provider), and pending login states keyed by the opaque
// state token. A state token is issued at login start, consumed exactly
// once at callback time, and swept on the next issuance if it is older
// than PendingStateTTL — this bounds memory and closes the replay window.
// The lock is held only for map access, never across a network call.
//
// FreshAccount applies the refresh policy before every OAuth send: an
// access token within ExpirySkew of its expiry is exchanged via the stored
// refresh token and the account replaced wholesale; a missing or rejected
// refresh token surfaces ErrReauthRequired rather than proceeding with a
// stale token.
package oauth
