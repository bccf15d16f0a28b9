// Package middlewares provides HTTP middleware shared by the API
// server. Middleware here composes with chi's own stack; only concerns
// chi does not ship are implemented.
package middlewares
