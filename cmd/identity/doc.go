// Package identity implements snsfeed accounts: the user record, sign-up validation,
// and the user side of the credential store (Postgres and in-memory).
//
// Session and refresh-token state lives in cmd/internal/auth/session; this package
// only answers "who is this user" lookups for it.
package identity
