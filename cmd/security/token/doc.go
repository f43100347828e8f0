// Package token provides opaque token primitives for snsfeed.
//
// Refresh tokens are random byte strings rendered as lowercase hex. They carry no
// structure and are valid only while a matching row exists in the credential store.
package token
