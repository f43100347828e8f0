// Package password provides password hashing and verification utilities for snsfeed.
//
// Hashes are bcrypt strings ($2a$/$2b$), compatible with rows created by earlier
// deployments of the service. The package also owns the sign-up password policy.
//
// Security notes:
// - Hash strings are treated as untrusted input during Verify.
// - Verification refuses hashes whose cost exceeds the configured cost by a wide margin.
package password
