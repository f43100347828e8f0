package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// maxCostHeadroom bounds how much more expensive a stored hash may be than
// the larger of bcrypt.DefaultCost and Config.Cost.
const maxCostHeadroom = 4

// Hash validates password against the policy and returns its bcrypt hash.
func (c Config) Hash(password string) (string, error) {
	if err := c.Validate(password); err != nil {
		return "", err
	}

	out, err := bcrypt.GenerateFromPassword([]byte(password), c.cost())
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(out), nil
}

// Verify checks whether password matches the given bcrypt hash.
// Returns (true, nil) for a match, (false, nil) for mismatch,
// and (false, ErrInvalidHash) for malformed/unsupported hashes.
func (c Config) Verify(encodedHash, password string) (bool, error) {
	cost, err := bcrypt.Cost([]byte(encodedHash))
	if err != nil {
		return false, ErrInvalidHash
	}

	// Anti-DoS boundary: a hash string planted with a huge cost would pin a CPU per login.
	// Lowering Config.Cost must not lock out users hashed at the previous cost.
	if cost > c.maxAcceptedCost() {
		return false, ErrInvalidHash
	}

	err = bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, ErrInvalidHash
	}
}

func (c Config) maxAcceptedCost() int {
	return min(max(bcrypt.DefaultCost, c.cost())+maxCostHeadroom, bcrypt.MaxCost)
}

func (c Config) cost() int {
	if c.Cost < bcrypt.MinCost || c.Cost > bcrypt.MaxCost {
		return bcrypt.DefaultCost
	}
	return c.Cost
}
