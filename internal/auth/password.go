package auth

import "golang.org/x/crypto/bcrypt"

// PasswordHasher abstracts credential hashing and verification so the
// session orchestrator never touches a concrete algorithm.
type PasswordHasher interface {
	Hash(raw string) (string, error)
	Matches(raw, hash string) bool
}

// BcryptHasher implements PasswordHasher with bcrypt at a configured cost.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher builds a hasher, falling back to the bcrypt default cost
// when the configured value is out of range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash hashes a plaintext password.
func (h *BcryptHasher) Hash(raw string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Matches verifies a password against its stored hash.
func (h *BcryptHasher) Matches(raw, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}
