// Package service provides authentication-related services for secret
// generation and token management.
package service

// SecretService handles actor secret generation and verification.
type SecretService interface {
	// GenerateSecret creates a random secret and its Argon2id hash.
	GenerateSecret() (plainSecret string, hashedSecret string, err error)
	// HashSecret hashes a plain secret.
	HashSecret(plainSecret string) (hashedSecret string, err error)
	// CompareSecret verifies a plain secret against its hash in constant time.
	CompareSecret(plainSecret string, hashedSecret string) bool
}

// TokenService handles bearer token generation and hashing.
type TokenService interface {
	// GenerateToken creates a random token and its SHA-256 hash.
	GenerateToken() (plainToken string, tokenHash string, err error)
	// HashToken hashes a plain token for lookup.
	HashToken(plainToken string) string
}
