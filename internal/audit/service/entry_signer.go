package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	auditDomain "github.com/carebridgehq/chartgate/internal/audit/domain"
)

// EntrySigner adds an HMAC over the entry hash so a site key is needed to
// forge entries, not just database write access. Signing is optional; the
// no-op signer is used when no key is configured.
type EntrySigner interface {
	Sign(entry *auditDomain.AuditEntry) (string, error)
	Verify(entry *auditDomain.AuditEntry) error
}

type hmacEntrySigner struct {
	signingKey []byte
}

// NewHMACEntrySigner derives a dedicated signing key from the site key via
// HKDF-SHA256 and signs entry hashes with HMAC-SHA256. The info string is
// versioned so a future algorithm change derives a different key.
func NewHMACEntrySigner(siteKey []byte) (EntrySigner, error) {
	info := []byte("audit-entry-signing-v1")
	kdf := hkdf.New(sha256.New, siteKey, nil, info)

	signingKey := make([]byte, 32)
	if _, err := io.ReadFull(kdf, signingKey); err != nil {
		return nil, fmt.Errorf("failed to derive signing key: %w", err)
	}

	return &hmacEntrySigner{signingKey: signingKey}, nil
}

// Sign returns the hex HMAC-SHA256 of the entry's chain hash.
func (s *hmacEntrySigner) Sign(entry *auditDomain.AuditEntry) (string, error) {
	mac := hmac.New(sha256.New, s.signingKey)
	mac.Write([]byte(entry.Hash))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Verify checks the entry signature against its chain hash.
func (s *hmacEntrySigner) Verify(entry *auditDomain.AuditEntry) error {
	expected, err := s.Sign(entry)
	if err != nil {
		return err
	}
	if !hmac.Equal([]byte(entry.Signature), []byte(expected)) {
		return auditDomain.ErrSignatureInvalid
	}
	return nil
}

type noopEntrySigner struct{}

// NewNoopEntrySigner creates a signer that leaves entries unsigned. Used when
// no audit signing key is configured; the hash chain alone still detects
// tampering, it just does not bind entries to a key.
func NewNoopEntrySigner() EntrySigner {
	return &noopEntrySigner{}
}

func (s *noopEntrySigner) Sign(*auditDomain.AuditEntry) (string, error) { return "", nil }

// Verify accepts everything: with signing disabled the hash chain remains the
// only integrity mechanism, and entries signed before a key was removed must
// not fail verification.
func (s *noopEntrySigner) Verify(*auditDomain.AuditEntry) error { return nil }
