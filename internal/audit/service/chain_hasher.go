// Package service implements the cryptographic pieces of the audit chain:
// canonical entry hashing and optional per-entry HMAC signatures.
package service

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	auditDomain "github.com/carebridgehq/chartgate/internal/audit/domain"
)

// ChainHasher computes the chain hash of an audit entry.
type ChainHasher interface {
	// ComputeHash returns the hex SHA-256 over the entry's canonical form,
	// which includes PrevHash. The entry's own Hash and Signature fields are
	// never part of the input.
	ComputeHash(entry *auditDomain.AuditEntry) (string, error)
}

type chainHasher struct{}

// NewChainHasher creates a ChainHasher for the current hash version.
func NewChainHasher() ChainHasher {
	return &chainHasher{}
}

// ComputeHash canonicalizes the entry and hashes it with SHA-256.
func (h *chainHasher) ComputeHash(entry *auditDomain.AuditEntry) (string, error) {
	if entry.HashVersion != auditDomain.HashVersion {
		return "", auditDomain.ErrUnknownHashVersion
	}

	canonical, err := canonicalizeEntry(entry)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// canonicalizeEntry converts an entry to its canonical byte representation.
// Format: hash_version || id || actor_id || action || resource_kind ||
// resource_ids || sensitivity || program_id || consent_id || purpose ||
// origin || metadata || created_at || prev_hash.
// Variable-length fields are length-prefixed to prevent ambiguity; resource
// ids carry a count prefix so an empty list and a missing list differ from a
// shifted neighbor field; nil UUID pointers encode as zero-length fields.
func canonicalizeEntry(entry *auditDomain.AuditEntry) ([]byte, error) {
	// Estimate capacity to reduce allocations (typical entry ~1KB)
	buf := make([]byte, 0, 1024)

	buf = appendLengthPrefixed(buf, []byte(entry.HashVersion))

	// UUIDs are fixed 16 bytes
	buf = append(buf, entry.ID[:]...)
	buf = append(buf, entry.ActorID[:]...)

	buf = appendLengthPrefixed(buf, []byte(string(entry.Action)))
	buf = appendLengthPrefixed(buf, []byte(entry.ResourceKind))

	count := make([]byte, 4)
	binary.BigEndian.PutUint32(count, uint32(len(entry.ResourceIDs)))
	buf = append(buf, count...)
	for _, id := range entry.ResourceIDs {
		buf = append(buf, id[:]...)
	}

	buf = appendLengthPrefixed(buf, []byte(entry.Sensitivity))
	buf = appendOptionalUUID(buf, entry.ProgramID)
	buf = appendOptionalUUID(buf, entry.ConsentID)
	buf = appendLengthPrefixed(buf, []byte(entry.Purpose))
	buf = appendLengthPrefixed(buf, []byte(entry.Origin))

	if entry.Metadata != nil {
		// encoding/json sorts map keys, so this serialization is deterministic
		metadataBytes, err := json.Marshal(entry.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		buf = appendLengthPrefixed(buf, metadataBytes)
	} else {
		buf = appendLengthPrefixed(buf, nil)
	}

	timeBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(timeBytes, uint64(entry.CreatedAt.UnixNano()))
	buf = append(buf, timeBytes...)

	buf = appendLengthPrefixed(buf, []byte(entry.PrevHash))

	return buf, nil
}

// appendOptionalUUID encodes a nullable UUID: 16 length-prefixed bytes when
// present, a zero-length field when nil.
func appendOptionalUUID(buf []byte, id *uuid.UUID) []byte {
	if id == nil {
		return appendLengthPrefixed(buf, nil)
	}
	return appendLengthPrefixed(buf, id[:])
}

// appendLengthPrefixed adds a 4-byte big-endian length prefix followed by data.
// Panics if data length exceeds uint32 max to prevent integer overflow.
func appendLengthPrefixed(buf []byte, data []byte) []byte {
	dataLen := len(data)
	if dataLen > 0xFFFFFFFF {
		panic("data length exceeds uint32 max")
	}
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(dataLen))
	buf = append(buf, length...)
	buf = append(buf, data...)
	return buf
}
