// Package service implements consent supporting services: content-addressed
// storage of the signed consent documents backing each consent record.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"gocloud.dev/blob"

	// Register blob drivers for bucket URLs (mem:// for development and
	// tests, file:// for single-node deployments, s3:// for production)
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

// ArtifactStore persists signed consent documents content-addressed by their
// SHA-256, so the stored hash on a consent row always resolves to exactly the
// bytes that were recorded.
type ArtifactStore interface {
	// Put stores the document and returns its hex SHA-256 hash.
	Put(ctx context.Context, document []byte) (string, error)
	// Get retrieves a document by its hash.
	Get(ctx context.Context, hash string) ([]byte, error)
	// Close releases the underlying bucket.
	Close() error
}

type blobArtifactStore struct {
	bucket *blob.Bucket
}

// NewArtifactStore opens the bucket named by bucketURL.
func NewArtifactStore(ctx context.Context, bucketURL string) (ArtifactStore, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact bucket: %w", err)
	}
	return &blobArtifactStore{bucket: bucket}, nil
}

// Put stores the document under its own hash. Re-storing identical bytes is a
// harmless overwrite with identical content.
func (s *blobArtifactStore) Put(ctx context.Context, document []byte) (string, error) {
	sum := sha256.Sum256(document)
	hash := hex.EncodeToString(sum[:])

	if err := s.bucket.WriteAll(ctx, artifactKey(hash), document, nil); err != nil {
		return "", fmt.Errorf("failed to write consent artifact: %w", err)
	}
	return hash, nil
}

// Get retrieves a document and checks it still matches its hash.
func (s *blobArtifactStore) Get(ctx context.Context, hash string) ([]byte, error) {
	reader, err := s.bucket.NewReader(ctx, artifactKey(hash), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open consent artifact: %w", err)
	}
	defer func() { _ = reader.Close() }()

	document, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read consent artifact: %w", err)
	}

	sum := sha256.Sum256(document)
	if hex.EncodeToString(sum[:]) != hash {
		return nil, fmt.Errorf("consent artifact %s does not match its hash", hash)
	}
	return document, nil
}

func (s *blobArtifactStore) Close() error {
	return s.bucket.Close()
}

func artifactKey(hash string) string {
	return "consent-artifacts/" + hash
}
