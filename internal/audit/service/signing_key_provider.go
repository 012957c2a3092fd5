package service

import (
	"context"
	"encoding/base64"
	"fmt"

	"gocloud.dev/secrets"

	// Register KMS provider drivers for keeper URIs
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// LoadSigningKey unwraps the base64-encoded, KMS-wrapped audit signing key.
// The keeper URI selects the provider (gcpkms://, awskms://, azurekeyvault://,
// hashivault://, base64key:// for local development).
func LoadSigningKey(ctx context.Context, keeperURI, wrappedKey string) ([]byte, error) {
	keeper, err := secrets.OpenKeeper(ctx, keeperURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() { _ = keeper.Close() }()

	ciphertext, err := base64.StdEncoding.DecodeString(wrappedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode wrapped signing key: %w", err)
	}

	siteKey, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap signing key: %w", err)
	}

	return siteKey, nil
}
