package service

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/secrets"
)

func TestLoadSigningKey(t *testing.T) {
	ctx := context.Background()
	// Local keeper, no external KMS needed.
	keeperURI := "base64key://smGbjm71Nxd1Ig5FS0wj9SlbzAIrnolCz9bQQ6uAhl4="

	t.Run("Success", func(t *testing.T) {
		keeper, err := secrets.OpenKeeper(ctx, keeperURI)
		require.NoError(t, err)
		defer func() { _ = keeper.Close() }()

		siteKey := []byte("audit-site-key-material")
		ciphertext, err := keeper.Encrypt(ctx, siteKey)
		require.NoError(t, err)

		loaded, err := LoadSigningKey(ctx, keeperURI, base64.StdEncoding.EncodeToString(ciphertext))
		require.NoError(t, err)
		assert.Equal(t, siteKey, loaded)
	})

	t.Run("Error_BadKeeperURI", func(t *testing.T) {
		_, err := LoadSigningKey(ctx, "not-a-keeper://", "aGVsbG8=")
		assert.Error(t, err)
	})

	t.Run("Error_BadBase64", func(t *testing.T) {
		_, err := LoadSigningKey(ctx, keeperURI, "%%%not-base64%%%")
		assert.Error(t, err)
	})
}
