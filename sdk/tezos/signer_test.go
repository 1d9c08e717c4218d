package tezos

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInMemorySigner(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		give       string
		wantPKH    string
		wantErrMsg string
	}{
		{name: "alice", give: aliceSecretKey, wantPKH: alicePKH},
		{name: "bob", give: bobSecretKey, wantPKH: bobPKH},
		{name: "secp256k1 key", give: "spsk2Fiz7sGP5fNMJrokp6ynTa4bcFbsRhw58FHXbNf5ProDNFJ5Xq", wantErrMsg: "only unencrypted ed25519 keys are supported"},
		{name: "encrypted key", give: "edesk1GXwWmGjXiLHBKxGBxwmNvG21vKBh6FBxc4CyJ8adQQE2avP5vBB57ZUZ93Anm7i4k8RmsHaPzVAvpnHkFF", wantErrMsg: "only unencrypted ed25519 keys are supported"},
		{name: "garbage", give: "edsk-not-a-key", wantErrMsg: "invalid ed25519 secret key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			signer, err := NewInMemorySigner(tt.give)

			if tt.wantErrMsg != "" {
				require.ErrorContains(t, err, tt.wantErrMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPKH, signer.PublicKeyHash())
		})
	}
}

func TestInMemorySigner_PublicKey(t *testing.T) {
	t.Parallel()

	signer, err := NewInMemorySigner(aliceSecretKey)
	require.NoError(t, err)
	assert.Equal(t, alicePublicKey, signer.PublicKey())

	pkh, err := PublicKeyHashFromPublicKey(signer.PublicKey())
	require.NoError(t, err)
	assert.Equal(t, alicePKH, pkh)
}

func TestInMemorySigner_ExpandedSecretKey(t *testing.T) {
	t.Parallel()

	seeded, err := NewInMemorySigner(aliceSecretKey)
	require.NoError(t, err)

	expanded := Base58CheckEncode(prefixEdskSecret, seeded.key)
	assert.Len(t, expanded, 98)

	signer, err := NewInMemorySigner(expanded)
	require.NoError(t, err)
	assert.Equal(t, alicePKH, signer.PublicKeyHash())
}

func TestSignAndVerify(t *testing.T) {
	t.Parallel()

	signer, err := NewInMemorySigner(aliceSecretKey)
	require.NoError(t, err)

	message := SigningPayload([]byte("forged operation"))
	sig, err := signer.Sign(message)
	require.NoError(t, err)
	require.Len(t, sig, ed25519.SignatureSize)

	ok, err := Verify(signer.PublicKey(), message, sig)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Verify(signer.PublicKey(), []byte("tampered"), sig)
	require.NoError(t, err)
	assert.False(t, ok)

	bob, err := NewInMemorySigner(bobSecretKey)
	require.NoError(t, err)
	ok, err = Verify(bob.PublicKey(), message, sig)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = Verify(alicePKH, message, sig)
	require.Error(t, err)

	encoded := EncodeSignature(sig)
	assert.Equal(t, "edsig", encoded[:5])
	decoded, err := DecodeSignature(encoded)
	require.NoError(t, err)
	assert.Equal(t, sig, decoded)
}
