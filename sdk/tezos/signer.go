package tezos

import (
	"crypto/ed25519"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/ecadlabs/taco-shop/sdk"
)

var _ sdk.Signer = (*InMemorySigner)(nil)

// InMemorySigner signs with an ed25519 key held in memory.
type InMemorySigner struct {
	key ed25519.PrivateKey
	pub ed25519.PublicKey
	pkh string
}

// NewInMemorySigner parses an unencrypted edsk secret key, either the 32-byte seed form or
// the 64-byte expanded form.
func NewInMemorySigner(secretKey string) (*InMemorySigner, error) {
	if !strings.HasPrefix(secretKey, "edsk") {
		return nil, fmt.Errorf("unsupported secret key: only unencrypted ed25519 keys are supported")
	}

	var key ed25519.PrivateKey
	if seed, err := Base58CheckDecode(secretKey, prefixEdskSeed); err == nil && len(seed) == ed25519.SeedSize {
		key = ed25519.NewKeyFromSeed(seed)
	} else if full, err := Base58CheckDecode(secretKey, prefixEdskSecret); err == nil && len(full) == ed25519.PrivateKeySize {
		key = ed25519.PrivateKey(full)
	} else {
		return nil, fmt.Errorf("invalid ed25519 secret key")
	}

	pub, ok := key.Public().(ed25519.PublicKey)
	if !ok {
		return nil, fmt.Errorf("unexpected public key type %T", key.Public())
	}

	return &InMemorySigner{
		key: key,
		pub: pub,
		pkh: PublicKeyHash(pub),
	}, nil
}

// PublicKeyHash returns the tz1 address of the key.
func (s *InMemorySigner) PublicKeyHash() string {
	return s.pkh
}

// PublicKey returns the edpk encoded public key.
func (s *InMemorySigner) PublicKey() string {
	return Base58CheckEncode(prefixEdpk, s.pub)
}

// Sign signs the blake2b-256 digest of message.
func (s *InMemorySigner) Sign(message []byte) ([]byte, error) {
	digest := blake2b.Sum256(message)
	return ed25519.Sign(s.key, digest[:]), nil
}

// Verify checks a signature produced by Sign against an edpk encoded public key.
func Verify(publicKey string, message, sig []byte) (bool, error) {
	pub, err := Base58CheckDecode(publicKey, prefixEdpk)
	if err != nil {
		return false, err
	}
	if len(pub) != ed25519.PublicKeySize {
		return false, fmt.Errorf("invalid ed25519 public key length %d", len(pub))
	}

	digest := blake2b.Sum256(message)

	return ed25519.Verify(ed25519.PublicKey(pub), digest[:], sig), nil
}

// PublicKeyHashFromPublicKey derives the tz1 address of an edpk encoded public key.
func PublicKeyHashFromPublicKey(publicKey string) (string, error) {
	pub, err := Base58CheckDecode(publicKey, prefixEdpk)
	if err != nil {
		return "", err
	}

	return PublicKeyHash(pub), nil
}
