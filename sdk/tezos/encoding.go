package tezos

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

// Base58check prefixes of the encoded values handled by this package.
var (
	prefixTz1          = []byte{6, 161, 159}
	prefixTz2          = []byte{6, 161, 161}
	prefixTz3          = []byte{6, 161, 164}
	prefixKT1          = []byte{2, 90, 121}
	prefixEdpk         = []byte{13, 15, 37, 217}
	prefixEdskSeed     = []byte{13, 15, 58, 7}
	prefixEdskSecret   = []byte{43, 246, 78, 7}
	prefixEdsig        = []byte{9, 245, 205, 134, 18}
	prefixBlockHash    = []byte{1, 52}
	prefixOpHash       = []byte{5, 116}
	prefixProtocolHash = []byte{2, 170}
)

const (
	addressHashLen = 20
	checksumLen    = 4

	// watermarkGenericOperation is prepended to forged manager operations before signing.
	watermarkGenericOperation = 0x03
)

var ErrChecksum = errors.New("invalid base58check checksum")

// Base58CheckEncode encodes payload behind prefix with a double-SHA256 checksum.
func Base58CheckEncode(prefix, payload []byte) string {
	data := make([]byte, 0, len(prefix)+len(payload)+checksumLen)
	data = append(data, prefix...)
	data = append(data, payload...)
	sum := doubleSHA256(data)

	return base58.Encode(append(data, sum[:checksumLen]...))
}

// Base58CheckDecode decodes s, checks its checksum and strips prefix.
func Base58CheckDecode(s string, prefix []byte) ([]byte, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("decode base58 %q: %w", s, err)
	}
	if len(raw) < len(prefix)+checksumLen {
		return nil, fmt.Errorf("decode base58 %q: too short", s)
	}

	data, sum := raw[:len(raw)-checksumLen], raw[len(raw)-checksumLen:]
	check := doubleSHA256(data)
	if !bytes.Equal(check[:checksumLen], sum) {
		return nil, ErrChecksum
	}
	if !bytes.HasPrefix(data, prefix) {
		return nil, fmt.Errorf("decode base58 %q: unexpected prefix", s)
	}

	return data[len(prefix):], nil
}

func doubleSHA256(b []byte) [32]byte {
	first := sha256.Sum256(b)
	return sha256.Sum256(first[:])
}

func addressPrefix(address string) ([]byte, error) {
	switch {
	case strings.HasPrefix(address, "tz1"):
		return prefixTz1, nil
	case strings.HasPrefix(address, "tz2"):
		return prefixTz2, nil
	case strings.HasPrefix(address, "tz3"):
		return prefixTz3, nil
	case strings.HasPrefix(address, "KT1"):
		return prefixKT1, nil
	default:
		return nil, fmt.Errorf("unsupported address %q", address)
	}
}

// ValidateAddress checks that address is a well-formed implicit or originated account.
func ValidateAddress(address string) error {
	prefix, err := addressPrefix(address)
	if err != nil {
		return err
	}

	hash, err := Base58CheckDecode(address, prefix)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", address, err)
	}
	if len(hash) != addressHashLen {
		return fmt.Errorf("invalid address %q: hash length %d", address, len(hash))
	}

	return nil
}

// IsContractAddress reports whether address designates an originated contract.
func IsContractAddress(address string) bool {
	return strings.HasPrefix(address, "KT1")
}

// AddressFromBytes decodes the 22-byte binary form of an address, as found in optimized
// contract storage.
func AddressFromBytes(b []byte) (string, error) {
	if len(b) != addressHashLen+2 {
		return "", fmt.Errorf("invalid binary address length %d", len(b))
	}

	switch b[0] {
	case 0x00:
		var prefix []byte
		switch b[1] {
		case 0x00:
			prefix = prefixTz1
		case 0x01:
			prefix = prefixTz2
		case 0x02:
			prefix = prefixTz3
		default:
			return "", fmt.Errorf("unsupported key tag %d", b[1])
		}

		return Base58CheckEncode(prefix, b[2:]), nil
	case 0x01:
		return Base58CheckEncode(prefixKT1, b[1:1+addressHashLen]), nil
	default:
		return "", fmt.Errorf("unsupported address tag %d", b[0])
	}
}

// AddressBytes returns the 22-byte binary form of address.
func AddressBytes(address string) ([]byte, error) {
	if err := ValidateAddress(address); err != nil {
		return nil, err
	}
	prefix, _ := addressPrefix(address)
	hash, _ := Base58CheckDecode(address, prefix)

	out := make([]byte, 0, addressHashLen+2)
	switch {
	case bytes.Equal(prefix, prefixKT1):
		out = append(out, 0x01)
		out = append(out, hash...)

		return append(out, 0x00), nil
	case bytes.Equal(prefix, prefixTz1):
		out = append(out, 0x00, 0x00)
	case bytes.Equal(prefix, prefixTz2):
		out = append(out, 0x00, 0x01)
	default:
		out = append(out, 0x00, 0x02)
	}

	return append(out, hash...), nil
}

// PublicKeyHash derives the tz1 address of an ed25519 public key.
func PublicKeyHash(publicKey []byte) string {
	h, _ := blake2b.New(addressHashLen, nil)
	h.Write(publicKey)

	return Base58CheckEncode(prefixTz1, h.Sum(nil))
}

// OperationHash returns the hash of a signed operation.
func OperationHash(signed []byte) string {
	sum := blake2b.Sum256(signed)
	return Base58CheckEncode(prefixOpHash, sum[:])
}

// OriginatedAddress returns the address of the index-th contract originated by the
// operation with the given hash.
func OriginatedAddress(opHash string, index uint32) (string, error) {
	raw, err := Base58CheckDecode(opHash, prefixOpHash)
	if err != nil {
		return "", err
	}

	h, _ := blake2b.New(addressHashLen, nil)
	h.Write(raw)
	_ = binary.Write(h, binary.BigEndian, index)

	return Base58CheckEncode(prefixKT1, h.Sum(nil)), nil
}

// BlockHash encodes a 32-byte digest as a block hash.
func BlockHash(digest [32]byte) string {
	return Base58CheckEncode(prefixBlockHash, digest[:])
}

// ProtocolHash encodes a 32-byte digest as a protocol hash.
func ProtocolHash(digest [32]byte) string {
	return Base58CheckEncode(prefixProtocolHash, digest[:])
}

// EncodeSignature encodes a raw ed25519 signature.
func EncodeSignature(sig []byte) string {
	return Base58CheckEncode(prefixEdsig, sig)
}

// DecodeSignature decodes an edsig signature.
func DecodeSignature(s string) ([]byte, error) {
	return Base58CheckDecode(s, prefixEdsig)
}

// SigningPayload returns the bytes a signer signs for a forged manager operation.
func SigningPayload(forged []byte) []byte {
	payload := make([]byte, 0, len(forged)+1)
	payload = append(payload, watermarkGenericOperation)

	return append(payload, forged...)
}
