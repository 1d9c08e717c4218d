package sdk

// Signer holds a key pair used to authorize operations.
type Signer interface {
	// PublicKeyHash returns the account address of the key.
	PublicKeyHash() string
	// PublicKey returns the encoded public key.
	PublicKey() string
	// Sign returns the raw signature of the message digest.
	Sign(message []byte) ([]byte, error)
}
