package rewards

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signer produces recoverable secp256k1 signatures over voucher digests.
// Injected into the issuer so tests can substitute their own key or a double.
type Signer interface {
	Sign(digest []byte) ([]byte, error)
	Address() common.Address
}

// personalPrefix is the Ethereum signed-message prefix for a 32-byte payload;
// the verifying contract applies the same prefix before ecrecover.
const personalPrefix = "\x19Ethereum Signed Message:\n32"

// KeySigner holds the server reward key, loaded once at startup from a
// 32-byte hex secret.
type KeySigner struct {
	key *ecdsa.PrivateKey
}

// NewKeySigner parses a 32-byte hex secret (with or without 0x prefix).
func NewKeySigner(secretHex string) (*KeySigner, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(secretHex), "0x")
	b, err := hex.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("reward signer key is not valid hex: %w", err)
	}
	if len(b) != 32 {
		return nil, fmt.Errorf("reward signer key must be 32 bytes, got %d", len(b))
	}
	key, err := crypto.ToECDSA(b)
	if err != nil {
		return nil, fmt.Errorf("reward signer key is not a valid secp256k1 scalar: %w", err)
	}
	return &KeySigner{key: key}, nil
}

// Sign hashes the digest with the personal-message prefix and returns the
// 65-byte [R || S || V] signature with V in {27, 28}. Deterministic for a
// given (key, digest); never retried.
func (s *KeySigner) Sign(digest []byte) ([]byte, error) {
	prefixed := crypto.Keccak256([]byte(personalPrefix), digest)
	sig, err := crypto.Sign(prefixed, s.key)
	if err != nil {
		return nil, fmt.Errorf("voucher signing failed: %w", err)
	}
	sig[64] += 27
	return sig, nil
}

func (s *KeySigner) Address() common.Address {
	return crypto.PubkeyToAddress(s.key.PublicKey)
}
