package services

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/walklet/walklet-backend/internal/models"
)

const walletKeyAlg = "aes-256-gcm"

var (
	ErrWalletKeyMissing = errors.New("wallet encryption key not configured")
	ErrNoWalletBundle   = errors.New("user has no wallet key bundle")
)

// WalletService provisions custodial secp256k1 wallets and guards the
// encrypted private-key bundle. The master key is AES-256 (32 bytes, hex).
type WalletService struct {
	masterKey []byte
}

func NewWalletService(masterKeyHex string) (*WalletService, error) {
	if masterKeyHex == "" {
		return nil, ErrWalletKeyMissing
	}
	key, err := hex.DecodeString(masterKeyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid wallet encryption key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("wallet encryption key must be 32 bytes, got %d", len(key))
	}
	return &WalletService{masterKey: key}, nil
}

// Provision generates a fresh keypair and fills all wallet columns on the
// user. The four bundle fields are always written together so the
// all-present-or-all-absent invariant holds.
func (s *WalletService) Provision(user *models.User) error {
	priv, err := ethcrypto.GenerateKey()
	if err != nil {
		return fmt.Errorf("failed to generate wallet key: %w", err)
	}

	ciphertext, iv, tag, err := s.encrypt(ethcrypto.FromECDSA(priv))
	if err != nil {
		return err
	}

	address := ethcrypto.PubkeyToAddress(priv.PublicKey).Hex()
	alg := walletKeyAlg

	user.WalletAddress = &address
	user.WalletKeyCiphertext = &ciphertext
	user.WalletKeyIV = &iv
	user.WalletKeyTag = &tag
	user.WalletKeyAlg = &alg
	return nil
}

// ExportPrivateKey decrypts the stored bundle and returns the raw key hex.
// Development use only; the route is gated behind dev mode.
func (s *WalletService) ExportPrivateKey(user *models.User) (string, error) {
	if !user.HasWallet() {
		return "", ErrNoWalletBundle
	}
	plaintext, err := s.decrypt(*user.WalletKeyCiphertext, *user.WalletKeyIV, *user.WalletKeyTag)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(plaintext), nil
}

func (s *WalletService) encrypt(plaintext []byte) (ciphertextHex, ivHex, tagHex string, err error) {
	block, err := aes.NewCipher(s.masterKey)
	if err != nil {
		return "", "", "", err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", "", "", err
	}

	iv := make([]byte, aesgcm.NonceSize())
	if _, err := rand.Read(iv); err != nil {
		return "", "", "", err
	}

	// Seal appends the 16-byte auth tag; store it as a separate column.
	sealed := aesgcm.Seal(nil, iv, plaintext, nil)
	tagStart := len(sealed) - aesgcm.Overhead()
	return hex.EncodeToString(sealed[:tagStart]),
		hex.EncodeToString(iv),
		hex.EncodeToString(sealed[tagStart:]),
		nil
}

func (s *WalletService) decrypt(ciphertextHex, ivHex, tagHex string) ([]byte, error) {
	ciphertext, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return nil, fmt.Errorf("invalid ciphertext: %w", err)
	}
	iv, err := hex.DecodeString(ivHex)
	if err != nil {
		return nil, fmt.Errorf("invalid iv: %w", err)
	}
	tag, err := hex.DecodeString(tagHex)
	if err != nil {
		return nil, fmt.Errorf("invalid auth tag: %w", err)
	}

	block, err := aes.NewCipher(s.masterKey)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return aesgcm.Open(nil, iv, append(ciphertext, tag...), nil)
}
