package services

import (
	"regexp"
	"strings"
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walklet/walklet-backend/internal/models"
)

const testMasterKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestNewWalletServiceValidation(t *testing.T) {
	_, err := NewWalletService("")
	require.ErrorIs(t, err, ErrWalletKeyMissing)

	_, err = NewWalletService("not hex at all")
	require.Error(t, err)

	_, err = NewWalletService("abcd") // 2 bytes
	require.Error(t, err)

	svc, err := NewWalletService(testMasterKey)
	require.NoError(t, err)
	require.NotNil(t, svc)
}

func TestProvisionFillsCompleteBundle(t *testing.T) {
	svc, err := NewWalletService(testMasterKey)
	require.NoError(t, err)

	user := &models.User{ID: uuid.New(), Email: "wallet@walklet.test"}
	require.NoError(t, svc.Provision(user))

	require.True(t, user.HasWallet())
	assert.Regexp(t, regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`), *user.WalletAddress)
	assert.Equal(t, "aes-256-gcm", *user.WalletKeyAlg)
	assert.NotEmpty(t, *user.WalletKeyCiphertext)
	assert.Len(t, *user.WalletKeyIV, 24)  // 12-byte GCM nonce, hex
	assert.Len(t, *user.WalletKeyTag, 32) // 16-byte auth tag, hex
}

func TestProvisionGeneratesDistinctKeys(t *testing.T) {
	svc, err := NewWalletService(testMasterKey)
	require.NoError(t, err)

	a := &models.User{ID: uuid.New(), Email: "a@walklet.test"}
	b := &models.User{ID: uuid.New(), Email: "b@walklet.test"}
	require.NoError(t, svc.Provision(a))
	require.NoError(t, svc.Provision(b))

	assert.NotEqual(t, *a.WalletAddress, *b.WalletAddress)
	assert.NotEqual(t, *a.WalletKeyCiphertext, *b.WalletKeyCiphertext)
}

func TestExportPrivateKeyRoundTrip(t *testing.T) {
	svc, err := NewWalletService(testMasterKey)
	require.NoError(t, err)

	user := &models.User{ID: uuid.New(), Email: "export@walklet.test"}
	require.NoError(t, svc.Provision(user))

	keyHex, err := svc.ExportPrivateKey(user)
	require.NoError(t, err)
	require.Len(t, keyHex, 64)

	// The exported key must derive the stored address.
	priv, err := ethcrypto.HexToECDSA(keyHex)
	require.NoError(t, err)
	assert.Equal(t, *user.WalletAddress, ethcrypto.PubkeyToAddress(priv.PublicKey).Hex())
}

func TestExportWithoutBundle(t *testing.T) {
	svc, err := NewWalletService(testMasterKey)
	require.NoError(t, err)

	user := &models.User{ID: uuid.New(), Email: "nobundle@walklet.test"}
	_, err = svc.ExportPrivateKey(user)
	require.ErrorIs(t, err, ErrNoWalletBundle)
}

func TestExportRejectsTamperedBundle(t *testing.T) {
	svc, err := NewWalletService(testMasterKey)
	require.NoError(t, err)

	user := &models.User{ID: uuid.New(), Email: "tamper@walklet.test"}
	require.NoError(t, svc.Provision(user))

	tag := *user.WalletKeyTag
	flipped := flipHexChar(tag)
	user.WalletKeyTag = &flipped

	_, err = svc.ExportPrivateKey(user)
	require.Error(t, err, "GCM must reject a modified auth tag")
}

func TestExportRejectsWrongMasterKey(t *testing.T) {
	svc, err := NewWalletService(testMasterKey)
	require.NoError(t, err)

	user := &models.User{ID: uuid.New(), Email: "wrongkey@walklet.test"}
	require.NoError(t, svc.Provision(user))

	other, err := NewWalletService(strings.Repeat("ff", 32))
	require.NoError(t, err)

	_, err = other.ExportPrivateKey(user)
	require.Error(t, err)
}

func flipHexChar(s string) string {
	b := []byte(s)
	if b[0] == '0' {
		b[0] = '1'
	} else {
		b[0] = '0'
	}
	return string(b)
}
