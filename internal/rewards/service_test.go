package rewards

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/walklet/walklet-backend/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A second pooled connection would see its own empty in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, walletAddr string) *models.User {
	t.Helper()
	user := &models.User{
		ID:    uuid.New(),
		Email: strings.ToLower(uuid.NewString()[:8]) + "@walklet.test",
	}
	if walletAddr != "" {
		user.WalletAddress = &walletAddr
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func storedNonce(t *testing.T, db *gorm.DB, id uuid.UUID) int64 {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, "id = ?", id).Error)
	return user.LastRewardNonce
}

type failingSigner struct{}

func (failingSigner) Sign([]byte) ([]byte, error) {
	return nil, errors.New("hsm unavailable")
}

func (failingSigner) Address() common.Address { return common.Address{} }

func TestNonceSequencerStartsAtOneAndIncrements(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "")
	seq := NewGormNonceSequencer(db)

	for want := int64(1); want <= 5; want++ {
		got, err := seq.NextNonce(user.ID)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, int64(5), storedNonce(t, db, user.ID))
}

func TestNonceSequencerIsPerUser(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "")
	bob := createTestUser(t, db, "")
	seq := NewGormNonceSequencer(db)

	for i := 0; i < 3; i++ {
		_, err := seq.NextNonce(alice.ID)
		require.NoError(t, err)
	}
	got, err := seq.NextNonce(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got, "counters must not bleed across users")
}

func TestNonceSequencerUnknownUser(t *testing.T) {
	db := newTestDB(t)
	seq := NewGormNonceSequencer(db)

	_, err := seq.NextNonce(uuid.New())
	require.ErrorIs(t, err, ErrUserNotFound)
}

func newTestService(t *testing.T, db *gorm.DB) (*Service, *KeySigner) {
	t.Helper()
	builder, err := NewVoucherBuilder(testContract, 80002, 10)
	require.NoError(t, err)
	signer, err := NewKeySigner(testSignerKey)
	require.NoError(t, err)
	return NewService(db, builder, signer, NewGormNonceSequencer(db)), signer
}

func TestIssueWalkVoucherEndToEnd(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, testRecipient)
	svc, signer := newTestService(t, db)

	result, err := svc.IssueWalkVoucher(user.ID, 35, "")
	require.NoError(t, err)

	assert.Equal(t, int64(3), result.STPC)
	assert.Equal(t, "3000000000000000000", result.Amount)
	assert.Equal(t, int64(1), result.Nonce)
	assert.Equal(t, int64(80002), result.ChainID)
	assert.Equal(t, int64(10), result.StepsPerSTPC)
	assert.True(t, ValidAddress(result.ContractAddress))
	assert.True(t, ValidAddress(result.User))
	assert.True(t, strings.HasPrefix(result.Signature, "0x"))
	assert.Len(t, result.Signature, 2+65*2)

	// The returned signature must recover to the issuing key over the
	// voucher digest recomputed from the response fields.
	voucher, err := svc.builder.Build(35, result.User)
	require.NoError(t, err)
	voucher.Nonce = result.Nonce

	sig, err := hex.DecodeString(strings.TrimPrefix(result.Signature, "0x"))
	require.NoError(t, err)
	sig[64] -= 27
	prefixed := crypto.Keccak256([]byte(personalPrefix), voucher.Digest())
	pub, err := crypto.SigToPub(prefixed, sig)
	require.NoError(t, err)
	assert.Equal(t, signer.Address(), crypto.PubkeyToAddress(*pub))

	// A second issuance gets the next nonce and a different signature.
	second, err := svc.IssueWalkVoucher(user.ID, 35, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Nonce)
	assert.NotEqual(t, result.Signature, second.Signature)
}

func TestIssueWalkVoucherInsufficientSteps(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, testRecipient)
	svc, _ := newTestService(t, db)

	_, err := svc.IssueWalkVoucher(user.ID, 5, "")
	require.ErrorIs(t, err, ErrInsufficientSteps)
	assert.Contains(t, err.Error(), "10")

	assert.Equal(t, int64(0), storedNonce(t, db, user.ID),
		"a rejected request must not consume a nonce")
}

func TestIssueWalkVoucherRecipientOverride(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "") // no wallet on file
	svc, _ := newTestService(t, db)

	override := "0x9999999999999999999999999999999999999999"
	result, err := svc.IssueWalkVoucher(user.ID, 100, override)
	require.NoError(t, err)
	assert.Equal(t, override, strings.ToLower(result.User))

	_, err = svc.IssueWalkVoucher(user.ID, 100, "0xnothex")
	require.ErrorIs(t, err, ErrInvalidRecipient)
}

func TestIssueWalkVoucherNoWallet(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "")
	svc, _ := newTestService(t, db)

	_, err := svc.IssueWalkVoucher(user.ID, 100, "")
	require.ErrorIs(t, err, ErrNoWallet)
	assert.Equal(t, int64(0), storedNonce(t, db, user.ID))
}

func TestIssueWalkVoucherSignerFailureBurnsNonce(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, testRecipient)

	builder, err := NewVoucherBuilder(testContract, 80002, 10)
	require.NoError(t, err)
	seq := NewGormNonceSequencer(db)

	broken := NewService(db, builder, failingSigner{}, seq)
	_, err = broken.IssueWalkVoucher(user.ID, 50, "")
	require.Error(t, err)
	assert.Equal(t, int64(1), storedNonce(t, db, user.ID))

	// Recovery skips the burned value instead of reusing it.
	healthy, _ := newTestService(t, db)
	result, err := healthy.IssueWalkVoucher(user.ID, 50, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Nonce)
}
