package rewards

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Throwaway key, not used anywhere outside these tests.
const testSignerKey = "0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"

func TestNewKeySignerValidation(t *testing.T) {
	_, err := NewKeySigner("")
	require.Error(t, err)

	_, err = NewKeySigner("0x1234")
	require.Error(t, err)

	_, err = NewKeySigner("zz" + testSignerKey[4:])
	require.Error(t, err)

	s, err := NewKeySigner(testSignerKey)
	require.NoError(t, err)
	assert.NotEqual(t, [20]byte{}, s.Address())

	// 0x prefix is optional
	s2, err := NewKeySigner(testSignerKey[2:])
	require.NoError(t, err)
	assert.Equal(t, s.Address(), s2.Address())
}

func TestSignDeterministicAndRecoverable(t *testing.T) {
	s, err := NewKeySigner(testSignerKey)
	require.NoError(t, err)

	digest := crypto.Keccak256([]byte("voucher digest under test"))

	sig, err := s.Sign(digest)
	require.NoError(t, err)
	require.Len(t, sig, 65)
	assert.True(t, sig[64] == 27 || sig[64] == 28, "v must be 27 or 28, got %d", sig[64])

	sig2, err := s.Sign(digest)
	require.NoError(t, err)
	assert.Equal(t, sig, sig2, "same key and digest must produce the same signature")

	// The signature must recover to the signer address over the
	// personal-message-prefixed digest, as ecrecover does on chain.
	prefixed := crypto.Keccak256([]byte(personalPrefix), digest)
	recoverable := make([]byte, 65)
	copy(recoverable, sig)
	recoverable[64] -= 27

	pub, err := crypto.SigToPub(prefixed, recoverable)
	require.NoError(t, err)
	assert.Equal(t, s.Address(), crypto.PubkeyToAddress(*pub))
}

func TestSignDifferentDigests(t *testing.T) {
	s, err := NewKeySigner(testSignerKey)
	require.NoError(t, err)

	sigA, err := s.Sign(crypto.Keccak256([]byte("a")))
	require.NoError(t, err)
	sigB, err := s.Sign(crypto.Keccak256([]byte("b")))
	require.NoError(t, err)
	assert.NotEqual(t, sigA, sigB)
}
