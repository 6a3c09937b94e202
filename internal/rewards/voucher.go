package rewards

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"regexp"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// DomainTag separates reward digests from any other signed payloads. The
// on-chain verifier packs the same tag when recomputing the digest.
const DomainTag = "WALKLET_REWARD"

var (
	ErrInvalidSteps      = errors.New("steps must be a non-negative finite number")
	ErrInvalidRecipient  = errors.New("recipient must be a 0x-prefixed 40-hex-character address")
	ErrInsufficientSteps = errors.New("not enough steps")
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// ValidAddress reports whether s is exactly 0x followed by 40 hex characters.
func ValidAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// tokenUnit scales whole STPC tokens to the token's 18-decimal smallest unit.
var tokenUnit = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// Voucher is the off-chain authorization assembled by the builder. Amount is
// in the token's smallest unit; STPC is the whole-token count.
type Voucher struct {
	Contract  common.Address
	ChainID   int64
	Recipient common.Address
	STPC      int64
	Amount    *big.Int
	Nonce     int64
}

// Digest is the Keccak-256 hash of the tightly packed voucher fields, packed
// exactly as the verifying contract's abi.encodePacked: the domain tag as raw
// bytes, addresses as 20 bytes, chain id, amount and nonce as 256-bit
// big-endian integers.
func (v *Voucher) Digest() []byte {
	return crypto.Keccak256(
		[]byte(DomainTag),
		v.Contract.Bytes(),
		common.LeftPadBytes(big.NewInt(v.ChainID).Bytes(), 32),
		v.Recipient.Bytes(),
		common.LeftPadBytes(v.Amount.Bytes(), 32),
		common.LeftPadBytes(big.NewInt(v.Nonce).Bytes(), 32),
	)
}

// VoucherBuilder converts step counts to token amounts for a fixed contract,
// chain and conversion rate.
type VoucherBuilder struct {
	contract      common.Address
	chainID       int64
	stepsPerToken int64
}

func NewVoucherBuilder(contractHex string, chainID, stepsPerToken int64) (*VoucherBuilder, error) {
	if !ValidAddress(contractHex) {
		return nil, fmt.Errorf("invalid reward contract address %q", contractHex)
	}
	if chainID <= 0 {
		return nil, fmt.Errorf("chain id must be positive, got %d", chainID)
	}
	if stepsPerToken < 1 {
		return nil, fmt.Errorf("steps per token must be at least 1, got %d", stepsPerToken)
	}
	return &VoucherBuilder{
		contract:      common.HexToAddress(contractHex),
		chainID:       chainID,
		stepsPerToken: stepsPerToken,
	}, nil
}

func (b *VoucherBuilder) StepsPerToken() int64 { return b.stepsPerToken }

// Build computes the whole-token amount for steps and assembles the voucher
// without a nonce; the issuer fills the nonce after sequencing. Fewer steps
// than one whole token is a rejection, not a zero voucher.
func (b *VoucherBuilder) Build(steps float64, recipient string) (*Voucher, error) {
	if math.IsNaN(steps) || math.IsInf(steps, 0) || steps < 0 {
		return nil, ErrInvalidSteps
	}
	if !ValidAddress(recipient) {
		return nil, ErrInvalidRecipient
	}

	tokens := int64(math.Floor(steps / float64(b.stepsPerToken)))
	if tokens <= 0 {
		return nil, fmt.Errorf("%w: minimum %d steps required for one STPC", ErrInsufficientSteps, b.stepsPerToken)
	}

	return &Voucher{
		Contract:  b.contract,
		ChainID:   b.chainID,
		Recipient: common.HexToAddress(recipient),
		STPC:      tokens,
		Amount:    new(big.Int).Mul(big.NewInt(tokens), tokenUnit),
	}, nil
}
