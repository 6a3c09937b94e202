package rewards

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/walklet/walklet-backend/internal/config"
	"github.com/walklet/walklet-backend/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrNotConfigured disables the voucher feature without taking down the
	// rest of the service.
	ErrNotConfigured = errors.New("reward signer not configured")
	ErrNoWallet      = errors.New("no recipient address: supply one or set a wallet address on the account")
)

// IssueResult mirrors the voucher-walk response body.
type IssueResult struct {
	ContractAddress string `json:"contractAddress"`
	ChainID         int64  `json:"chainId"`
	User            string `json:"user"`
	Amount          string `json:"amount"`
	Nonce           int64  `json:"nonce"`
	Signature       string `json:"signature"`
	STPC            int64  `json:"stpc"`
	StepsPerSTPC    int64  `json:"stepsPerStpc"`
}

// Service orchestrates voucher issuance: recipient resolution, amount
// conversion, nonce sequencing, digest signing. All collaborators are
// injected at construction.
type Service struct {
	db      *gorm.DB
	builder *VoucherBuilder
	signer  Signer
	seq     NonceSequencer
}

func NewService(db *gorm.DB, builder *VoucherBuilder, signer Signer, seq NonceSequencer) *Service {
	return &Service{db: db, builder: builder, signer: signer, seq: seq}
}

// NewServiceFromConfig builds the issuer from reward configuration, or
// returns ErrNotConfigured (wrapped) when the signer secret or contract
// address is absent or malformed.
func NewServiceFromConfig(db *gorm.DB, cfg *config.Config) (*Service, error) {
	if cfg.RewardSignerPrivKey == "" {
		return nil, ErrNotConfigured
	}
	signer, err := NewKeySigner(cfg.RewardSignerPrivKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotConfigured, err)
	}
	builder, err := NewVoucherBuilder(cfg.STPCContractAddress, cfg.ChainID, cfg.RewardStepsPerSTPC)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotConfigured, err)
	}
	return NewService(db, builder, signer, NewGormNonceSequencer(db)), nil
}

// IssueWalkVoucher converts steps to a signed voucher for the user. The
// recipient is the override address when given, else the user's on-file
// wallet address. The nonce bump is durable before signing: a signature
// failure after the bump burns that nonce value rather than reusing it.
func (s *Service) IssueWalkVoucher(userID uuid.UUID, steps float64, recipientOverride string) (*IssueResult, error) {
	recipient, err := s.resolveRecipient(userID, recipientOverride)
	if err != nil {
		return nil, err
	}

	voucher, err := s.builder.Build(steps, recipient)
	if err != nil {
		return nil, err
	}

	nonce, err := s.seq.NextNonce(userID)
	if err != nil {
		return nil, err
	}
	voucher.Nonce = nonce

	signature, err := s.signer.Sign(voucher.Digest())
	if err != nil {
		return nil, err
	}

	return &IssueResult{
		ContractAddress: voucher.Contract.Hex(),
		ChainID:         voucher.ChainID,
		User:            voucher.Recipient.Hex(),
		Amount:          voucher.Amount.String(),
		Nonce:           voucher.Nonce,
		Signature:       "0x" + hex.EncodeToString(signature),
		STPC:            voucher.STPC,
		StepsPerSTPC:    s.builder.StepsPerToken(),
	}, nil
}

func (s *Service) resolveRecipient(userID uuid.UUID, override string) (string, error) {
	if override != "" {
		if !ValidAddress(override) {
			return "", ErrInvalidRecipient
		}
		return override, nil
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to load user: %w", err)
	}
	if user.WalletAddress == nil || !ValidAddress(*user.WalletAddress) {
		return "", ErrNoWallet
	}
	return *user.WalletAddress, nil
}
