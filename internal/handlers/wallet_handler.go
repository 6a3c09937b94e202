package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/walklet/walklet-backend/internal/dto"
	"github.com/walklet/walklet-backend/internal/middleware"
	"github.com/walklet/walklet-backend/internal/services"
)

type WalletHandler struct {
	profileService *services.ProfileService
	walletService  *services.WalletService
}

// NewWalletHandler takes a possibly-nil wallet service; without a master key
// only the read endpoint works.
func NewWalletHandler(profileService *services.ProfileService, walletService *services.WalletService) *WalletHandler {
	return &WalletHandler{profileService: profileService, walletService: walletService}
}

func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	user, err := h.profileService.Get(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	resp := dto.WalletResponse{Created: user.HasWallet()}
	if user.WalletAddress != nil {
		resp.Address = *user.WalletAddress
	}
	return c.JSON(resp)
}

// ExportKey is mounted under the dev-only group.
func (h *WalletHandler) ExportKey(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	if h.walletService == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Wallet encryption key not configured",
		})
	}

	user, err := h.profileService.Get(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	key, err := h.walletService.ExportPrivateKey(user)
	if err != nil {
		if errors.Is(err, services.ErrNoWalletBundle) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "No wallet on this account",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to decrypt wallet key",
		})
	}

	return c.JSON(dto.WalletExportResponse{
		Address:    *user.WalletAddress,
		PrivateKey: key,
	})
}
