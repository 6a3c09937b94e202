package rewards

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/walklet/walklet-backend/internal/middleware"
)

// Handler exposes the dev voucher endpoint. svc is nil when the reward
// configuration is missing; the endpoint then reports the feature as
// unconfigured while the rest of the service keeps running.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type issueWalkRequest struct {
	Steps float64 `json:"steps"`
	To    string  `json:"to"`
}

// IssueWalkVoucher handles POST /dev/rewards/voucher-walk. Error bodies are
// {"error": string} as redeemer tooling expects.
func (h *Handler) IssueWalkVoucher(c *fiber.Ctx) error {
	if h.svc == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": ErrNotConfigured.Error(),
		})
	}

	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req issueWalkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	result, err := h.svc.IssueWalkVoucher(userID, req.Steps, req.To)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidSteps),
			errors.Is(err, ErrInvalidRecipient),
			errors.Is(err, ErrInsufficientSteps),
			errors.Is(err, ErrNoWallet):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(result)
}
