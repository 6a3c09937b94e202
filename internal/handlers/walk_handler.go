package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/walklet/walklet-backend/internal/dto"
	"github.com/walklet/walklet-backend/internal/middleware"
	"github.com/walklet/walklet-backend/internal/models"
	"github.com/walklet/walklet-backend/internal/services"
)

type WalkHandler struct {
	walkService *services.WalkService
}

func NewWalkHandler(walkService *services.WalkService) *WalkHandler {
	return &WalkHandler{walkService: walkService}
}

func (h *WalkHandler) CreateWalk(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateWalkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	session, created, err := h.walkService.CreateSession(userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSession) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to save walk session",
		})
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(toWalkResponse(session))
}

func (h *WalkHandler) GetMyWalks(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	sessions, total, err := h.walkService.GetUserSessions(userID, limit, (page-1)*limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load walk sessions",
		})
	}

	resp := dto.WalkListResponse{
		Walks: make([]dto.WalkResponse, 0, len(sessions)),
		Total: total,
		Page:  page,
		Limit: limit,
	}
	for i := range sessions {
		resp.Walks = append(resp.Walks, toWalkResponse(&sessions[i]))
	}
	return c.JSON(resp)
}

func (h *WalkHandler) GetStats(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	stats, err := h.walkService.GetStats(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to aggregate walk stats",
		})
	}
	return c.JSON(stats)
}

// DeleteWalk is mounted under the dev-only group.
func (h *WalkHandler) DeleteWalk(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid session id",
		})
	}

	if err := h.walkService.DeleteSession(userID, sessionID); err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Walk session not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete walk session",
		})
	}

	return c.JSON(fiber.Map{"message": "Walk session deleted"})
}

func toWalkResponse(s *models.WalkSession) dto.WalkResponse {
	return dto.WalkResponse{
		ID:          s.ID,
		StartedAt:   s.StartedAt,
		EndedAt:     s.EndedAt,
		DurationSec: s.DurationSec,
		DistanceM:   s.DistanceM,
		Steps:       s.Steps,
		CreatedAt:   s.CreatedAt,
	}
}
