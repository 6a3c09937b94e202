package handlers

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/walklet/walklet-backend/internal/dto"
	"github.com/walklet/walklet-backend/internal/middleware"
	"github.com/walklet/walklet-backend/internal/models"
	"github.com/walklet/walklet-backend/internal/services"
)

type MealHandler struct {
	mealService *services.MealService
}

func NewMealHandler(mealService *services.MealService) *MealHandler {
	return &MealHandler{mealService: mealService}
}

// AnalyzeMeal accepts a multipart upload with an `image` part and optional
// `meal_type` and `hint` form fields. The image is scored and discarded; only
// the analysis row is kept.
func (h *MealHandler) AnalyzeMeal(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "An image file is required",
		})
	}

	mealType := c.FormValue("meal_type")
	hint := c.FormValue("hint")

	analysis, items, err := h.mealService.Analyze(userID, mealType, file.Size, hint)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidMealType),
			errors.Is(err, services.ErrEmptyImage):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrDailyMealLimit),
			errors.Is(err, services.ErrMealTypeTaken):
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to analyze meal",
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(toMealResponse(analysis, items))
}

func (h *MealHandler) GetMyMeals(c *fiber.Ctx) error {
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

	meals, total, err := h.mealService.GetUserMeals(userID, limit, (page-1)*limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load meal analyses",
		})
	}

	resp := dto.MealListResponse{
		Meals: make([]dto.MealAnalysisResponse, 0, len(meals)),
		Total: total,
		Page:  page,
		Limit: limit,
	}
	for i := range meals {
		var items []dto.MealItem
		_ = json.Unmarshal(meals[i].Items, &items)
		resp.Meals = append(resp.Meals, toMealResponse(&meals[i], items))
	}
	return c.JSON(resp)
}

func toMealResponse(m *models.MealAnalysis, items []dto.MealItem) dto.MealAnalysisResponse {
	if items == nil {
		items = []dto.MealItem{}
	}
	return dto.MealAnalysisResponse{
		ID:        m.ID,
		MealType:  m.MealType,
		Calories:  m.Calories,
		ProteinG:  m.ProteinG,
		CarbsG:    m.CarbsG,
		FatG:      m.FatG,
		Items:     items,
		CreatedAt: m.CreatedAt,
	}
}
