package handlers

import (
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/walklet/walklet-backend/internal/config"
	"github.com/walklet/walklet-backend/internal/dto"
	"github.com/walklet/walklet-backend/internal/models"
	"gorm.io/gorm"
)

type AppConfigHandler struct {
	db *gorm.DB
}

func NewAppConfigHandler(db *gorm.DB) *AppConfigHandler {
	return &AppConfigHandler{db: db}
}

// SeedDefaults creates client-visible config keys the mobile app reads,
// without overwriting existing overrides.
func (h *AppConfigHandler) SeedDefaults(cfg *config.Config) {
	defaults := []models.AppConfig{
		{Key: "steps_per_stpc", Value: strconv.FormatInt(cfg.RewardStepsPerSTPC, 10), Type: "int"},
		{Key: "chain_id", Value: strconv.FormatInt(cfg.ChainID, 10), Type: "int"},
		{Key: "daily_meal_limit", Value: "3", Type: "int"},
		{Key: "rewards_enabled", Value: strconv.FormatBool(cfg.RewardSignerPrivKey != ""), Type: "bool"},
	}

	for _, def := range defaults {
		var existing models.AppConfig
		if err := h.db.Where("key = ?", def.Key).First(&existing).Error; err == nil {
			continue
		}
		if err := h.db.Create(&def).Error; err != nil {
			slog.Error("failed to seed app config", "key", def.Key, "error", err)
		}
	}
}

// GetConfig returns the merged client configuration as a flat map.
func (h *AppConfigHandler) GetConfig(c *fiber.Ctx) error {
	var configs []models.AppConfig
	if err := h.db.Find(&configs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch configuration",
		})
	}

	result := make(map[string]interface{})
	for _, cfg := range configs {
		var value interface{}
		switch cfg.Type {
		case "bool":
			value, _ = strconv.ParseBool(cfg.Value)
		case "int":
			value, _ = strconv.Atoi(cfg.Value)
		case "json":
			json.Unmarshal([]byte(cfg.Value), &value)
		default:
			value = cfg.Value
		}
		result[cfg.Key] = value
	}

	return c.JSON(result)
}

// SetConfigKey upserts a config key (admin only).
func (h *AppConfigHandler) SetConfigKey(c *fiber.Ctx) error {
	key := c.Params("key", "")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Key parameter is required",
		})
	}

	var payload struct {
		Value string `json:"value"`
		Type  string `json:"type"` // string, bool, int, json
	}
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if payload.Value == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Value is required",
		})
	}
	if payload.Type == "" {
		payload.Type = "string"
	}

	var existing models.AppConfig
	err := h.db.Where("key = ?", key).First(&existing).Error
	if err == nil {
		existing.Value = payload.Value
		existing.Type = payload.Type
		if err := h.db.Save(&existing).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to update configuration",
			})
		}
		return c.JSON(existing)
	}

	entry := models.AppConfig{Key: key, Value: payload.Value, Type: payload.Type}
	if err := h.db.Create(&entry).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create configuration",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// DeleteConfigKey removes a config override (admin only).
func (h *AppConfigHandler) DeleteConfigKey(c *fiber.Ctx) error {
	key := c.Params("key", "")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Key parameter is required",
		})
	}

	result := h.db.Where("key = ?", key).Delete(&models.AppConfig{})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete configuration",
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Config key not found",
		})
	}

	return c.JSON(fiber.Map{"message": "Config key deleted"})
}
