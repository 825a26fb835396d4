package handlers

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/luminagen/lumina-backend/internal/dto"
	"github.com/luminagen/lumina-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PlansHandler serves the pricing-page plan catalog from the PlanConfig
// key/value store so copy and limits can change without a deploy.
type PlansHandler struct {
	db *gorm.DB
}

func NewPlansHandler(db *gorm.DB) *PlansHandler {
	return &PlansHandler{db: db}
}

// GetCatalog returns every plan entry as a key→value map (public).
func (h *PlansHandler) GetCatalog(c *fiber.Ctx) error {
	var configs []models.PlanConfig
	if err := h.db.WithContext(c.Context()).Find(&configs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch plan catalog",
		})
	}

	result := make(map[string]interface{}, len(configs))
	for _, cfg := range configs {
		var value interface{}
		if err := json.Unmarshal(cfg.Value, &value); err != nil {
			continue
		}
		result[cfg.Key] = value
	}
	return c.JSON(result)
}

// SetKey upserts one catalog entry (admin only).
func (h *PlansHandler) SetKey(c *fiber.Ctx) error {
	key := c.Params("key", "")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Key parameter is required",
		})
	}

	body := c.Body()
	if len(body) == 0 || !json.Valid(body) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Body must be valid JSON",
		})
	}

	var config models.PlanConfig
	err := h.db.WithContext(c.Context()).Where("key = ?", key).First(&config).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		config = models.PlanConfig{
			ID:    uuid.New(),
			Key:   key,
			Value: datatypes.JSON(body),
		}
		if err := h.db.WithContext(c.Context()).Create(&config).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to create plan entry",
			})
		}
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to query plan entry",
		})
	default:
		config.Value = datatypes.JSON(body)
		if err := h.db.WithContext(c.Context()).Save(&config).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to update plan entry",
			})
		}
	}

	return c.JSON(fiber.Map{"error": false, "key": config.Key, "value": config.Value})
}

// DeleteKey removes one catalog entry (admin only).
func (h *PlansHandler) DeleteKey(c *fiber.Ctx) error {
	key := c.Params("key", "")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Key parameter is required",
		})
	}

	result := h.db.WithContext(c.Context()).Where("key = ?", key).Delete(&models.PlanConfig{})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete plan entry",
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Plan entry not found",
		})
	}

	return c.JSON(fiber.Map{"error": false, "message": "Plan entry deleted"})
}

// SeedDefaults writes the free and premium plan definitions when missing.
func (h *PlansHandler) SeedDefaults() error {
	defaults := map[string]string{
		"free":    `{"name":"Free","price_usd":0,"credits":3,"features":["3 generation credits","Image, video, voice and chat studios","Personal gallery"]}`,
		"premium": `{"name":"Premium","price_usd":19,"credits":-1,"features":["Unlimited generations","Priority queue","Personal gallery","Email support"]}`,
	}

	for key, value := range defaults {
		var existing models.PlanConfig
		err := h.db.Where("key = ?", key).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			entry := models.PlanConfig{
				ID:    uuid.New(),
				Key:   key,
				Value: datatypes.JSON(value),
			}
			if err := h.db.Create(&entry).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}
