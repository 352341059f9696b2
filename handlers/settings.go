package handlers

import (
	"net/http"

	"github.com/khomabhena/imali-api/middleware"
	"github.com/khomabhena/imali-api/models"
	"github.com/khomabhena/imali-api/services"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	Settings *services.SettingsService
}

func (h *SettingsHandler) GetSettings(c *gin.Context) {
	userID := middleware.GetUserID(c)

	ctx, cancel := requestContext(c)
	defer cancel()

	settings, err := h.Settings.GetOrCreate(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.DefaultMode != nil {
		switch *req.DefaultMode {
		case models.ModeLight, models.ModeIntermediate, models.ModeStrict, models.ModeDesperate:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown discipline mode"})
			return
		}
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	settings, err := h.Settings.Update(ctx, userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}
