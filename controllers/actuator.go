package controllers

import (
	"net/http"
	"strings"

	"github.com/Aulia153/Leafie-Website/models"

	"github.com/gin-gonic/gin"
)

var actuatorLabels = map[string]string{
	models.SettingPump:   "Pompa air",
	models.SettingCamera: "Kamera",
}

// TogglePump drives the water pump setting.
func (h *Handler) TogglePump(c *gin.Context) {
	h.applyActuator(c, models.SettingPump)
}

// ToggleCamera drives the camera setting.
func (h *Handler) ToggleCamera(c *gin.Context) {
	h.applyActuator(c, models.SettingCamera)
}

// applyActuator handles an optional {action: ON|OFF|TOGGLE} body; an absent
// body means TOGGLE. The change is persisted and journaled, and the new
// value returned under the setting's key.
func (h *Handler) applyActuator(c *gin.Context, key string) {
	var req struct {
		Action string `json:"action"`
	}
	// The body is optional; a bind failure on an empty body is fine.
	_ = c.ShouldBindJSON(&req)

	var (
		newValue string
		err      error
	)
	switch strings.ToUpper(req.Action) {
	case models.StateOn, models.StateOff:
		newValue = strings.ToUpper(req.Action)
		err = h.store.SetSetting(key, newValue)
	case "", "TOGGLE":
		newValue, err = h.store.Toggle(key)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown action"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update setting"})
		return
	}

	h.store.RecordActivity(actuatorLabels[key]+" "+newValue, key)
	c.JSON(http.StatusOK, gin.H{key: newValue})
}
