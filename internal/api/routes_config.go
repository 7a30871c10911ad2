package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Assasans/protanki-server/internal/config"
	"github.com/Assasans/protanki-server/internal/events"
)

// handleGetConfig returns the full current configuration with the API token
// redacted.
func (s *Server) handleGetConfig(c *gin.Context) {
	app := s.cfg.GetApplicationData()
	if app.API.Token != "" {
		app.API.Token = "********"
	}
	c.JSON(http.StatusOK, gin.H{
		"server":      s.cfg.GetServerData(),
		"client":      s.cfg.GetClientData(),
		"application": app,
	})
}

type updateFieldRequest struct {
	Key   string `json:"key" binding:"required"`
	Value any    `json:"value"`
}

// handleUpdateConfig sets one field of a section. The change is persisted
// only when the resulting configuration validates. Listener settings take
// effect on restart.
func (s *Server) handleUpdateConfig(c *gin.Context) {
	section := c.Param("section")

	var body updateFieldRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	candidate := s.cfg.Clone()
	if err := candidate.UpdateField(section, body.Key, body.Value); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := config.Validate(candidate)
	if !result.IsValid() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "configuration invalid",
			"errors": result.Errors,
		})
		return
	}

	s.cfg.Apply(candidate)
	if err := s.cfg.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save config"})
		return
	}

	s.bus.Emit(context.WithoutCancel(c.Request.Context()), events.Event{
		Type:   events.EventConfigChanged,
		Source: "api",
		Time:   time.Now(),
		Payload: events.ConfigChangedPayload{
			Section: section,
			Key:     body.Key,
			Value:   body.Value,
		},
	})

	log.Info().Str("section", section).Str("key", body.Key).Msg("API: configuration updated")

	c.JSON(http.StatusOK, gin.H{
		"status":   "updated",
		"warnings": result.Warnings,
	})
}
