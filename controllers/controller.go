package controllers

import (
	"net/http"
	"sync"

	"github.com/Aulia153/Leafie-Website/config"
	"github.com/Aulia153/Leafie-Website/models"
	"github.com/Aulia153/Leafie-Website/services"
	"github.com/Aulia153/Leafie-Website/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handler carries the wired components every route needs. Dependencies are
// injected so tests can swap the identity provider, mailer and camera for
// fakes.
type Handler struct {
	cfg      *config.Config
	store    *store.Store
	gen      *services.Generator
	flow     *services.ResetFlow
	identity services.IdentityProvider
	camera   services.FrameSource // live camera only
	frames   services.FrameSource // live camera with sample fallback
	hub      *Hub
	log      zerolog.Logger

	// Last served reading, compared against the next one to journal
	// threshold transitions.
	mu   sync.Mutex
	last *models.SensorReading
}

func NewHandler(
	cfg *config.Config,
	st *store.Store,
	gen *services.Generator,
	flow *services.ResetFlow,
	identity services.IdentityProvider,
	camera, frames services.FrameSource,
	hub *Hub,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		cfg:      cfg,
		store:    st,
		gen:      gen,
		flow:     flow,
		identity: identity,
		camera:   camera,
		frames:   frames,
		hub:      hub,
		log:      log,
	}
}

// Healthz is the liveness probe.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
