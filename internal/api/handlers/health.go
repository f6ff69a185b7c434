package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sony/gobreaker"

	"github.com/stitts-dev/hoops-sim/internal/services"
)

const readyPingTimeout = 2 * time.Second

// breakerReporter is implemented by session stores behind a circuit breaker.
type breakerReporter interface {
	BreakerState() gobreaker.State
}

type HealthHandler struct {
	resources *services.Resources
	store     services.SessionStore
}

func NewHealthHandler(resources *services.Resources, store services.SessionStore) *HealthHandler {
	return &HealthHandler{resources: resources, store: store}
}

// GetHealth is the liveness check. It answers 200 whenever the server is up.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"time":    time.Now().UTC(),
		"service": "hoops-sim",
	})
}

// GetReady answers 200 only once the catalog and the model are loaded and
// the session store answers.
func (h *HealthHandler) GetReady(c *gin.Context) {
	body := gin.H{
		"catalog_loaded": h.resources.Catalogs.Loaded(),
		"model_loaded":   h.resources.Models.Loaded(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), readyPingTimeout)
	defer cancel()
	storeOK := h.store.Ping(ctx) == nil
	if storeOK {
		body["session_store"] = "ok"
	} else {
		body["session_store"] = "unavailable"
	}
	if br, ok := h.store.(breakerReporter); ok {
		body["session_store_breaker"] = br.BreakerState().String()
	}

	if storeOK && h.resources.Ready() {
		body["status"] = "ready"
		c.JSON(http.StatusOK, body)
		return
	}
	body["status"] = "not_ready"
	c.JSON(http.StatusServiceUnavailable, body)
}
