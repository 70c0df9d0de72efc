package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"yoplan/internal/models/response_models"
	"yoplan/pkg/utils"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthController struct {
	db  Pinger
	now func() time.Time
}

// NewHealthController accepts a nil db, in which case only liveness is
// reported.
func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db, now: time.Now}
}

// Health godoc
// @Summary Liveness and database reachability
// @Tags Health
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 503 {object} utils.APIResponse
// @Router /api/health [get]
func (h *HealthController) Health(c *gin.Context) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			utils.RespondError(c, http.StatusServiceUnavailable, "database unreachable")
			return
		}
	}

	utils.RespondSuccess(c, response_models.HealthResponse{
		Message:   "yoplan server is running",
		Timestamp: h.now(),
	}, "")
}
