package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finbridge/internal/logger"
	"finbridge/internal/services"
)

// PipelineHandler serves machine-to-machine endpoints behind the pipeline API key.
type PipelineHandler struct {
	healthService services.HealthScoreServicer
}

// NewPipelineHandler creates a new PipelineHandler.
func NewPipelineHandler(healthService services.HealthScoreServicer) *PipelineHandler {
	return &PipelineHandler{healthService: healthService}
}

// RecalculateHealthScores recalculates the score of every user with records.
// @Summary     Recalculate all health scores
// @Tags        pipeline
// @Produce     json
// @Param       X-API-Key header string true "Pipeline API key"
// @Success     200 {object} result.Result[services.RecalculationSummary]
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     503 {object} ErrorResponse "Pipeline not configured"
// @Router      /pipeline/health-scores/recalculate [post]
func (h *PipelineHandler) RecalculateHealthScores(c *gin.Context) {
	summary, err := h.healthService.RecalculateAll(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Get().Infow("pipeline recalculation finished",
		"users", summary.Users,
		"calculated", summary.Calculated,
		"failed", summary.Failed,
	)
	respond(c, http.StatusOK, summary)
}
