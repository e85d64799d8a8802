package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "finbridge/internal/errors"
	"finbridge/internal/services"
)

// maxHistoryMonths bounds the history window a client may ask for.
const maxHistoryMonths = 60

// HealthScoreHandler handles financial health score requests.
type HealthScoreHandler struct {
	healthService services.HealthScoreServicer
	auditService  services.AuditServicer
}

// NewHealthScoreHandler creates a new HealthScoreHandler.
func NewHealthScoreHandler(healthService services.HealthScoreServicer, auditService services.AuditServicer) *HealthScoreHandler {
	return &HealthScoreHandler{healthService: healthService, auditService: auditService}
}

// GetHealthScore returns the latest score, calculating one if none exists.
// @Summary     Get health score
// @Description Latest financial health score with breakdown. Calculated on first access.
// @Tags        health-score
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} result.Result[services.HealthScoreResult]
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Financial records unavailable"
// @Router      /health-score [get]
func (h *HealthScoreHandler) GetHealthScore(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	score, err := h.healthService.GetLatestScore(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respond(c, http.StatusOK, score)
}

// CalculateHealthScore calculates and stores a new score.
// @Summary     Calculate health score
// @Description Recalculate the score from current records and append it to the history
// @Tags        health-score
// @Produce     json
// @Security    BearerAuth
// @Success     201 {object} result.Result[services.HealthScoreResult]
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Financial records unavailable"
// @Router      /health-score/calculate [post]
func (h *HealthScoreHandler) CalculateHealthScore(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	score, err := h.healthService.CalculateScore(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CALCULATE_HEALTH_SCORE", "financial_health_score", score.ID, c.ClientIP(),
		map[string]any{"overall_score": score.OverallScore})

	respond(c, http.StatusCreated, score)
}

// GetScoreHistory lists past scores.
// @Summary     Get score history
// @Tags        health-score
// @Produce     json
// @Security    BearerAuth
// @Param       months query int false "Months to look back (default 6, max 60)"
// @Success     200 {object} result.Result[[]models.FinancialHealthScore]
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /health-score/history [get]
func (h *HealthScoreHandler) GetScoreHistory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	months := 0
	if v := c.Query("months"); v != "" {
		months, err = strconv.Atoi(v)
		if err != nil || months < 1 || months > maxHistoryMonths {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "months must be between 1 and 60"))
			return
		}
	}

	history, err := h.healthService.GetScoreHistory(c.Request.Context(), userID, months)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respond(c, http.StatusOK, history)
}

// GetBreakdown returns the factor breakdown of the latest score.
// @Summary     Get score breakdown
// @Tags        health-score
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} result.Result[services.BreakdownResult]
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /health-score/breakdown [get]
func (h *HealthScoreHandler) GetBreakdown(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	breakdown, err := h.healthService.GetBreakdown(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respond(c, http.StatusOK, breakdown)
}

// GetResilienceInsights summarises strengths and risks of the latest score.
// @Summary     Get resilience insights
// @Tags        resilience
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} result.Result[scoring.Insights]
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /resilience/insights [get]
func (h *HealthScoreHandler) GetResilienceInsights(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	insights, err := h.healthService.GetResilienceInsights(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respond(c, http.StatusOK, insights)
}
