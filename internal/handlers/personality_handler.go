package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "finbridge/internal/errors"
	"finbridge/internal/models"
	"finbridge/internal/pagination"
	"finbridge/internal/services"
)

// PersonalityHandler handles the money personality profiler.
type PersonalityHandler struct {
	personalityService services.PersonalityServicer
	auditService       services.AuditServicer
}

// NewPersonalityHandler creates a new PersonalityHandler.
func NewPersonalityHandler(personalityService services.PersonalityServicer, auditService services.AuditServicer) *PersonalityHandler {
	return &PersonalityHandler{personalityService: personalityService, auditService: auditService}
}

// AssessmentRequest carries the six assessment answers.
type AssessmentRequest struct {
	Answers models.AssessmentAnswers `json:"answers" binding:"required"`
}

// UpdateProgressRequest sets a challenge's progress percentage.
type UpdateProgressRequest struct {
	Progress *int `json:"progress" binding:"required"`
}

// SubmitAssessment classifies the answers and stores the profile.
// @Summary     Submit personality assessment
// @Description Classify the six answers, replace the stored profile and regenerate pending challenges
// @Tags        personality
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AssessmentRequest true "Assessment answers"
// @Success     201 {object} result.Result[services.AssessmentResult]
// @Failure     400 {object} ErrorResponse "Missing or unsupported answer"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /personality-profiler/assessment [post]
func (h *PersonalityHandler) SubmitAssessment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidationFailed, err.Error()))
		return
	}

	assessment, err := h.personalityService.SubmitAssessment(c.Request.Context(), userID, req.Answers)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SUBMIT_ASSESSMENT", "personality_profile", assessment.Profile.ID, c.ClientIP(),
		map[string]any{
			"personality_type": assessment.Profile.PersonalityType,
			"confidence_level": assessment.Profile.ConfidenceLevel,
		})

	respond(c, http.StatusCreated, assessment)
}

// GetProfile returns the stored profile.
// @Summary     Get personality profile
// @Tags        personality
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} result.Result[services.ProfileResult]
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No assessment taken"
// @Router      /personality-profiler/profile [get]
func (h *PersonalityHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	profile, err := h.personalityService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respond(c, http.StatusOK, profile)
}

// ListTypes returns the archetype catalog.
// @Summary     List personality types
// @Tags        personality
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} result.Result[[]personality.Archetype]
// @Router      /personality-profiler/types [get]
func (h *PersonalityHandler) ListTypes(c *gin.Context) {
	respond(c, http.StatusOK, h.personalityService.ListTypes())
}

// ListChallenges returns a page of the user's challenges.
// @Summary     List challenges
// @Tags        personality
// @Produce     json
// @Security    BearerAuth
// @Param       status    query string false "Filter by status (pending/in_progress/completed)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} result.Result[pagination.Page[models.PersonalityChallenge]]
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /personality-profiler/challenges [get]
func (h *PersonalityHandler) ListChallenges(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter services.ChallengeFilter
	if v := c.Query("status"); v != "" {
		status := models.ChallengeStatus(v)
		switch status {
		case models.ChallengeStatusPending, models.ChallengeStatusInProgress, models.ChallengeStatusCompleted:
			filter.Status = &status
		default:
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "status must be pending, in_progress or completed"))
			return
		}
	}

	challenges, err := h.personalityService.ListChallenges(c.Request.Context(), userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respond(c, http.StatusOK, challenges)
}

// GenerateChallenges replaces pending challenges for the stored profile.
// @Summary     Generate challenges
// @Tags        personality
// @Produce     json
// @Security    BearerAuth
// @Success     201 {object} result.Result[[]models.PersonalityChallenge]
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No assessment taken"
// @Router      /personality-profiler/challenges/generate [post]
func (h *PersonalityHandler) GenerateChallenges(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	challenges, err := h.personalityService.GenerateChallenges(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "GENERATE_CHALLENGES", "personality_challenge", "", c.ClientIP(),
		map[string]any{"count": len(challenges)})

	respond(c, http.StatusCreated, challenges)
}

// UpdateChallengeProgress records progress on a challenge.
// @Summary     Update challenge progress
// @Description Progress is clamped to 0-100; 100 completes the challenge
// @Tags        personality
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Challenge ID"
// @Param       request body UpdateProgressRequest true "Progress"
// @Success     200 {object} result.Result[models.PersonalityChallenge]
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Challenge belongs to another user"
// @Failure     404 {object} ErrorResponse "Challenge not found"
// @Router      /personality-profiler/challenges/{id}/progress [put]
func (h *PersonalityHandler) UpdateChallengeProgress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	challengeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	challenge, err := h.personalityService.UpdateChallengeProgress(c.Request.Context(), userID, challengeID, *req.Progress)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_CHALLENGE_PROGRESS", "personality_challenge", challenge.ID, c.ClientIP(),
		map[string]any{"progress": challenge.Progress, "status": challenge.Status})

	respond(c, http.StatusOK, challenge)
}

// GetBehavioralInsights compares recent behaviour with the stored profile.
// @Summary     Get behavioural insights
// @Tags        personality
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} result.Result[personality.BehavioralInsights]
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No assessment taken"
// @Router      /personality-profiler/insights [get]
func (h *PersonalityHandler) GetBehavioralInsights(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	insights, err := h.personalityService.GetBehavioralInsights(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respond(c, http.StatusOK, insights)
}
