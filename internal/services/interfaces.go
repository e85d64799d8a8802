package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"finbridge/internal/models"
	"finbridge/internal/pagination"
	"finbridge/internal/personality"
	"finbridge/internal/scoring"
)

// HealthScoreResult is a stored score together with its per-factor breakdown.
type HealthScoreResult struct {
	models.FinancialHealthScore
	Breakdown scoring.Breakdown `json:"breakdown"`
}

// BreakdownResult is the breakdown of the latest score.
type BreakdownResult struct {
	OverallScore int               `json:"overall_score"`
	CalculatedAt time.Time         `json:"calculated_at"`
	Breakdown    scoring.Breakdown `json:"breakdown"`
}

// RecalculationSummary reports a pipeline recalculation run.
type RecalculationSummary struct {
	Users      int `json:"users"`
	Calculated int `json:"calculated"`
	Failed     int `json:"failed"`
}

// HealthScoreServicer defines the contract for financial health scoring.
type HealthScoreServicer interface {
	CalculateScore(ctx context.Context, userID string) (*HealthScoreResult, error)
	GetLatestScore(ctx context.Context, userID string) (*HealthScoreResult, error)
	GetScoreHistory(ctx context.Context, userID string, months int) ([]models.FinancialHealthScore, error)
	GetBreakdown(ctx context.Context, userID string) (*BreakdownResult, error)
	GetResilienceInsights(ctx context.Context, userID string) (*scoring.Insights, error)
	RecalculateAll(ctx context.Context) (*RecalculationSummary, error)
}

// ProfileResult is a stored profile with its archetype details.
type ProfileResult struct {
	Profile     *models.PersonalityProfile `json:"profile"`
	Personality personality.Archetype      `json:"personality"`
}

// AssessmentResult is returned after a completed assessment.
type AssessmentResult struct {
	ProfileResult
	Challenges []models.PersonalityChallenge `json:"challenges"`
}

// ChallengeFilter holds optional filters for listing challenges.
type ChallengeFilter struct {
	Status *models.ChallengeStatus
}

// PersonalityServicer defines the contract for the personality profiler.
type PersonalityServicer interface {
	SubmitAssessment(ctx context.Context, userID string, answers models.AssessmentAnswers) (*AssessmentResult, error)
	GetProfile(ctx context.Context, userID string) (*ProfileResult, error)
	ListTypes() []personality.Archetype
	ListChallenges(ctx context.Context, userID string, page pagination.PageRequest, filter ChallengeFilter) (*pagination.Page[models.PersonalityChallenge], error)
	GenerateChallenges(ctx context.Context, userID string) ([]models.PersonalityChallenge, error)
	UpdateChallengeProgress(ctx context.Context, userID, challengeID string, progress int) (*models.PersonalityChallenge, error)
	GetBehavioralInsights(ctx context.Context, userID string) (*personality.BehavioralInsights, error)
}

// AlertFilter holds optional filters for listing alerts.
type AlertFilter struct {
	Enabled    *bool
	AlertType  *string
	Priority   *models.AlertPriority
	UnreadOnly bool
}

// AlertInput carries the user-editable fields of an alert. Nil fields are
// left unchanged on update.
type AlertInput struct {
	AlertType   *string
	Title       *string
	Description *string
	Amount      *decimal.Decimal
	DueDate     *time.Time
	Priority    *models.AlertPriority
	Enabled     *bool
	Frequency   *models.AlertFrequency
}

// AlertServicer defines the contract for smart alerts.
type AlertServicer interface {
	ListAlerts(ctx context.Context, userID string, page pagination.PageRequest, filter AlertFilter) (*pagination.Page[models.SmartAlert], error)
	CreateAlert(ctx context.Context, userID string, in AlertInput) (*models.SmartAlert, error)
	UpdateAlert(ctx context.Context, userID, alertID string, in AlertInput) (*models.SmartAlert, error)
	MarkAlertRead(ctx context.Context, userID, alertID string) (*models.SmartAlert, error)
	DeleteAlert(ctx context.Context, userID, alertID string) error
	GetUpcomingAlerts(ctx context.Context, userID string) ([]models.SmartAlert, error)
	GenerateAutomaticAlerts(ctx context.Context, userID string) ([]models.SmartAlert, error)
	GetAlertSettings(ctx context.Context, userID string) (*models.AlertSettings, error)
	UpdateAlertSettings(ctx context.Context, userID string, settings models.AlertSettings) (*models.AlertSettings, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}
