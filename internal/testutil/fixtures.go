package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"finbridge/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// NewUserID returns a fresh user id. Users live in Supabase Auth, so there
// is no row to create.
func NewUserID() string {
	return models.NewID()
}

// CreateTestTransaction creates a transaction dated date.
func CreateTestTransaction(
	t *testing.T,
	db *gorm.DB,
	userID string,
	txType models.TransactionType,
	amount string,
	category string,
	date time.Time,
) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:          userID,
		TransactionDate: date,
		Description:     fmt.Sprintf("Test transaction %d", nextID()),
		Amount:          decimal.RequireFromString(amount),
		Category:        category,
		TransactionType: txType,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestGoal creates an active goal.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID, goalType string, target, current int64, targetDate *time.Time) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		UserID:        userID,
		GoalName:      fmt.Sprintf("Goal %d", nextID()),
		GoalType:      goalType,
		TargetAmount:  decimal.NewFromInt(target),
		CurrentAmount: decimal.NewFromInt(current),
		Status:        models.GoalStatusActive,
		TargetDate:    targetDate,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// CreateTestProgress records a lesson for the user.
func CreateTestProgress(t *testing.T, db *gorm.DB, userID, status string, score int) *models.UserProgress {
	t.Helper()

	progress := &models.UserProgress{
		UserID:         userID,
		LessonID:       fmt.Sprintf("lesson-%d", nextID()),
		ProgressStatus: status,
		Score:          score,
	}
	if err := db.Create(progress).Error; err != nil {
		t.Fatalf("failed to create test progress: %v", err)
	}
	return progress
}

// CreateTestScore appends a score row calculated at calculatedAt.
func CreateTestScore(t *testing.T, db *gorm.DB, userID string, overall int, calculatedAt time.Time) *models.FinancialHealthScore {
	t.Helper()

	score := &models.FinancialHealthScore{
		UserID:             userID,
		OverallScore:       overall,
		LiteracyScore:      overall,
		SavingsScore:       overall,
		DebtScore:          overall,
		InsuranceScore:     overall,
		EmergencyFundScore: overall,
		InvestmentScore:    overall,
		CalculatedAt:       calculatedAt,
	}
	if err := db.Create(score).Error; err != nil {
		t.Fatalf("failed to create test score: %v", err)
	}
	return score
}

// CreateTestProfile stores a personality profile of the given type.
func CreateTestProfile(t *testing.T, db *gorm.DB, userID string, typ models.PersonalityType) *models.PersonalityProfile {
	t.Helper()

	profile := &models.PersonalityProfile{
		UserID:            userID,
		PersonalityType:   typ,
		AssessmentAnswers: datatypes.NewJSONType(models.AssessmentAnswers{}),
		AssessmentScores:  datatypes.NewJSONType(models.AssessmentScores{typ: 12}),
		ConfidenceLevel:   66.67,
		CompletedAt:       time.Now().UTC(),
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create test profile: %v", err)
	}
	return profile
}

// CreateTestChallenge stores a challenge with the given status and progress.
func CreateTestChallenge(t *testing.T, db *gorm.DB, userID string, status models.ChallengeStatus, progress int) *models.PersonalityChallenge {
	t.Helper()

	challenge := &models.PersonalityChallenge{
		UserID:          userID,
		PersonalityType: models.PersonalityPrudentSaver,
		Title:           fmt.Sprintf("Challenge %d", nextID()),
		TargetAmount:    decimal.NewFromInt(1000),
		DurationDays:    30,
		Difficulty:      "beginner",
		Status:          status,
		Progress:        progress,
	}
	if err := db.Create(challenge).Error; err != nil {
		t.Fatalf("failed to create test challenge: %v", err)
	}
	return challenge
}

// CreateTestAlert stores an enabled, unread alert.
func CreateTestAlert(t *testing.T, db *gorm.DB, userID string, priority models.AlertPriority, dueDate *time.Time) *models.SmartAlert {
	t.Helper()

	alert := &models.SmartAlert{
		UserID:    userID,
		AlertType: "bill_reminder",
		Title:     fmt.Sprintf("Alert %d", nextID()),
		DueDate:   dueDate,
		Priority:  priority,
		Enabled:   true,
		Frequency: models.AlertFrequencyMonthly,
	}
	if err := db.Create(alert).Error; err != nil {
		t.Fatalf("failed to create test alert: %v", err)
	}
	return alert
}
