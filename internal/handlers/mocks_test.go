package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"finbridge/internal/middleware"
	"finbridge/internal/models"
	"finbridge/internal/pagination"
	"finbridge/internal/personality"
	"finbridge/internal/scoring"
	"finbridge/internal/services"
	"finbridge/internal/validator"
)

const testUserID = "0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5b"

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

// --- test helpers ---

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	if success, _ := result["success"].(bool); success {
		t.Fatalf("expected a failure envelope, got: %v", result)
	}
	if got, _ := result["code"].(string); got != code {
		t.Errorf("expected error code %s, got %v", code, result["code"])
	}
}

func dataOf(t *testing.T, result map[string]interface{}) map[string]interface{} {
	t.Helper()
	if success, _ := result["success"].(bool); !success {
		t.Fatalf("expected a success envelope, got: %v", result)
	}
	data, ok := result["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected object data, got: %v", result["data"])
	}
	return data
}

// --- mock audit service ---

type auditEntry struct {
	userID, action, resourceType, resourceID string
}

type mockAuditService struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (m *mockAuditService) Log(userID, action, resourceType, resourceID, _ string, _ map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, auditEntry{userID, action, resourceType, resourceID})
}

func (m *mockAuditService) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.action)
	}
	return out
}

var _ services.AuditServicer = (*mockAuditService)(nil)

// --- mock health score service ---

type mockHealthScoreService struct {
	calculateScoreFn func(ctx context.Context, userID string) (*services.HealthScoreResult, error)
	getLatestFn      func(ctx context.Context, userID string) (*services.HealthScoreResult, error)
	getHistoryFn     func(ctx context.Context, userID string, months int) ([]models.FinancialHealthScore, error)
	getBreakdownFn   func(ctx context.Context, userID string) (*services.BreakdownResult, error)
	getInsightsFn    func(ctx context.Context, userID string) (*scoring.Insights, error)
	recalculateFn    func(ctx context.Context) (*services.RecalculationSummary, error)
}

func (m *mockHealthScoreService) CalculateScore(ctx context.Context, userID string) (*services.HealthScoreResult, error) {
	if m.calculateScoreFn != nil {
		return m.calculateScoreFn(ctx, userID)
	}
	return &services.HealthScoreResult{}, nil
}

func (m *mockHealthScoreService) GetLatestScore(ctx context.Context, userID string) (*services.HealthScoreResult, error) {
	if m.getLatestFn != nil {
		return m.getLatestFn(ctx, userID)
	}
	return &services.HealthScoreResult{}, nil
}

func (m *mockHealthScoreService) GetScoreHistory(ctx context.Context, userID string, months int) ([]models.FinancialHealthScore, error) {
	if m.getHistoryFn != nil {
		return m.getHistoryFn(ctx, userID, months)
	}
	return []models.FinancialHealthScore{}, nil
}

func (m *mockHealthScoreService) GetBreakdown(ctx context.Context, userID string) (*services.BreakdownResult, error) {
	if m.getBreakdownFn != nil {
		return m.getBreakdownFn(ctx, userID)
	}
	return &services.BreakdownResult{}, nil
}

func (m *mockHealthScoreService) GetResilienceInsights(ctx context.Context, userID string) (*scoring.Insights, error) {
	if m.getInsightsFn != nil {
		return m.getInsightsFn(ctx, userID)
	}
	return &scoring.Insights{}, nil
}

func (m *mockHealthScoreService) RecalculateAll(ctx context.Context) (*services.RecalculationSummary, error) {
	if m.recalculateFn != nil {
		return m.recalculateFn(ctx)
	}
	return &services.RecalculationSummary{}, nil
}

var _ services.HealthScoreServicer = (*mockHealthScoreService)(nil)

// --- mock personality service ---

type mockPersonalityService struct {
	submitAssessmentFn func(ctx context.Context, userID string, answers models.AssessmentAnswers) (*services.AssessmentResult, error)
	getProfileFn       func(ctx context.Context, userID string) (*services.ProfileResult, error)
	listChallengesFn   func(ctx context.Context, userID string, page pagination.PageRequest, filter services.ChallengeFilter) (*pagination.Page[models.PersonalityChallenge], error)
	generateFn         func(ctx context.Context, userID string) ([]models.PersonalityChallenge, error)
	updateProgressFn   func(ctx context.Context, userID, challengeID string, progress int) (*models.PersonalityChallenge, error)
	getInsightsFn      func(ctx context.Context, userID string) (*personality.BehavioralInsights, error)
}

func (m *mockPersonalityService) SubmitAssessment(ctx context.Context, userID string, answers models.AssessmentAnswers) (*services.AssessmentResult, error) {
	if m.submitAssessmentFn != nil {
		return m.submitAssessmentFn(ctx, userID, answers)
	}
	return &services.AssessmentResult{ProfileResult: services.ProfileResult{Profile: &models.PersonalityProfile{}}}, nil
}

func (m *mockPersonalityService) GetProfile(ctx context.Context, userID string) (*services.ProfileResult, error) {
	if m.getProfileFn != nil {
		return m.getProfileFn(ctx, userID)
	}
	return &services.ProfileResult{Profile: &models.PersonalityProfile{}}, nil
}

func (m *mockPersonalityService) ListTypes() []personality.Archetype {
	return personality.Default().All()
}

func (m *mockPersonalityService) ListChallenges(ctx context.Context, userID string, page pagination.PageRequest, filter services.ChallengeFilter) (*pagination.Page[models.PersonalityChallenge], error) {
	if m.listChallengesFn != nil {
		return m.listChallengesFn(ctx, userID, page, filter)
	}
	page.Defaults()
	p := pagination.NewPage([]models.PersonalityChallenge{}, page, 0)
	return &p, nil
}

func (m *mockPersonalityService) GenerateChallenges(ctx context.Context, userID string) ([]models.PersonalityChallenge, error) {
	if m.generateFn != nil {
		return m.generateFn(ctx, userID)
	}
	return []models.PersonalityChallenge{}, nil
}

func (m *mockPersonalityService) UpdateChallengeProgress(ctx context.Context, userID, challengeID string, progress int) (*models.PersonalityChallenge, error) {
	if m.updateProgressFn != nil {
		return m.updateProgressFn(ctx, userID, challengeID, progress)
	}
	return &models.PersonalityChallenge{}, nil
}

func (m *mockPersonalityService) GetBehavioralInsights(ctx context.Context, userID string) (*personality.BehavioralInsights, error) {
	if m.getInsightsFn != nil {
		return m.getInsightsFn(ctx, userID)
	}
	return &personality.BehavioralInsights{}, nil
}

var _ services.PersonalityServicer = (*mockPersonalityService)(nil)

// --- mock alert service ---

type mockAlertService struct {
	listAlertsFn     func(ctx context.Context, userID string, page pagination.PageRequest, filter services.AlertFilter) (*pagination.Page[models.SmartAlert], error)
	createAlertFn    func(ctx context.Context, userID string, in services.AlertInput) (*models.SmartAlert, error)
	updateAlertFn    func(ctx context.Context, userID, alertID string, in services.AlertInput) (*models.SmartAlert, error)
	markReadFn       func(ctx context.Context, userID, alertID string) (*models.SmartAlert, error)
	deleteAlertFn    func(ctx context.Context, userID, alertID string) error
	upcomingFn       func(ctx context.Context, userID string) ([]models.SmartAlert, error)
	generateFn       func(ctx context.Context, userID string) ([]models.SmartAlert, error)
	getSettingsFn    func(ctx context.Context, userID string) (*models.AlertSettings, error)
	updateSettingsFn func(ctx context.Context, userID string, settings models.AlertSettings) (*models.AlertSettings, error)
}

func (m *mockAlertService) ListAlerts(ctx context.Context, userID string, page pagination.PageRequest, filter services.AlertFilter) (*pagination.Page[models.SmartAlert], error) {
	if m.listAlertsFn != nil {
		return m.listAlertsFn(ctx, userID, page, filter)
	}
	page.Defaults()
	p := pagination.NewPage([]models.SmartAlert{}, page, 0)
	return &p, nil
}

func (m *mockAlertService) CreateAlert(ctx context.Context, userID string, in services.AlertInput) (*models.SmartAlert, error) {
	if m.createAlertFn != nil {
		return m.createAlertFn(ctx, userID, in)
	}
	return &models.SmartAlert{}, nil
}

func (m *mockAlertService) UpdateAlert(ctx context.Context, userID, alertID string, in services.AlertInput) (*models.SmartAlert, error) {
	if m.updateAlertFn != nil {
		return m.updateAlertFn(ctx, userID, alertID, in)
	}
	return &models.SmartAlert{}, nil
}

func (m *mockAlertService) MarkAlertRead(ctx context.Context, userID, alertID string) (*models.SmartAlert, error) {
	if m.markReadFn != nil {
		return m.markReadFn(ctx, userID, alertID)
	}
	return &models.SmartAlert{}, nil
}

func (m *mockAlertService) DeleteAlert(ctx context.Context, userID, alertID string) error {
	if m.deleteAlertFn != nil {
		return m.deleteAlertFn(ctx, userID, alertID)
	}
	return nil
}

func (m *mockAlertService) GetUpcomingAlerts(ctx context.Context, userID string) ([]models.SmartAlert, error) {
	if m.upcomingFn != nil {
		return m.upcomingFn(ctx, userID)
	}
	return []models.SmartAlert{}, nil
}

func (m *mockAlertService) GenerateAutomaticAlerts(ctx context.Context, userID string) ([]models.SmartAlert, error) {
	if m.generateFn != nil {
		return m.generateFn(ctx, userID)
	}
	return []models.SmartAlert{}, nil
}

func (m *mockAlertService) GetAlertSettings(ctx context.Context, userID string) (*models.AlertSettings, error) {
	if m.getSettingsFn != nil {
		return m.getSettingsFn(ctx, userID)
	}
	s := models.DefaultAlertSettings(userID)
	return &s, nil
}

func (m *mockAlertService) UpdateAlertSettings(ctx context.Context, userID string, settings models.AlertSettings) (*models.AlertSettings, error) {
	if m.updateSettingsFn != nil {
		return m.updateSettingsFn(ctx, userID, settings)
	}
	return &settings, nil
}

var _ services.AlertServicer = (*mockAlertService)(nil)
