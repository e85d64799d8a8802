package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "finbridge/internal/errors"
	"finbridge/internal/models"
	"finbridge/internal/pagination"
	"finbridge/internal/services"
)

const alertID = "0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a70"

func setupAlertRouter(handler *AlertHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.GET("/alerts", handler.ListAlerts)
	auth.POST("/alerts", handler.CreateAlert)
	auth.GET("/alerts/upcoming", handler.GetUpcomingAlerts)
	auth.POST("/alerts/generate", handler.GenerateAutomaticAlerts)
	auth.GET("/alerts/settings", handler.GetAlertSettings)
	auth.PUT("/alerts/settings", handler.UpdateAlertSettings)
	auth.PATCH("/alerts/:id", handler.UpdateAlert)
	auth.PATCH("/alerts/:id/read", handler.MarkAlertRead)
	auth.DELETE("/alerts/:id", handler.DeleteAlert)
	return r
}

func TestAlertHandler_ListAlerts(t *testing.T) {
	t.Run("parses_filters", func(t *testing.T) {
		var got services.AlertFilter
		svc := &mockAlertService{
			listAlertsFn: func(_ context.Context, _ string, page pagination.PageRequest, filter services.AlertFilter) (*pagination.Page[models.SmartAlert], error) {
				got = filter
				page.Defaults()
				p := pagination.NewPage([]models.SmartAlert{{Title: "Rent"}}, page, 1)
				return &p, nil
			},
		}
		r := setupAlertRouter(NewAlertHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/alerts?enabled=true&type=bill_reminder&priority=high&unread_only=true", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Enabled == nil || !*got.Enabled || !got.UnreadOnly {
			t.Errorf("filter = %+v", got)
		}
		if got.AlertType == nil || *got.AlertType != "bill_reminder" {
			t.Errorf("alert type = %v", got.AlertType)
		}
		if got.Priority == nil || *got.Priority != models.AlertPriorityHigh {
			t.Errorf("priority = %v", got.Priority)
		}
		data := dataOf(t, parseJSON(t, rec))
		if items := data["items"].([]interface{}); len(items) != 1 {
			t.Errorf("items = %v", items)
		}
	})

	t.Run("zero_page_uses_first_page", func(t *testing.T) {
		svc := &mockAlertService{
			listAlertsFn: func(_ context.Context, _ string, page pagination.PageRequest, _ services.AlertFilter) (*pagination.Page[models.SmartAlert], error) {
				page.Defaults()
				p := pagination.NewPage([]models.SmartAlert{}, page, 0)
				return &p, nil
			},
		}
		r := setupAlertRouter(NewAlertHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/alerts?page=0", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if data := dataOf(t, parseJSON(t, rec)); data["page"].(float64) != 1 {
			t.Errorf("page = %v", data["page"])
		}
	})

	tests := []struct {
		name  string
		query string
	}{
		{name: "bad_enabled", query: "?enabled=yes"},
		{name: "bad_unread_only", query: "?unread_only=maybe"},
		{name: "bad_priority", query: "?priority=urgent"},
		{name: "negative_page", query: "?page=-1"},
		{name: "page_size_too_large", query: "?page_size=101"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupAlertRouter(NewAlertHandler(&mockAlertService{}, &mockAuditService{}))
			rec := doRequest(r, http.MethodGet, "/alerts"+tt.query, "")
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}
}

func TestAlertHandler_CreateAlert(t *testing.T) {
	t.Run("returns_201", func(t *testing.T) {
		audit := &mockAuditService{}
		var got services.AlertInput
		svc := &mockAlertService{
			createAlertFn: func(_ context.Context, userID string, in services.AlertInput) (*models.SmartAlert, error) {
				got = in
				return &models.SmartAlert{
					Base:      models.Base{ID: alertID},
					UserID:    userID,
					AlertType: *in.AlertType,
					Title:     *in.Title,
					Priority:  *in.Priority,
				}, nil
			},
		}
		r := setupAlertRouter(NewAlertHandler(svc, audit))

		rec := doRequest(r, http.MethodPost, "/alerts",
			`{"alert_type":"emi_reminder","title":"Car EMI","amount":"12500.50","due_date":"2025-07-05","priority":"high"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Amount == nil || !got.Amount.Equal(decimal.RequireFromString("12500.50")) {
			t.Errorf("amount = %v", got.Amount)
		}
		if got.DueDate == nil || got.DueDate.Format(dueDateLayout) != "2025-07-05" {
			t.Errorf("due date = %v", got.DueDate)
		}
		data := dataOf(t, parseJSON(t, rec))
		if data["title"] != "Car EMI" || data["priority"] != "high" {
			t.Errorf("data = %v", data)
		}
		if actions := audit.actions(); len(actions) != 1 || actions[0] != "CREATE_ALERT" {
			t.Errorf("audit = %v", actions)
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{name: "bad_priority", body: `{"alert_type":"x","title":"y","priority":"urgent"}`},
		{name: "bad_frequency", body: `{"alert_type":"x","title":"y","frequency":"hourly"}`},
		{name: "bad_due_date", body: `{"alert_type":"x","title":"y","due_date":"05/07/2025"}`},
		{name: "negative_amount", body: `{"alert_type":"x","title":"y","amount":-5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupAlertRouter(NewAlertHandler(&mockAlertService{}, &mockAuditService{}))
			rec := doRequest(r, http.MethodPost, "/alerts", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}
}

func TestAlertHandler_ByID(t *testing.T) {
	notFound := &mockAlertService{
		updateAlertFn: func(context.Context, string, string, services.AlertInput) (*models.SmartAlert, error) {
			return nil, apperrors.ErrAlertNotFound
		},
		markReadFn: func(context.Context, string, string) (*models.SmartAlert, error) {
			return nil, apperrors.ErrAlertNotFound
		},
		deleteAlertFn: func(context.Context, string, string) error {
			return apperrors.ErrAlertNotFound
		},
	}

	tests := []struct {
		name       string
		svc        *mockAlertService
		method     string
		path       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{name: "update", svc: &mockAlertService{}, method: http.MethodPatch, path: "/alerts/" + alertID, body: `{"title":"Rent"}`, wantStatus: http.StatusOK},
		{name: "mark_read", svc: &mockAlertService{}, method: http.MethodPatch, path: "/alerts/" + alertID + "/read", wantStatus: http.StatusOK},
		{name: "delete", svc: &mockAlertService{}, method: http.MethodDelete, path: "/alerts/" + alertID, wantStatus: http.StatusOK},
		{name: "update_invalid_id", svc: &mockAlertService{}, method: http.MethodPatch, path: "/alerts/abc", body: `{}`, wantStatus: http.StatusBadRequest, wantCode: "INVALID_INPUT"},
		{name: "delete_invalid_id", svc: &mockAlertService{}, method: http.MethodDelete, path: "/alerts/abc", wantStatus: http.StatusBadRequest, wantCode: "INVALID_INPUT"},
		{name: "update_not_found", svc: notFound, method: http.MethodPatch, path: "/alerts/" + alertID, body: `{}`, wantStatus: http.StatusNotFound, wantCode: "ALERT_NOT_FOUND"},
		{name: "mark_read_not_found", svc: notFound, method: http.MethodPatch, path: "/alerts/" + alertID + "/read", wantStatus: http.StatusNotFound, wantCode: "ALERT_NOT_FOUND"},
		{name: "delete_not_found", svc: notFound, method: http.MethodDelete, path: "/alerts/" + alertID, wantStatus: http.StatusNotFound, wantCode: "ALERT_NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupAlertRouter(NewAlertHandler(tt.svc, &mockAuditService{}))
			rec := doRequest(r, tt.method, tt.path, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantCode != "" {
				assertErrorCode(t, parseJSON(t, rec), tt.wantCode)
			}
		})
	}
}

func TestAlertHandler_UpcomingAndGenerate(t *testing.T) {
	audit := &mockAuditService{}
	svc := &mockAlertService{
		upcomingFn: func(context.Context, string) ([]models.SmartAlert, error) {
			return []models.SmartAlert{{Title: "Rent"}}, nil
		},
		generateFn: func(context.Context, string) ([]models.SmartAlert, error) {
			return []models.SmartAlert{{AlertType: models.AlertTypeBudget}, {AlertType: models.AlertTypeEmergencyFund}}, nil
		},
	}
	r := setupAlertRouter(NewAlertHandler(svc, audit))

	t.Run("upcoming", func(t *testing.T) {
		rec := doRequest(r, http.MethodGet, "/alerts/upcoming", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if data := parseJSON(t, rec)["data"].([]interface{}); len(data) != 1 {
			t.Errorf("data = %v", data)
		}
	})

	t.Run("generate", func(t *testing.T) {
		rec := doRequest(r, http.MethodPost, "/alerts/generate", "")
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}
		if data := parseJSON(t, rec)["data"].([]interface{}); len(data) != 2 {
			t.Errorf("data = %v", data)
		}
		if actions := audit.actions(); len(actions) != 1 || actions[0] != "GENERATE_ALERTS" {
			t.Errorf("audit = %v", actions)
		}
	})
}

func TestAlertHandler_Settings(t *testing.T) {
	t.Run("get_returns_defaults", func(t *testing.T) {
		r := setupAlertRouter(NewAlertHandler(&mockAlertService{}, &mockAuditService{}))
		rec := doRequest(r, http.MethodGet, "/alerts/settings", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		data := dataOf(t, parseJSON(t, rec))
		if data["budget_alerts"] != true || data["spending_spikes"] != false || data["budget_limit"] != "25000" {
			t.Errorf("data = %v", data)
		}
	})

	t.Run("put_merges_with_current", func(t *testing.T) {
		var saved models.AlertSettings
		svc := &mockAlertService{
			updateSettingsFn: func(_ context.Context, _ string, s models.AlertSettings) (*models.AlertSettings, error) {
				saved = s
				return &s, nil
			},
		}
		r := setupAlertRouter(NewAlertHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodPut, "/alerts/settings", `{"spending_spikes":true,"budget_limit":40000}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !saved.SpendingSpikes || !saved.BudgetLimit.Equal(decimal.NewFromInt(40000)) {
			t.Errorf("saved = %+v", saved)
		}
		if !saved.BudgetAlerts || !saved.EmergencyFundTarget.Equal(decimal.NewFromInt(100000)) {
			t.Errorf("omitted fields should keep their values: %+v", saved)
		}
	})

	t.Run("put_rejects_negative_limit", func(t *testing.T) {
		svc := &mockAlertService{
			updateSettingsFn: func(context.Context, string, models.AlertSettings) (*models.AlertSettings, error) {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget limit and emergency fund target must not be negative")
			},
		}
		r := setupAlertRouter(NewAlertHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodPut, "/alerts/settings", `{"budget_limit":-1}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}
