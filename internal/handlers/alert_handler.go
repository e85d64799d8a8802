package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "finbridge/internal/errors"
	"finbridge/internal/models"
	"finbridge/internal/pagination"
	"finbridge/internal/services"
)

const dueDateLayout = "2006-01-02"

// AlertHandler handles smart alerts and alert settings.
type AlertHandler struct {
	alertService services.AlertServicer
	auditService services.AuditServicer
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(alertService services.AlertServicer, auditService services.AuditServicer) *AlertHandler {
	return &AlertHandler{alertService: alertService, auditService: auditService}
}

// AlertRequest is the payload for creating or updating an alert.
type AlertRequest struct {
	AlertType   *string                `json:"alert_type" binding:"omitempty,min=1,max=50"`
	Title       *string                `json:"title" binding:"omitempty,max=200"`
	Description *string                `json:"description" binding:"omitempty,max=1000"`
	Amount      *decimal.Decimal       `json:"amount"`
	DueDate     *string                `json:"due_date" binding:"omitempty,datetime=2006-01-02" example:"2025-07-01"`
	Priority    *models.AlertPriority  `json:"priority" binding:"omitempty,alert_priority"`
	Enabled     *bool                  `json:"enabled"`
	Frequency   *models.AlertFrequency `json:"frequency" binding:"omitempty,alert_frequency"`
}

func (r AlertRequest) input() (services.AlertInput, error) {
	in := services.AlertInput{
		AlertType:   r.AlertType,
		Title:       r.Title,
		Description: r.Description,
		Amount:      r.Amount,
		Priority:    r.Priority,
		Enabled:     r.Enabled,
		Frequency:   r.Frequency,
	}
	if r.Amount != nil && r.Amount.IsNegative() {
		return in, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}
	if r.DueDate != nil {
		d, err := time.Parse(dueDateLayout, *r.DueDate)
		if err != nil {
			return in, apperrors.WithMessage(apperrors.ErrInvalidInput, "due_date must be YYYY-MM-DD")
		}
		in.DueDate = &d
	}
	return in, nil
}

// AlertSettingsRequest updates alert settings. Omitted fields keep their
// current value.
type AlertSettingsRequest struct {
	BillReminders           *bool            `json:"bill_reminders"`
	InvestmentOpportunities *bool            `json:"investment_opportunities"`
	GoalProgress            *bool            `json:"goal_progress"`
	MarketUpdates           *bool            `json:"market_updates"`
	EMIReminders            *bool            `json:"emi_reminders"`
	BudgetAlerts            *bool            `json:"budget_alerts"`
	SpendingSpikes          *bool            `json:"spending_spikes"`
	EmergencyFundLow        *bool            `json:"emergency_fund_low"`
	BudgetLimit             *decimal.Decimal `json:"budget_limit"`
	EmergencyFundTarget     *decimal.Decimal `json:"emergency_fund_target"`
}

func (r AlertSettingsRequest) applyTo(s *models.AlertSettings) {
	set := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	set(&s.BillReminders, r.BillReminders)
	set(&s.InvestmentOpportunities, r.InvestmentOpportunities)
	set(&s.GoalProgress, r.GoalProgress)
	set(&s.MarketUpdates, r.MarketUpdates)
	set(&s.EMIReminders, r.EMIReminders)
	set(&s.BudgetAlerts, r.BudgetAlerts)
	set(&s.SpendingSpikes, r.SpendingSpikes)
	set(&s.EmergencyFundLow, r.EmergencyFundLow)
	if r.BudgetLimit != nil {
		s.BudgetLimit = *r.BudgetLimit
	}
	if r.EmergencyFundTarget != nil {
		s.EmergencyFundTarget = *r.EmergencyFundTarget
	}
}

// ListAlerts returns a page of the user's alerts.
// @Summary     List alerts
// @Tags        alerts
// @Produce     json
// @Security    BearerAuth
// @Param       enabled     query bool   false "Filter by enabled"
// @Param       type        query string false "Filter by alert type"
// @Param       priority    query string false "Filter by priority (low/medium/high)"
// @Param       unread_only query bool   false "Only unread alerts"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} result.Result[pagination.Page[models.SmartAlert]]
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /alerts [get]
func (h *AlertHandler) ListAlerts(c *gin.Context) {
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

	var filter services.AlertFilter
	if filter.Enabled, err = parseOptionalBool(c, "enabled"); err != nil {
		respondWithError(c, err)
		return
	}
	unread, err := parseOptionalBool(c, "unread_only")
	if err != nil {
		respondWithError(c, err)
		return
	}
	filter.UnreadOnly = unread != nil && *unread
	if v := c.Query("type"); v != "" {
		filter.AlertType = &v
	}
	if v := c.Query("priority"); v != "" {
		p := models.AlertPriority(v)
		if p != models.AlertPriorityLow && p != models.AlertPriorityMedium && p != models.AlertPriorityHigh {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "priority must be low, medium or high"))
			return
		}
		filter.Priority = &p
	}

	alerts, err := h.alertService.ListAlerts(c.Request.Context(), userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respond(c, http.StatusOK, alerts)
}

// CreateAlert stores a user-defined alert.
// @Summary     Create alert
// @Tags        alerts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AlertRequest true "Alert (alert_type and title required)"
// @Success     201 {object} result.Result[models.SmartAlert]
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /alerts [post]
func (h *AlertHandler) CreateAlert(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	in, err := req.input()
	if err != nil {
		respondWithError(c, err)
		return
	}

	alert, err := h.alertService.CreateAlert(c.Request.Context(), userID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_ALERT", "smart_alert", alert.ID, c.ClientIP(),
		map[string]any{"alert_type": alert.AlertType, "title": alert.Title})

	respond(c, http.StatusCreated, alert)
}

// UpdateAlert changes the provided fields of an alert.
// @Summary     Update alert
// @Tags        alerts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string       true "Alert ID"
// @Param       request body AlertRequest true "Fields to change"
// @Success     200 {object} result.Result[models.SmartAlert]
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Alert not found"
// @Router      /alerts/{id} [patch]
func (h *AlertHandler) UpdateAlert(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	alertID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	in, err := req.input()
	if err != nil {
		respondWithError(c, err)
		return
	}

	alert, err := h.alertService.UpdateAlert(c.Request.Context(), userID, alertID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_ALERT", "smart_alert", alert.ID, c.ClientIP(), nil)

	respond(c, http.StatusOK, alert)
}

// MarkAlertRead flags an alert as read.
// @Summary     Mark alert read
// @Tags        alerts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Alert ID"
// @Success     200 {object} result.Result[models.SmartAlert]
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Alert not found"
// @Router      /alerts/{id}/read [patch]
func (h *AlertHandler) MarkAlertRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	alertID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	alert, err := h.alertService.MarkAlertRead(c.Request.Context(), userID, alertID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respond(c, http.StatusOK, alert)
}

// DeleteAlert removes an alert.
// @Summary     Delete alert
// @Tags        alerts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Alert ID"
// @Success     200 {object} result.Result[map[string]string]
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Alert not found"
// @Router      /alerts/{id} [delete]
func (h *AlertHandler) DeleteAlert(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	alertID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.alertService.DeleteAlert(c.Request.Context(), userID, alertID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_ALERT", "smart_alert", alertID, c.ClientIP(), nil)

	respond(c, http.StatusOK, gin.H{"message": "Alert deleted successfully"})
}

// GetUpcomingAlerts lists enabled alerts due within a week.
// @Summary     Upcoming alerts
// @Tags        alerts
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} result.Result[[]models.SmartAlert]
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /alerts/upcoming [get]
func (h *AlertHandler) GetUpcomingAlerts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	alerts, err := h.alertService.GetUpcomingAlerts(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respond(c, http.StatusOK, alerts)
}

// GenerateAutomaticAlerts runs the alert rules for the user.
// @Summary     Generate automatic alerts
// @Description Evaluate budget, goal and emergency fund rules and store the alerts they raise
// @Tags        alerts
// @Produce     json
// @Security    BearerAuth
// @Success     201 {object} result.Result[[]models.SmartAlert]
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Financial records unavailable"
// @Router      /alerts/generate [post]
func (h *AlertHandler) GenerateAutomaticAlerts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	alerts, err := h.alertService.GenerateAutomaticAlerts(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "GENERATE_ALERTS", "smart_alert", "", c.ClientIP(),
		map[string]any{"count": len(alerts)})

	respond(c, http.StatusCreated, alerts)
}

// GetAlertSettings returns the user's alert settings.
// @Summary     Get alert settings
// @Tags        alerts
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} result.Result[models.AlertSettings]
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /alerts/settings [get]
func (h *AlertHandler) GetAlertSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	settings, err := h.alertService.GetAlertSettings(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respond(c, http.StatusOK, settings)
}

// UpdateAlertSettings stores the user's alert settings.
// @Summary     Update alert settings
// @Tags        alerts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AlertSettingsRequest true "Settings to change"
// @Success     200 {object} result.Result[models.AlertSettings]
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /alerts/settings [put]
func (h *AlertHandler) UpdateAlertSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AlertSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	current, err := h.alertService.GetAlertSettings(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	req.applyTo(current)

	settings, err := h.alertService.UpdateAlertSettings(c.Request.Context(), userID, *current)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_ALERT_SETTINGS", "alert_settings", settings.ID, c.ClientIP(), nil)

	respond(c, http.StatusOK, settings)
}
