package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"finbridge/internal/alerts"
	apperrors "finbridge/internal/errors"
	"finbridge/internal/logger"
	"finbridge/internal/models"
	"finbridge/internal/pagination"
)

// upcomingWindow is how many days ahead GetUpcomingAlerts looks.
const upcomingWindow = 7

// alertService handles smart alerts and alert settings.
type alertService struct {
	db   *gorm.DB
	opts options
}

// NewAlertService creates a new AlertServicer.
func NewAlertService(db *gorm.DB, opts ...Option) AlertServicer {
	return &alertService{db: db, opts: buildOptions(opts)}
}

// ListAlerts returns a page of the user's alerts, newest first.
func (s *alertService) ListAlerts(
	ctx context.Context,
	userID string,
	page pagination.PageRequest,
	filter AlertFilter,
) (*pagination.Page[models.SmartAlert], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.SmartAlert{}).Where("user_id = ?", userID)
	if filter.Enabled != nil {
		base = base.Where("enabled = ?", *filter.Enabled)
	}
	if filter.AlertType != nil {
		base = base.Where("alert_type = ?", *filter.AlertType)
	}
	if filter.Priority != nil {
		base = base.Where("priority = ?", *filter.Priority)
	}
	if filter.UnreadOnly {
		base = base.Where("is_read = ?", false)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var list []models.SmartAlert
	if err := base.Order("created_at DESC, id DESC").Scopes(pagination.Paginate(page)).Find(&list).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPage(list, page, totalItems)
	return &result, nil
}

// CreateAlert stores a user-defined alert. Priority defaults to medium,
// frequency to monthly and the alert starts enabled.
func (s *alertService) CreateAlert(ctx context.Context, userID string, in AlertInput) (*models.SmartAlert, error) {
	if in.AlertType == nil || *in.AlertType == "" || in.Title == nil || *in.Title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "alert type and title are required")
	}

	alert := &models.SmartAlert{
		UserID:    userID,
		AlertType: *in.AlertType,
		Title:     *in.Title,
		Amount:    in.Amount,
		DueDate:   in.DueDate,
		Priority:  models.AlertPriorityMedium,
		Enabled:   true,
		Frequency: models.AlertFrequencyMonthly,
	}
	if in.Description != nil {
		alert.Description = *in.Description
	}
	if in.Priority != nil {
		alert.Priority = *in.Priority
	}
	if in.Enabled != nil {
		alert.Enabled = *in.Enabled
	}
	if in.Frequency != nil {
		alert.Frequency = *in.Frequency
	}

	if err := s.db.WithContext(ctx).Create(alert).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return alert, nil
}

// UpdateAlert changes the non-nil fields of one of the user's alerts.
func (s *alertService) UpdateAlert(ctx context.Context, userID, alertID string, in AlertInput) (*models.SmartAlert, error) {
	alert, err := s.find(ctx, userID, alertID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if in.AlertType != nil {
		updates["alert_type"] = *in.AlertType
	}
	if in.Title != nil {
		if *in.Title == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "title cannot be empty")
		}
		updates["title"] = *in.Title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Amount != nil {
		updates["amount"] = *in.Amount
	}
	if in.DueDate != nil {
		updates["due_date"] = *in.DueDate
	}
	if in.Priority != nil {
		updates["priority"] = *in.Priority
	}
	if in.Enabled != nil {
		updates["enabled"] = *in.Enabled
	}
	if in.Frequency != nil {
		updates["frequency"] = *in.Frequency
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(alert).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return s.find(ctx, userID, alertID)
}

// MarkAlertRead flags one of the user's alerts as read.
func (s *alertService) MarkAlertRead(ctx context.Context, userID, alertID string) (*models.SmartAlert, error) {
	alert, err := s.find(ctx, userID, alertID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(alert).Update("is_read", true).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	alert.IsRead = true
	return alert, nil
}

// DeleteAlert removes one of the user's alerts.
func (s *alertService) DeleteAlert(ctx context.Context, userID, alertID string) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", alertID, userID).Delete(&models.SmartAlert{})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrAlertNotFound
	}
	return nil
}

// GetUpcomingAlerts returns enabled alerts due between today and a week
// from today, soonest first.
func (s *alertService) GetUpcomingAlerts(ctx context.Context, userID string) ([]models.SmartAlert, error) {
	today := s.opts.now().Truncate(24 * time.Hour)
	until := today.AddDate(0, 0, upcomingWindow)

	list := []models.SmartAlert{}
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND enabled = ?", userID, true).
		Where("due_date IS NOT NULL AND due_date >= ? AND due_date <= ?", today, until).
		Order("due_date ASC").
		Find(&list).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return list, nil
}

// GenerateAutomaticAlerts evaluates the alert rules against the user's
// records and stores the resulting alerts.
func (s *alertService) GenerateAutomaticAlerts(ctx context.Context, userID string) ([]models.SmartAlert, error) {
	in, err := loadScoreInputs(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	settings, err := s.GetAlertSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	generated := alerts.Generate(alerts.Inputs{
		Transactions: in.Transactions,
		Goals:        in.Goals,
		Settings:     *settings,
	}, s.opts.now())
	if len(generated) == 0 {
		return []models.SmartAlert{}, nil
	}

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&generated).Error
	}); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for _, a := range generated {
		s.opts.metrics.AlertGenerated(a.AlertType)
	}
	logger.Get().Infow("automatic alerts generated", "user_id", userID, "count", len(generated))
	return generated, nil
}

// GetAlertSettings returns the user's settings, or the defaults when none
// are stored.
func (s *alertService) GetAlertSettings(ctx context.Context, userID string) (*models.AlertSettings, error) {
	var settings models.AlertSettings
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := models.DefaultAlertSettings(userID)
		return &defaults, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &settings, nil
}

// UpdateAlertSettings creates or replaces the user's settings.
func (s *alertService) UpdateAlertSettings(ctx context.Context, userID string, settings models.AlertSettings) (*models.AlertSettings, error) {
	if settings.BudgetLimit.IsNegative() || settings.EmergencyFundTarget.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget limit and emergency fund target must not be negative")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.AlertSettings
		err := forUpdate(tx).Where("user_id = ?", userID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			settings.ID = ""
		case err != nil:
			return err
		default:
			settings.ID = existing.ID
			settings.CreatedAt = existing.CreatedAt
		}
		settings.UserID = userID
		return tx.Save(&settings).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &settings, nil
}

func (s *alertService) find(ctx context.Context, userID, alertID string) (*models.SmartAlert, error) {
	var alert models.SmartAlert
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", alertID, userID).First(&alert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAlertNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &alert, nil
}
