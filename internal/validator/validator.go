// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"finbridge/internal/models"
	"finbridge/internal/personality"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("alert_priority", validateAlertPriority)
		_ = v.RegisterValidation("alert_frequency", validateAlertFrequency)
		_ = v.RegisterValidation("assessment_answer", validateAssessmentAnswer)
	}
}

func validateAlertPriority(fl validator.FieldLevel) bool {
	switch models.AlertPriority(fl.Field().String()) {
	case models.AlertPriorityLow, models.AlertPriorityMedium, models.AlertPriorityHigh:
		return true
	}
	return false
}

func validateAlertFrequency(fl validator.FieldLevel) bool {
	switch models.AlertFrequency(fl.Field().String()) {
	case models.AlertFrequencyOnce, models.AlertFrequencyDaily, models.AlertFrequencyWeekly,
		models.AlertFrequencyMonthly, models.AlertFrequencyYearly:
		return true
	}
	return false
}

// validateAssessmentAnswer checks the value against the allowed answers of
// the question named by the tag parameter, e.g. assessment_answer=risk_tolerance.
func validateAssessmentAnswer(fl validator.FieldLevel) bool {
	return personality.ValidAnswer(fl.Param(), fl.Field().String())
}
