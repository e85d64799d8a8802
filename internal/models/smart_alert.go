package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AlertPriority ranks how urgently an alert should be shown.
type AlertPriority string

const (
	AlertPriorityLow    AlertPriority = "low"
	AlertPriorityMedium AlertPriority = "medium"
	AlertPriorityHigh   AlertPriority = "high"
)

// AlertFrequency is how often an alert repeats.
type AlertFrequency string

const (
	AlertFrequencyOnce    AlertFrequency = "once"
	AlertFrequencyDaily   AlertFrequency = "daily"
	AlertFrequencyWeekly  AlertFrequency = "weekly"
	AlertFrequencyMonthly AlertFrequency = "monthly"
	AlertFrequencyYearly  AlertFrequency = "yearly"
)

// Alert types produced by the automatic rules.
const (
	AlertTypeBudget        = "budget_alert"
	AlertTypeGoalProgress  = "goal_progress"
	AlertTypeGoalDeadline  = "goal_deadline"
	AlertTypeEmergencyFund = "emergency_fund_low"
)

// SmartAlert is a reminder or warning shown to a user.
type SmartAlert struct {
	Base
	UserID      string           `gorm:"type:uuid;not null;index" json:"user_id"`
	AlertType   string           `gorm:"not null" json:"alert_type"`
	Title       string           `gorm:"not null" json:"title"`
	Description string           `json:"description"`
	Amount      *decimal.Decimal `gorm:"type:numeric(12,2)" json:"amount,omitempty"`
	DueDate     *time.Time       `gorm:"type:date" json:"due_date,omitempty"`
	Priority    AlertPriority    `gorm:"not null" json:"priority"`
	Enabled     bool             `gorm:"not null" json:"enabled"`
	Frequency   AlertFrequency   `gorm:"not null" json:"frequency"`
	IsRead      bool             `gorm:"not null" json:"is_read"`
}

// AlertSettings holds a user's alert toggles and thresholds.
type AlertSettings struct {
	Base
	UserID                  string          `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	BillReminders           bool            `gorm:"not null" json:"bill_reminders"`
	InvestmentOpportunities bool            `gorm:"not null" json:"investment_opportunities"`
	GoalProgress            bool            `gorm:"not null" json:"goal_progress"`
	MarketUpdates           bool            `gorm:"not null" json:"market_updates"`
	EMIReminders            bool            `gorm:"not null;column:emi_reminders" json:"emi_reminders"`
	BudgetAlerts            bool            `gorm:"not null" json:"budget_alerts"`
	SpendingSpikes          bool            `gorm:"not null" json:"spending_spikes"`
	EmergencyFundLow        bool            `gorm:"not null" json:"emergency_fund_low"`
	BudgetLimit             decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"budget_limit"`
	EmergencyFundTarget     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"emergency_fund_target"`
}

// DefaultAlertSettings returns the settings a user has before saving any.
func DefaultAlertSettings(userID string) AlertSettings {
	return AlertSettings{
		UserID:                  userID,
		BillReminders:           true,
		InvestmentOpportunities: true,
		GoalProgress:            true,
		MarketUpdates:           true,
		EMIReminders:            true,
		BudgetAlerts:            true,
		SpendingSpikes:          false,
		EmergencyFundLow:        true,
		BudgetLimit:             decimal.NewFromInt(25000),
		EmergencyFundTarget:     decimal.NewFromInt(100000),
	}
}
