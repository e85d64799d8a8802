package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoalTypeEmergencyFund marks the goal that tracks the user's emergency fund.
const GoalTypeEmergencyFund = "emergency_fund"

// GoalStatusActive is the status of a goal the user is still working towards.
const GoalStatusActive = "active"

// Goal is a savings target. Current amounts are maintained outside the API.
type Goal struct {
	Base
	UserID        string          `gorm:"type:uuid;not null;index" json:"user_id"`
	GoalName      string          `gorm:"not null" json:"goal_name"`
	GoalType      string          `gorm:"not null" json:"goal_type"`
	TargetAmount  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"target_amount"`
	CurrentAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"current_amount"`
	Status        string          `gorm:"not null;default:active" json:"status"`
	TargetDate    *time.Time      `gorm:"type:date" json:"target_date,omitempty"`
}
