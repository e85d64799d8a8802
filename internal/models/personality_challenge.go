package models

import "github.com/shopspring/decimal"

// ChallengeStatus represents where a user is with a challenge.
type ChallengeStatus string

const (
	ChallengeStatusPending    ChallengeStatus = "pending"
	ChallengeStatusInProgress ChallengeStatus = "in_progress"
	ChallengeStatusCompleted  ChallengeStatus = "completed"
)

// PersonalityChallenge is a challenge materialized from an archetype template.
type PersonalityChallenge struct {
	Base
	UserID          string          `gorm:"type:uuid;not null;index" json:"user_id"`
	PersonalityType PersonalityType `gorm:"not null" json:"personality_type"`
	Title           string          `gorm:"not null" json:"title"`
	Description     string          `json:"description"`
	TargetAmount    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"target_amount"`
	DurationDays    int             `gorm:"not null" json:"duration_days"`
	Difficulty      string          `gorm:"not null" json:"difficulty"`
	Status          ChallengeStatus `gorm:"not null;default:pending" json:"status"`
	Progress        int             `gorm:"not null;default:0" json:"progress"`
}
