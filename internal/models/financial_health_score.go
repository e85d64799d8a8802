package models

import (
	"time"

	"gorm.io/gorm"
)

// FinancialHealthScore is one immutable score calculation. Rows are only
// ever appended, so there is no Base embed and no UpdatedAt.
type FinancialHealthScore struct {
	ID                 string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             string    `gorm:"type:uuid;not null;index:idx_resilience_user_calculated,priority:1" json:"user_id"`
	OverallScore       int       `gorm:"not null" json:"overall_score"`
	LiteracyScore      int       `gorm:"not null" json:"literacy_score"`
	SavingsScore       int       `gorm:"not null" json:"savings_score"`
	DebtScore          int       `gorm:"not null" json:"debt_score"`
	InsuranceScore     int       `gorm:"not null" json:"insurance_score"`
	EmergencyFundScore int       `gorm:"not null" json:"emergency_fund_score"`
	InvestmentScore    int       `gorm:"not null" json:"investment_score"`
	CalculatedAt       time.Time `gorm:"not null;index:idx_resilience_user_calculated,priority:2" json:"calculated_at"`
}

// TableName maps scores onto the resilience_scores table.
func (FinancialHealthScore) TableName() string { return "resilience_scores" }

// BeforeCreate hook generates a UUIDv7 and stamps the calculation time.
func (s *FinancialHealthScore) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = NewID()
	}
	if s.CalculatedAt.IsZero() {
		s.CalculatedAt = time.Now().UTC()
	}
	return nil
}
