package models

import (
	"time"

	"gorm.io/datatypes"
)

// PersonalityType is one of the five money personality archetypes.
type PersonalityType string

const (
	PersonalityPrudentSaver        PersonalityType = "prudent_saver"
	PersonalityLifestyleEnthusiast PersonalityType = "lifestyle_enthusiast"
	PersonalityGrowthSeeker        PersonalityType = "growth_seeker"
	PersonalityBalancedPlanner     PersonalityType = "balanced_planner"
	PersonalityRiskAverse          PersonalityType = "risk_averse"
)

// AssessmentAnswers holds the six questionnaire answers.
type AssessmentAnswers struct {
	SalaryApproach      string `json:"salary_approach" binding:"required,assessment_answer=salary_approach"`
	RiskTolerance       string `json:"risk_tolerance" binding:"required,assessment_answer=risk_tolerance"`
	PlanningApproach    string `json:"planning_approach" binding:"required,assessment_answer=planning_approach"`
	PurchaseDecision    string `json:"purchase_decision" binding:"required,assessment_answer=purchase_decision"`
	EmergencyFund       string `json:"emergency_fund" binding:"required,assessment_answer=emergency_fund"`
	InvestmentKnowledge string `json:"investment_knowledge" binding:"required,assessment_answer=investment_knowledge"`
}

// AssessmentScores maps each archetype to its accumulated points.
type AssessmentScores map[PersonalityType]int

// PersonalityProfile is the single stored assessment result for a user.
// A new assessment replaces every field.
type PersonalityProfile struct {
	Base
	UserID            string                                `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	PersonalityType   PersonalityType                       `gorm:"not null" json:"personality_type"`
	AssessmentAnswers datatypes.JSONType[AssessmentAnswers] `json:"assessment_answers"`
	AssessmentScores  datatypes.JSONType[AssessmentScores]  `json:"assessment_scores"`
	ConfidenceLevel   float64                               `gorm:"not null" json:"confidence_level"`
	CompletedAt       time.Time                             `gorm:"not null" json:"completed_at"`
}

// TableName maps profiles onto user_personality_profiles.
func (PersonalityProfile) TableName() string { return "user_personality_profiles" }
