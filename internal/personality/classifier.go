package personality

import (
	"fmt"

	apperrors "finbridge/internal/errors"
	"finbridge/internal/models"
)

// Priority is the fixed archetype order used to break ties.
var Priority = []models.PersonalityType{
	models.PersonalityPrudentSaver,
	models.PersonalityLifestyleEnthusiast,
	models.PersonalityGrowthSeeker,
	models.PersonalityBalancedPlanner,
	models.PersonalityRiskAverse,
}

// maxScore is the highest total any archetype can reach over six questions.
const maxScore = 18

type points map[models.PersonalityType]int

const (
	ps = models.PersonalityPrudentSaver
	le = models.PersonalityLifestyleEnthusiast
	gs = models.PersonalityGrowthSeeker
	bp = models.PersonalityBalancedPlanner
	ra = models.PersonalityRiskAverse
)

// Questions lists the assessment questions in order.
var Questions = []string{
	"salary_approach",
	"risk_tolerance",
	"planning_approach",
	"purchase_decision",
	"emergency_fund",
	"investment_knowledge",
}

// answerPoints maps question → answer → archetype increments.
var answerPoints = map[string]map[string]points{
	"salary_approach": {
		"save_immediately":   {ps: 3, bp: 1},
		"buy_wanted_item":    {le: 3},
		"invest_opportunity": {gs: 3},
		"review_budget":      {bp: 3, ps: 1},
	},
	"risk_tolerance": {
		"guaranteed_returns": {ra: 3, ps: 2},
		"calculated_risks":   {bp: 3, gs: 1},
		"high_risk_reward":   {gs: 3},
		"risk_anxious":       {ra: 3},
	},
	"planning_approach": {
		"detailed_longterm":     {bp: 3, ps: 1},
		"basic_monthly":         {bp: 2, le: 1},
		"reactive_approach":     {le: 2},
		"planning_overwhelming": {ra: 2, le: 1},
	},
	"purchase_decision": {
		"extensive_research": {bp: 3, ps: 1},
		"gut_feeling":        {le: 3},
		"sleep_on_it":        {ps: 2, ra: 2},
		"best_deal":          {ps: 2, bp: 1},
	},
	"emergency_fund": {
		"six_plus_months":     {ps: 3, bp: 2},
		"one_to_three_months": {bp: 2, ps: 1},
		"less_than_month":     {le: 2, gs: 1},
		"no_emergency_fund":   {le: 3},
	},
	"investment_knowledge": {
		"very_knowledgeable": {gs: 3, bp: 1},
		"some_knowledge":     {bp: 2, gs: 1},
		"basic_knowledge":    {ps: 2, ra: 1},
		"no_knowledge":       {ra: 3},
	},
}

// Classification is the outcome of an assessment.
type Classification struct {
	Type       models.PersonalityType  `json:"personality_type"`
	Scores     models.AssessmentScores `json:"scores"`
	Confidence float64                 `json:"confidence_level"`
}

func answerList(a models.AssessmentAnswers) []string {
	return []string{
		a.SalaryApproach,
		a.RiskTolerance,
		a.PlanningApproach,
		a.PurchaseDecision,
		a.EmergencyFund,
		a.InvestmentKnowledge,
	}
}

// ValidAnswer reports whether value is one of the allowed answers to question.
func ValidAnswer(question, value string) bool {
	_, ok := answerPoints[question][value]
	return ok
}

// Validate rejects missing or unknown answers.
func Validate(a models.AssessmentAnswers) error {
	for i, value := range answerList(a) {
		q := Questions[i]
		if value == "" {
			return apperrors.WithMessage(apperrors.ErrValidationFailed, fmt.Sprintf("%s is required", q))
		}
		if !ValidAnswer(q, value) {
			return apperrors.WithMessage(apperrors.ErrValidationFailed, fmt.Sprintf("%s has unsupported value %q", q, value))
		}
	}
	return nil
}

// Classify accumulates points per archetype and picks the strictly highest,
// falling back to Priority order on ties.
func Classify(a models.AssessmentAnswers) (Classification, error) {
	if err := Validate(a); err != nil {
		return Classification{}, err
	}

	scores := make(models.AssessmentScores, len(Priority))
	for _, t := range Priority {
		scores[t] = 0
	}
	for i, value := range answerList(a) {
		for t, n := range answerPoints[Questions[i]][value] {
			scores[t] += n
		}
	}

	best := Priority[0]
	for _, t := range Priority[1:] {
		if scores[t] > scores[best] {
			best = t
		}
	}

	return Classification{
		Type:       best,
		Scores:     scores,
		Confidence: float64(scores[best]) / maxScore * 100,
	}, nil
}
