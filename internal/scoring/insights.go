package scoring

import "sort"

// Level is a coarse High/Medium/Low rating.
type Level string

const (
	LevelHigh   Level = "High"
	LevelMedium Level = "Medium"
	LevelLow    Level = "Low"
)

// RiskAssessment lists the triggered risk flags.
type RiskAssessment struct {
	Level   Level    `json:"level"`
	Factors []string `json:"factors"`
}

// OverallResilience rates the overall score.
type OverallResilience struct {
	Score       int    `json:"score"`
	Level       Level  `json:"level"`
	Description string `json:"description"`
}

// Insights summarises a score for the resilience dashboard.
type Insights struct {
	OverallResilience OverallResilience `json:"overall_resilience"`
	Strengths         []string          `json:"strengths"`
	ImprovementAreas  []string          `json:"improvement_areas"`
	NextActions       []string          `json:"next_actions"`
	RiskAssessment    RiskAssessment    `json:"risk_assessment"`
}

const noStrengths = "Building financial foundation"

var strengthLabels = map[Factor]string{
	FactorLiteracy:      "Strong financial knowledge",
	FactorSavings:       "Good savings habits",
	FactorDebt:          "Well-managed debt levels",
	FactorInsurance:     "Adequate insurance coverage",
	FactorEmergencyFund: "Solid emergency preparedness",
	FactorInvestment:    "Active investment portfolio",
}

var improvementLabels = map[Factor]string{
	FactorLiteracy:      "Financial education",
	FactorSavings:       "Savings rate",
	FactorDebt:          "Debt management",
	FactorInsurance:     "Insurance coverage",
	FactorEmergencyFund: "Emergency fund",
	FactorInvestment:    "Investment strategy",
}

// actionOrder breaks ties between equally low factors.
var actionOrder = []Factor{
	FactorEmergencyFund, FactorDebt, FactorInsurance, FactorSavings, FactorInvestment, FactorLiteracy,
}

var actionLabels = map[Factor]string{
	FactorEmergencyFund: "Build emergency fund to 6 months expenses",
	FactorDebt:          "Create debt reduction plan",
	FactorInsurance:     "Review and increase insurance coverage",
	FactorSavings:       "Increase monthly savings rate",
	FactorInvestment:    "Start systematic investment plan",
	FactorLiteracy:      "Complete financial education modules",
}

// ResilienceInsights derives the dashboard commentary from a score.
func ResilienceInsights(s Score) Insights {
	return Insights{
		OverallResilience: OverallResilience{
			Score:       s.Overall,
			Level:       overallLevel(s.Overall),
			Description: resilienceDescription(s.Overall),
		},
		Strengths:        strengths(s.SubScores),
		ImprovementAreas: improvementAreas(s.SubScores),
		NextActions:      nextActions(s.SubScores),
		RiskAssessment:   riskAssessment(s.SubScores),
	}
}

func overallLevel(overall int) Level {
	switch {
	case overall >= 80:
		return LevelHigh
	case overall >= 60:
		return LevelMedium
	}
	return LevelLow
}

func resilienceDescription(overall int) string {
	switch {
	case overall >= 80:
		return "Excellent financial resilience! You're well-prepared for financial challenges and opportunities."
	case overall >= 60:
		return "Good financial resilience. You have a solid foundation with room for improvement."
	case overall >= 40:
		return "Moderate financial resilience. Focus on building stronger financial habits."
	}
	return "Low financial resilience. Immediate action needed to improve your financial security."
}

func strengths(s SubScores) []string {
	out := []string{}
	for _, f := range Factors {
		if s.Get(f) >= 70 {
			out = append(out, strengthLabels[f])
		}
	}
	if len(out) == 0 {
		out = append(out, noStrengths)
	}
	return out
}

func improvementAreas(s SubScores) []string {
	out := []string{}
	for _, f := range Factors {
		if s.Get(f) < 60 {
			out = append(out, improvementLabels[f])
		}
	}
	return out
}

// nextActions returns the actions for the three lowest factors.
func nextActions(s SubScores) []string {
	ordered := make([]Factor, len(actionOrder))
	copy(ordered, actionOrder)
	sort.SliceStable(ordered, func(i, j int) bool {
		return s.Get(ordered[i]) < s.Get(ordered[j])
	})

	out := make([]string, 0, 3)
	for _, f := range ordered[:3] {
		out = append(out, actionLabels[f])
	}
	return out
}

func riskAssessment(s SubScores) RiskAssessment {
	risks := []string{}
	if s.EmergencyFund < 40 {
		risks = append(risks, "High vulnerability to financial emergencies")
	}
	if s.Debt < 40 {
		risks = append(risks, "Excessive debt burden")
	}
	if s.Insurance < 30 {
		risks = append(risks, "Inadequate protection against risks")
	}
	if s.Savings < 30 {
		risks = append(risks, "Insufficient savings for future goals")
	}

	level := LevelLow
	switch {
	case len(risks) >= 3:
		level = LevelHigh
	case len(risks) >= 1:
		level = LevelMedium
	}
	return RiskAssessment{Level: level, Factors: risks}
}
