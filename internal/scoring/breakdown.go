package scoring

// Status is the band a factor score falls into.
type Status string

const (
	StatusExcellent        Status = "excellent"
	StatusGood             Status = "good"
	StatusFair             Status = "fair"
	StatusNeedsImprovement Status = "needs_improvement"
)

// StatusOf bands a score: excellent ≥80, good ≥60, fair ≥40.
func StatusOf(score int) Status {
	switch {
	case score >= 80:
		return StatusExcellent
	case score >= 60:
		return StatusGood
	case score >= 40:
		return StatusFair
	}
	return StatusNeedsImprovement
}

// recommendations holds one string per status band, best band first.
var recommendations = map[Factor][4]string{
	FactorLiteracy: {
		"Great job! Keep learning about advanced financial topics.",
		"Good progress! Focus on completing more advanced modules.",
		"You're on the right track. Try to complete more lessons regularly.",
		"Start with basic financial literacy modules to build your foundation.",
	},
	FactorSavings: {
		"Excellent savings habits! Consider increasing investments.",
		"Good savings rate. Try to automate your savings for consistency.",
		"Increase your savings rate. Aim for at least 10% of income.",
		"Start with small amounts. Even 5% savings can make a big difference.",
	},
	FactorDebt: {
		"Great debt management! Keep maintaining low debt levels.",
		"Good debt control. Consider debt consolidation if applicable.",
		"Focus on reducing debt-to-income ratio below 30%.",
		"Urgent: Create a debt reduction plan and avoid new debt.",
	},
	FactorInsurance: {
		"Well protected! Review coverage annually for adequacy.",
		"Good coverage. Consider term life and health insurance.",
		"Increase insurance coverage. Aim for 2-5% of income.",
		"Critical: Get basic health and term life insurance immediately.",
	},
	FactorEmergencyFund: {
		"Excellent emergency preparedness! You're well protected.",
		"Good emergency fund. Try to reach 6 months of expenses.",
		"Build your emergency fund to at least 3 months of expenses.",
		"Start building an emergency fund immediately. Start with ₹10,000.",
	},
	FactorInvestment: {
		"Excellent investment habits! Diversify across asset classes.",
		"Good start! Consider increasing SIP amounts gradually.",
		"Start systematic investment plans (SIPs) for long-term wealth.",
		"Begin with mutual funds SIP after building emergency fund.",
	},
}

// Recommendation returns the advice for a factor at the given score.
func Recommendation(f Factor, score int) string {
	texts, ok := recommendations[f]
	if !ok {
		return ""
	}
	switch StatusOf(score) {
	case StatusExcellent:
		return texts[0]
	case StatusGood:
		return texts[1]
	case StatusFair:
		return texts[2]
	}
	return texts[3]
}

// FactorBreakdown is the commentary for one factor.
type FactorBreakdown struct {
	Score          int    `json:"score"`
	Status         Status `json:"status"`
	Recommendation string `json:"recommendation"`
}

// Breakdown maps every factor to its commentary.
type Breakdown map[Factor]FactorBreakdown

// BreakdownOf derives per-factor status and advice from the sub-scores.
func BreakdownOf(s SubScores) Breakdown {
	b := make(Breakdown, len(Factors))
	for _, f := range Factors {
		score := s.Get(f)
		b[f] = FactorBreakdown{
			Score:          score,
			Status:         StatusOf(score),
			Recommendation: Recommendation(f, score),
		}
	}
	return b
}
