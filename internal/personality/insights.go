package personality

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"finbridge/internal/models"
)

// insightWindow is how far back transactions count towards behavioural insights.
const insightWindow = 30 * 24 * time.Hour

const week = 7 * 24 * time.Hour

// behavioralConsistency is a fixed placeholder until spending-habit
// tracking lands.
const behavioralConsistency = 70.0

// Alignment scores how well recent behaviour matches the archetype.
type Alignment struct {
	Score    int    `json:"score"`
	Analysis string `json:"analysis"`
}

// Trend classifies how steady weekly spending is.
type Trend struct {
	Trend    string   `json:"trend"`
	Message  string   `json:"message"`
	Variance *float64 `json:"variance,omitempty"`
}

// ChallengePerformance summarises a user's challenges.
type ChallengePerformance struct {
	CompletionRate  float64 `json:"completion_rate"`
	AverageProgress float64 `json:"average_progress"`
	TotalChallenges int     `json:"total_challenges"`
}

// InsightRecommendation is one piece of advice.
type InsightRecommendation struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Priority string `json:"priority"`
}

// GrowthIndicators tracks progress over time.
type GrowthIndicators struct {
	LearningProgress      float64 `json:"learning_progress"`
	BehavioralConsistency float64 `json:"behavioral_consistency"`
	ChallengeEngagement   float64 `json:"challenge_engagement"`
	OverallGrowth         float64 `json:"overall_growth"`
}

// BehavioralInsights combines every insight for a profile.
type BehavioralInsights struct {
	PersonalityAlignment Alignment               `json:"personality_alignment"`
	BehavioralTrends     Trend                   `json:"behavioral_trends"`
	ChallengePerformance ChallengePerformance    `json:"challenge_performance"`
	Recommendations      []InsightRecommendation `json:"recommendations"`
	GrowthIndicators     GrowthIndicators        `json:"growth_indicators"`
}

// Insights derives behavioural insights for profile from its challenges and
// the transactions of the 30 days before now.
func (c *Catalog) Insights(
	profile *models.PersonalityProfile,
	challenges []models.PersonalityChallenge,
	txns []models.Transaction,
	now time.Time,
) BehavioralInsights {
	archetype, _ := c.Get(profile.PersonalityType)
	recent := recentTransactions(txns, now)
	perf := challengePerformance(challenges)

	return BehavioralInsights{
		PersonalityAlignment: alignment(archetype, recent),
		BehavioralTrends:     spendingTrend(recent),
		ChallengePerformance: perf,
		Recommendations:      recommendationsFor(archetype, challenges, recent),
		GrowthIndicators:     growth(profile.ConfidenceLevel, perf, len(challenges)),
	}
}

func recentTransactions(txns []models.Transaction, now time.Time) []models.Transaction {
	y, m, d := now.Add(-insightWindow).Date()
	cutoff := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	out := make([]models.Transaction, 0, len(txns))
	for _, t := range txns {
		if !t.TransactionDate.Before(cutoff) {
			out = append(out, t)
		}
	}
	return out
}

func alignment(a Archetype, txns []models.Transaction) Alignment {
	score := 50
	if len(txns) == 0 {
		return Alignment{Score: score, Analysis: "Insufficient transaction data"}
	}

	spent, income := decimal.Zero, decimal.Zero
	for _, t := range txns {
		switch t.TransactionType {
		case models.TransactionTypeExpense:
			spent = spent.Add(t.Amount.Abs())
		case models.TransactionTypeIncome:
			income = income.Add(t.Amount)
		}
	}
	rate := decimal.Zero
	if income.IsPositive() {
		rate = income.Sub(spent).Mul(decimal.NewFromInt(100)).Div(income)
	}

	atLeast := func(n int64) bool { return rate.GreaterThanOrEqual(decimal.NewFromInt(n)) }
	atMost := func(n int64) bool { return rate.LessThanOrEqual(decimal.NewFromInt(n)) }

	switch a.ID {
	case models.PersonalityPrudentSaver:
		switch {
		case atLeast(30):
			score += 30
		case atLeast(20):
			score += 15
		default:
			score -= 20
		}
	case models.PersonalityLifestyleEnthusiast:
		if atLeast(10) && atMost(25) {
			score += 20
		}
		if spent.GreaterThan(income.Mul(decimal.RequireFromString("0.7"))) {
			score += 10
		}
	case models.PersonalityGrowthSeeker:
		if atLeast(20) {
			score += 20
		}
	case models.PersonalityBalancedPlanner:
		if atLeast(20) && atMost(35) {
			score += 25
		}
	case models.PersonalityRiskAverse:
		if atLeast(25) {
			score += 25
		}
	}

	expected := a.AlignmentTarget
	if expected == 0 {
		expected = 20
	}
	message := "aligns well with your personality type"
	if !atLeast(int64(expected)) {
		message = fmt.Sprintf("is below the %d%% typically expected for your personality type", expected)
	}

	return Alignment{
		Score:    max(0, min(100, score)),
		Analysis: fmt.Sprintf("%s%% savings rate %s", rate.StringFixed(1), message),
	}
}

// spendingTrend buckets absolute amounts by epoch week and compares the
// variance of the weekly totals to their mean.
func spendingTrend(txns []models.Transaction) Trend {
	if len(txns) == 0 {
		return Trend{Trend: "insufficient_data", Message: "Not enough transaction data to analyze trends"}
	}

	weeks := map[int64]float64{}
	for _, t := range txns {
		bucket := int64(math.Floor(float64(t.TransactionDate.UnixMilli()) / float64(week.Milliseconds())))
		weeks[bucket] += t.Amount.Abs().InexactFloat64()
	}

	mean := 0.0
	for _, v := range weeks {
		mean += v
	}
	mean /= float64(len(weeks))

	variance := 0.0
	for _, v := range weeks {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(weeks))

	divisor := mean
	if divisor == 0 {
		divisor = 1
	}
	ratio := variance / divisor

	tr := Trend{Variance: &ratio}
	switch {
	case ratio < 0.2:
		tr.Trend = "consistent"
		tr.Message = "Your spending patterns are very consistent, which aligns well with disciplined financial behavior."
	case ratio < 0.5:
		tr.Trend = "moderate_variance"
		tr.Message = "Your spending shows moderate variation, which is normal for most people."
	default:
		tr.Trend = "high_variance"
		tr.Message = "Your spending patterns vary significantly week to week. Consider budgeting tools for better consistency."
	}
	return tr
}

func challengePerformance(challenges []models.PersonalityChallenge) ChallengePerformance {
	completed, progressSum := 0, 0
	for _, ch := range challenges {
		if ch.Status == models.ChallengeStatusCompleted {
			completed++
		}
		progressSum += ch.Progress
	}

	perf := ChallengePerformance{
		TotalChallenges: len(challenges),
		AverageProgress: float64(progressSum) / float64(max(1, len(challenges))),
	}
	if len(challenges) > 0 {
		perf.CompletionRate = float64(completed) / float64(len(challenges)) * 100
	}
	return perf
}

func recommendationsFor(a Archetype, challenges []models.PersonalityChallenge, txns []models.Transaction) []InsightRecommendation {
	recs := make([]InsightRecommendation, 0, len(a.Recommendations)+2)
	for _, r := range a.Recommendations {
		recs = append(recs, InsightRecommendation{Type: "personality_based", Message: r, Priority: "medium"})
	}

	if len(challenges) > 0 {
		completed := 0
		for _, ch := range challenges {
			if ch.Status == models.ChallengeStatusCompleted {
				completed++
			}
		}
		if float64(completed)/float64(len(challenges)) < 0.3 {
			recs = append(recs, InsightRecommendation{
				Type:     "challenge_completion",
				Message:  "Try breaking down challenges into smaller, daily tasks to improve completion rates.",
				Priority: "high",
			})
		}
	}

	if len(txns) > 0 {
		hasIncome := false
		for _, t := range txns {
			if t.TransactionType == models.TransactionTypeIncome {
				hasIncome = true
				break
			}
		}
		if !hasIncome {
			recs = append(recs, InsightRecommendation{
				Type:     "income_tracking",
				Message:  "Start tracking your income to get better financial insights and planning capabilities.",
				Priority: "high",
			})
		}
	}

	return recs
}

func growth(confidence float64, perf ChallengePerformance, challengeCount int) GrowthIndicators {
	g := GrowthIndicators{
		LearningProgress:      math.Min(100, confidence+20),
		BehavioralConsistency: behavioralConsistency,
	}
	if challengeCount > 0 {
		g.ChallengeEngagement = perf.AverageProgress
	}
	g.OverallGrowth = g.LearningProgress*0.3 + g.BehavioralConsistency*0.3 + g.ChallengeEngagement*0.4
	return g
}
