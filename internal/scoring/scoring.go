// Package scoring computes the FinBridge financial health score.
//
// Every function here is pure: it works on records that were already loaded
// and takes the clock as a parameter, so the same inputs always produce the
// same score. Ratios are computed with shopspring/decimal so that band
// boundaries such as "debt ratio ≤ 10%" are evaluated exactly.
package scoring

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finbridge/internal/models"
)

// Factor names one of the six sub-scores.
type Factor string

const (
	FactorLiteracy      Factor = "literacy"
	FactorSavings       Factor = "savings"
	FactorDebt          Factor = "debt"
	FactorInsurance     Factor = "insurance"
	FactorEmergencyFund Factor = "emergency_fund"
	FactorInvestment    Factor = "investment"
)

// Factors lists the sub-scores in reporting order.
var Factors = []Factor{
	FactorLiteracy, FactorSavings, FactorDebt, FactorInsurance, FactorEmergencyFund, FactorInvestment,
}

// Weights of each factor in the overall score. They sum to 1.
var Weights = map[Factor]decimal.Decimal{
	FactorLiteracy:      decimal.RequireFromString("0.20"),
	FactorSavings:       decimal.RequireFromString("0.20"),
	FactorDebt:          decimal.RequireFromString("0.15"),
	FactorInsurance:     decimal.RequireFromString("0.10"),
	FactorEmergencyFund: decimal.RequireFromString("0.20"),
	FactorInvestment:    decimal.RequireFromString("0.15"),
}

// totalLessons is the assumed size of the lesson catalogue.
const totalLessons = 24

var (
	hundred      = decimal.NewFromInt(100)
	twelve       = decimal.NewFromInt(12)
	six          = decimal.NewFromInt(6)
	savingsGoals = map[string]bool{models.GoalTypeEmergencyFund: true, "vacation": true, "house": true}
	debtKeywords = []string{"emi", "loan", "credit card"}
)

// Inputs are the records a score is computed from. Empty slices are valid.
type Inputs struct {
	Transactions []models.Transaction
	Goals        []models.Goal
	Progress     []models.UserProgress
}

// SubScores holds the six factor scores, each in [0, 100].
type SubScores struct {
	Literacy      int `json:"literacy_score"`
	Savings       int `json:"savings_score"`
	Debt          int `json:"debt_score"`
	Insurance     int `json:"insurance_score"`
	EmergencyFund int `json:"emergency_fund_score"`
	Investment    int `json:"investment_score"`
}

// Get returns the score of a single factor.
func (s SubScores) Get(f Factor) int {
	switch f {
	case FactorLiteracy:
		return s.Literacy
	case FactorSavings:
		return s.Savings
	case FactorDebt:
		return s.Debt
	case FactorInsurance:
		return s.Insurance
	case FactorEmergencyFund:
		return s.EmergencyFund
	case FactorInvestment:
		return s.Investment
	}
	return 0
}

// FromRecord extracts the sub-scores of a stored score row.
func FromRecord(r *models.FinancialHealthScore) SubScores {
	return SubScores{
		Literacy:      r.LiteracyScore,
		Savings:       r.SavingsScore,
		Debt:          r.DebtScore,
		Insurance:     r.InsuranceScore,
		EmergencyFund: r.EmergencyFundScore,
		Investment:    r.InvestmentScore,
	}
}

// Score is a complete calculation.
type Score struct {
	SubScores
	Overall int `json:"overall_score"`
}

// Record turns the score into a row ready to be appended to the history.
func (s Score) Record(userID string, calculatedAt time.Time) *models.FinancialHealthScore {
	return &models.FinancialHealthScore{
		UserID:             userID,
		OverallScore:       s.Overall,
		LiteracyScore:      s.Literacy,
		SavingsScore:       s.Savings,
		DebtScore:          s.Debt,
		InsuranceScore:     s.Insurance,
		EmergencyFundScore: s.EmergencyFund,
		InvestmentScore:    s.Investment,
		CalculatedAt:       calculatedAt,
	}
}

// Compute scores every factor and combines them.
func Compute(in Inputs, now time.Time) Score {
	sub := SubScores{
		Literacy:      LiteracyScore(in.Progress),
		Savings:       SavingsScore(in.Transactions, in.Goals, now),
		Debt:          DebtScore(in.Transactions, now),
		Insurance:     InsuranceScore(in.Transactions, now),
		EmergencyFund: EmergencyFundScore(in.Goals, in.Transactions, now),
		Investment:    InvestmentScore(in.Transactions, now),
	}
	return Score{SubScores: sub, Overall: Overall(sub)}
}

// Overall is the weighted sum of the sub-scores, rounded half away from zero.
func Overall(s SubScores) int {
	total := decimal.Zero
	for _, f := range Factors {
		total = total.Add(Weights[f].Mul(decimal.NewFromInt(int64(s.Get(f)))))
	}
	return int(total.Round(0).IntPart())
}

// LiteracyScore blends lesson completion (60%) with the mean lesson score (40%).
func LiteracyScore(progress []models.UserProgress) int {
	if len(progress) == 0 {
		return 0
	}

	completed := 0
	scoreSum := int64(0)
	for _, p := range progress {
		if p.ProgressStatus == models.ProgressStatusCompleted {
			completed++
		}
		scoreSum += int64(p.Score)
	}

	completion := decimal.NewFromInt(int64(completed)).Mul(decimal.NewFromInt(60)).Div(decimal.NewFromInt(totalLessons))
	mean := decimal.NewFromInt(scoreSum).Div(decimal.NewFromInt(int64(len(progress))))
	performance := mean.Mul(decimal.NewFromInt(40)).Div(hundred)

	return clamp(int(completion.Add(performance).Round(0).IntPart()))
}

// SavingsScore tiers the savings rate over the last three months and adds
// five points per active savings goal, up to twenty.
func SavingsScore(txns []models.Transaction, goals []models.Goal, now time.Time) int {
	if len(txns) == 0 {
		return 0
	}

	recent := since(txns, now.AddDate(0, -3, 0))
	income := sumType(recent, models.TransactionTypeIncome)
	if income.IsZero() {
		return 0
	}
	rate := percent(sumType(recent, models.TransactionTypeSavings), income)

	score := 20
	switch {
	case rate.GreaterThanOrEqual(decimal.NewFromInt(20)):
		score = 100
	case rate.GreaterThanOrEqual(decimal.NewFromInt(15)):
		score = 80
	case rate.GreaterThanOrEqual(decimal.NewFromInt(10)):
		score = 60
	case rate.GreaterThanOrEqual(decimal.NewFromInt(5)):
		score = 40
	}

	active := 0
	for _, g := range goals {
		if g.Status == models.GoalStatusActive && savingsGoals[g.GoalType] {
			active++
		}
	}
	score += min(20, active*5)

	return min(100, score)
}

// DebtScore bands debt servicing (EMI, loan and credit card payments) over
// the last year as a share of income. No transactions at all means no debt;
// transactions without income score a neutral 50.
func DebtScore(txns []models.Transaction, now time.Time) int {
	if len(txns) == 0 {
		return 100
	}

	recent := since(txns, now.AddDate(-1, 0, 0))
	income := sumType(recent, models.TransactionTypeIncome)

	debt := decimal.Zero
	for _, t := range recent {
		if isDebtPayment(t.Category) {
			debt = debt.Add(t.Amount)
		}
	}

	if income.IsZero() {
		return 50
	}
	ratio := percent(debt, income)

	switch {
	case ratio.IsZero():
		return 100
	case ratio.LessThanOrEqual(decimal.NewFromInt(10)):
		return 90
	case ratio.LessThanOrEqual(decimal.NewFromInt(20)):
		return 75
	case ratio.LessThanOrEqual(decimal.NewFromInt(30)):
		return 60
	case ratio.LessThanOrEqual(decimal.NewFromInt(40)):
		return 40
	}
	return 20
}

// InsuranceScore rewards insurance spend of 2–5% of last year's income.
func InsuranceScore(txns []models.Transaction, now time.Time) int {
	if len(txns) == 0 {
		return 0
	}

	recent := since(txns, now.AddDate(-1, 0, 0))
	income := sumType(recent, models.TransactionTypeIncome)

	insurance := decimal.Zero
	for _, t := range recent {
		if strings.Contains(strings.ToLower(t.Category), "insurance") {
			insurance = insurance.Add(t.Amount)
		}
	}

	if income.IsZero() {
		return 0
	}
	ratio := percent(insurance, income)

	one, two, five, eight := decimal.NewFromInt(1), decimal.NewFromInt(2), decimal.NewFromInt(5), decimal.NewFromInt(8)
	switch {
	case ratio.GreaterThanOrEqual(two) && ratio.LessThanOrEqual(five):
		return 100
	case ratio.GreaterThanOrEqual(one) && ratio.LessThan(two):
		return 70
	case ratio.GreaterThan(five) && ratio.LessThanOrEqual(eight):
		return 80
	case ratio.IsPositive() && ratio.LessThan(one):
		return 50
	case ratio.GreaterThan(eight):
		return 60
	}
	return 0
}

// EmergencyFundScore compares the emergency fund goal against six months of
// last year's average expenses. Without expenses the score is a neutral 50.
func EmergencyFundScore(goals []models.Goal, txns []models.Transaction, now time.Time) int {
	var fund *models.Goal
	for i := range goals {
		if goals[i].GoalType == models.GoalTypeEmergencyFund {
			fund = &goals[i]
			break
		}
	}
	if fund == nil {
		return 0
	}

	expenses := sumType(since(txns, now.AddDate(-1, 0, 0)), models.TransactionTypeExpense)
	ideal := expenses.Div(twelve).Mul(six)
	if ideal.IsZero() {
		return 50
	}
	ratio := fund.CurrentAmount.Div(ideal)

	switch {
	case ratio.GreaterThanOrEqual(decimal.NewFromInt(1)):
		return 100
	case ratio.GreaterThanOrEqual(decimal.RequireFromString("0.75")):
		return 85
	case ratio.GreaterThanOrEqual(decimal.RequireFromString("0.5")):
		return 70
	case ratio.GreaterThanOrEqual(decimal.RequireFromString("0.25")):
		return 50
	case ratio.IsPositive():
		return 25
	}
	return 0
}

// InvestmentScore bands last year's investments as a share of income.
func InvestmentScore(txns []models.Transaction, now time.Time) int {
	if len(txns) == 0 {
		return 0
	}

	recent := since(txns, now.AddDate(-1, 0, 0))
	income := sumType(recent, models.TransactionTypeIncome)
	if income.IsZero() {
		return 0
	}
	rate := percent(sumType(recent, models.TransactionTypeInvestment), income)

	switch {
	case rate.GreaterThanOrEqual(decimal.NewFromInt(15)):
		return 100
	case rate.GreaterThanOrEqual(decimal.NewFromInt(10)):
		return 80
	case rate.GreaterThanOrEqual(decimal.NewFromInt(5)):
		return 60
	case rate.GreaterThanOrEqual(decimal.NewFromInt(2)):
		return 40
	case rate.IsPositive():
		return 20
	}
	return 0
}

func isDebtPayment(category string) bool {
	c := strings.ToLower(category)
	for _, kw := range debtKeywords {
		if strings.Contains(c, kw) {
			return true
		}
	}
	return false
}

// since keeps transactions dated on or after cutoff.
func since(txns []models.Transaction, cutoff time.Time) []models.Transaction {
	out := make([]models.Transaction, 0, len(txns))
	for _, t := range txns {
		if !t.TransactionDate.Before(cutoff) {
			out = append(out, t)
		}
	}
	return out
}

func sumType(txns []models.Transaction, typ models.TransactionType) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		if t.TransactionType == typ {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// percent returns part/whole × 100. whole must be non-zero.
func percent(part, whole decimal.Decimal) decimal.Decimal {
	return part.Mul(hundred).Div(whole)
}

func clamp(score int) int {
	return max(0, min(100, score))
}
