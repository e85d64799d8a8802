// Package alerts derives automatic smart alerts from a user's spending,
// goals and alert settings.
package alerts

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"finbridge/internal/models"
)

var (
	hundred = decimal.NewFromInt(100)

	budgetWarnShare   = decimal.RequireFromString("0.8")
	emergencyLowShare = decimal.RequireFromString("0.5")
)

// deadlineWindow is how many days before a goal's target date a lagging goal
// starts raising alerts.
const deadlineWindow = 30

// Inputs is everything the rules read.
type Inputs struct {
	Transactions []models.Transaction
	Goals        []models.Goal
	Settings     models.AlertSettings
}

// Generate evaluates every enabled rule at now and returns the alerts to
// create, not yet persisted.
func Generate(in Inputs, now time.Time) []models.SmartAlert {
	var out []models.SmartAlert
	s := in.Settings

	if s.BudgetAlerts {
		if a, ok := budgetAlert(in.Transactions, s.BudgetLimit, now); ok {
			out = append(out, a)
		}
	}
	if s.GoalProgress {
		for _, g := range in.Goals {
			out = append(out, goalAlerts(g, now)...)
		}
	}
	if s.EmergencyFundLow {
		if a, ok := emergencyFundAlert(in.Goals, s.EmergencyFundTarget); ok {
			out = append(out, a)
		}
	}

	for i := range out {
		out[i].UserID = s.UserID
		out[i].Enabled = true
	}
	return out
}

func budgetAlert(txns []models.Transaction, limit decimal.Decimal, now time.Time) (models.SmartAlert, bool) {
	spent := decimal.Zero
	for _, t := range txns {
		if t.TransactionType != models.TransactionTypeExpense {
			continue
		}
		if t.TransactionDate.Year() == now.Year() && t.TransactionDate.Month() == now.Month() {
			spent = spent.Add(t.Amount)
		}
	}
	if !spent.GreaterThan(limit.Mul(budgetWarnShare)) {
		return models.SmartAlert{}, false
	}

	share := int64(0)
	if !limit.IsZero() {
		share = spent.Mul(hundred).Div(limit).Round(0).IntPart()
	}
	priority := models.AlertPriorityMedium
	if spent.GreaterThan(limit) {
		priority = models.AlertPriorityHigh
	}

	return models.SmartAlert{
		AlertType:   models.AlertTypeBudget,
		Title:       "Budget Alert",
		Description: printer.Sprintf("You've spent ₹%s (%d%%) of your monthly budget", Rupees(spent), share),
		Priority:    priority,
		Frequency:   models.AlertFrequencyMonthly,
	}, true
}

func goalAlerts(g models.Goal, now time.Time) []models.SmartAlert {
	if g.TargetAmount.IsZero() {
		return nil
	}
	progress := g.CurrentAmount.Mul(hundred).Div(g.TargetAmount)

	var out []models.SmartAlert
	if progress.GreaterThanOrEqual(decimal.NewFromInt(80)) && progress.LessThan(hundred) {
		remaining := g.TargetAmount.Sub(g.CurrentAmount)
		out = append(out, models.SmartAlert{
			AlertType: models.AlertTypeGoalProgress,
			Title:     g.GoalName + " - Almost There!",
			Description: printer.Sprintf("You're %d%% towards your %s goal. Just ₹%s more to go!",
				progress.Round(0).IntPart(), g.GoalName, Rupees(remaining)),
			Amount:    &remaining,
			Priority:  models.AlertPriorityMedium,
			Frequency: models.AlertFrequencyWeekly,
		})
	}

	if g.TargetDate != nil && progress.LessThan(decimal.NewFromInt(50)) {
		days := daysUntil(*g.TargetDate, now)
		if days > 0 && days <= deadlineWindow {
			out = append(out, models.SmartAlert{
				AlertType: models.AlertTypeGoalDeadline,
				Title:     g.GoalName + " - Time Running Out",
				Description: printer.Sprintf("Only %d days left to reach your %s goal. Consider increasing your contributions.",
					days, g.GoalName),
				DueDate:   g.TargetDate,
				Priority:  models.AlertPriorityHigh,
				Frequency: models.AlertFrequencyWeekly,
			})
		}
	}
	return out
}

func emergencyFundAlert(goals []models.Goal, target decimal.Decimal) (models.SmartAlert, bool) {
	for _, g := range goals {
		if g.GoalType != models.GoalTypeEmergencyFund {
			continue
		}
		if !g.CurrentAmount.LessThan(target.Mul(emergencyLowShare)) {
			return models.SmartAlert{}, false
		}
		gap := target.Sub(g.CurrentAmount)
		return models.SmartAlert{
			AlertType:   models.AlertTypeEmergencyFund,
			Title:       "Emergency Fund Low",
			Description: "Your emergency fund is below 50% of your target. Consider boosting your savings.",
			Amount:      &gap,
			Priority:    models.AlertPriorityHigh,
			Frequency:   models.AlertFrequencyMonthly,
		}, true
	}
	return models.SmartAlert{}, false
}

// daysUntil rounds the distance to target up to whole days.
func daysUntil(target, now time.Time) int {
	return int(math.Ceil(target.Sub(now).Hours() / 24))
}

var printer = message.NewPrinter(language.English)

// Rupees formats an amount with thousands separators and at most two
// decimals, dropping them for whole amounts.
func Rupees(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return printer.Sprintf("%d", d.IntPart())
	}
	return printer.Sprintf("%.2f", d.InexactFloat64())
}
