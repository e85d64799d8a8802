package services

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"finbridge/internal/metrics"
	"finbridge/internal/models"
	"finbridge/internal/scoring"
	tu "finbridge/internal/testutil"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func daysAgo(n int) time.Time {
	return fixedNow.AddDate(0, 0, -n).Truncate(24 * time.Hour)
}

func TestCalculateScore(t *testing.T) {
	ctx := context.Background()

	t.Run("no_records", func(t *testing.T) {
		db := tu.SetupTestDB(t)
		defer tu.TeardownTestDB(t, db)
		svc := NewHealthScoreService(db, WithClock(fixedClock))
		userID := tu.NewUserID()

		got, err := svc.CalculateScore(ctx, userID)
		tu.AssertNoError(t, err)

		// Debt defaults to 100 and carries weight .15.
		if got.OverallScore != 15 || got.DebtScore != 100 || got.SavingsScore != 0 {
			t.Errorf("score = %+v", got.FinancialHealthScore)
		}
		if !got.CalculatedAt.Equal(fixedNow) {
			t.Errorf("calculated_at = %s", got.CalculatedAt)
		}
		if len(got.Breakdown) != len(scoring.Factors) {
			t.Errorf("breakdown = %v", got.Breakdown)
		}
	})

	t.Run("scores_loaded_records", func(t *testing.T) {
		db := tu.SetupTestDB(t)
		defer tu.TeardownTestDB(t, db)
		svc := NewHealthScoreService(db, WithClock(fixedClock))
		userID := tu.NewUserID()
		other := tu.NewUserID()

		tu.CreateTestTransaction(t, db, userID, models.TransactionTypeIncome, "100000", "Salary", daysAgo(10))
		tu.CreateTestTransaction(t, db, userID, models.TransactionTypeSavings, "20000", "Savings", daysAgo(9))
		tu.CreateTestTransaction(t, db, userID, models.TransactionTypeExpense, "10000", "Home Loan EMI", daysAgo(8))
		tu.CreateTestTransaction(t, db, other, models.TransactionTypeExpense, "90000", "Credit Card", daysAgo(8))
		tu.CreateTestProgress(t, db, userID, models.ProgressStatusCompleted, 100)

		got, err := svc.CalculateScore(ctx, userID)
		tu.AssertNoError(t, err)

		if got.SavingsScore != 100 {
			t.Errorf("savings = %d, want 100", got.SavingsScore)
		}
		if got.DebtScore != 90 {
			t.Errorf("debt = %d, want 90 (other users' records must not count)", got.DebtScore)
		}
		if got.LiteracyScore == 0 {
			t.Error("literacy should reflect completed lessons")
		}
	})

	t.Run("appends_history", func(t *testing.T) {
		db := tu.SetupTestDB(t)
		defer tu.TeardownTestDB(t, db)
		svc := NewHealthScoreService(db, WithClock(fixedClock))
		userID := tu.NewUserID()

		for i := 0; i < 3; i++ {
			_, err := svc.CalculateScore(ctx, userID)
			tu.AssertNoError(t, err)
		}

		var count int64
		db.Model(&models.FinancialHealthScore{}).Where("user_id = ?", userID).Count(&count)
		if count != 3 {
			t.Errorf("expected 3 history rows, got %d", count)
		}
	})

	t.Run("upstream_failure_persists_nothing", func(t *testing.T) {
		db := tu.SetupTestDB(t)
		defer tu.TeardownTestDB(t, db)
		reg := prometheus.NewRegistry()
		m, err := metrics.New(reg)
		tu.AssertNoError(t, err)
		svc := NewHealthScoreService(db, WithClock(fixedClock), WithMetrics(m))
		userID := tu.NewUserID()

		if err := db.Migrator().DropTable(&models.Goal{}); err != nil {
			t.Fatalf("drop goals: %v", err)
		}

		_, err = svc.CalculateScore(ctx, userID)
		tu.AssertAppError(t, err, "UPSTREAM_DATA_FAILURE")

		var count int64
		db.Model(&models.FinancialHealthScore{}).Count(&count)
		if count != 0 {
			t.Errorf("no score should be stored, found %d", count)
		}
		if n, _ := testutil.GatherAndCount(reg, "finbridge_health_score_calculations_total"); n != 1 {
			t.Errorf("expected one failure series, got %d", n)
		}
	})
}

func TestGetLatestScore(t *testing.T) {
	ctx := context.Background()

	t.Run("lazily_calculates", func(t *testing.T) {
		db := tu.SetupTestDB(t)
		defer tu.TeardownTestDB(t, db)
		svc := NewHealthScoreService(db, WithClock(fixedClock))
		userID := tu.NewUserID()

		got, err := svc.GetLatestScore(ctx, userID)
		tu.AssertNoError(t, err)
		if got.ID == "" || got.OverallScore != 15 {
			t.Errorf("score = %+v", got.FinancialHealthScore)
		}

		var count int64
		db.Model(&models.FinancialHealthScore{}).Where("user_id = ?", userID).Count(&count)
		if count != 1 {
			t.Errorf("expected the lazy score to be stored once, got %d", count)
		}
	})

	t.Run("returns_most_recent", func(t *testing.T) {
		db := tu.SetupTestDB(t)
		defer tu.TeardownTestDB(t, db)
		svc := NewHealthScoreService(db, WithClock(fixedClock))
		userID := tu.NewUserID()

		tu.CreateTestScore(t, db, userID, 40, fixedNow.AddDate(0, -2, 0))
		tu.CreateTestScore(t, db, userID, 70, fixedNow.AddDate(0, 0, -1))
		tu.CreateTestScore(t, db, userID, 55, fixedNow.AddDate(0, -1, 0))

		got, err := svc.GetLatestScore(ctx, userID)
		tu.AssertNoError(t, err)
		if got.OverallScore != 70 {
			t.Errorf("overall = %d, want 70", got.OverallScore)
		}
		if got.Breakdown[scoring.FactorSavings].Status != scoring.StatusGood {
			t.Errorf("breakdown = %+v", got.Breakdown[scoring.FactorSavings])
		}
	})
}

func TestGetScoreHistory(t *testing.T) {
	ctx := context.Background()
	db := tu.SetupTestDB(t)
	defer tu.TeardownTestDB(t, db)
	svc := NewHealthScoreService(db, WithClock(fixedClock))
	userID := tu.NewUserID()

	tu.CreateTestScore(t, db, userID, 30, fixedNow.AddDate(0, -8, 0))
	tu.CreateTestScore(t, db, userID, 60, fixedNow.AddDate(0, 0, -3))
	tu.CreateTestScore(t, db, userID, 50, fixedNow.AddDate(0, -2, 0))

	t.Run("default_window_ascending", func(t *testing.T) {
		history, err := svc.GetScoreHistory(ctx, userID, 0)
		tu.AssertNoError(t, err)
		if len(history) != 2 {
			t.Fatalf("expected 2 rows in 6 months, got %d", len(history))
		}
		if history[0].OverallScore != 50 || history[1].OverallScore != 60 {
			t.Errorf("history out of order: %d, %d", history[0].OverallScore, history[1].OverallScore)
		}
	})

	t.Run("wider_window", func(t *testing.T) {
		history, err := svc.GetScoreHistory(ctx, userID, 12)
		tu.AssertNoError(t, err)
		if len(history) != 3 {
			t.Errorf("expected 3 rows in 12 months, got %d", len(history))
		}
	})

	t.Run("empty_for_new_user", func(t *testing.T) {
		history, err := svc.GetScoreHistory(ctx, tu.NewUserID(), 6)
		tu.AssertNoError(t, err)
		if history == nil || len(history) != 0 {
			t.Errorf("expected empty slice, got %v", history)
		}
	})
}

func TestBreakdownAndInsights(t *testing.T) {
	ctx := context.Background()
	db := tu.SetupTestDB(t)
	defer tu.TeardownTestDB(t, db)
	svc := NewHealthScoreService(db, WithClock(fixedClock))
	userID := tu.NewUserID()
	tu.CreateTestScore(t, db, userID, 85, fixedNow)

	breakdown, err := svc.GetBreakdown(ctx, userID)
	tu.AssertNoError(t, err)
	if breakdown.OverallScore != 85 || breakdown.Breakdown[scoring.FactorDebt].Status != scoring.StatusExcellent {
		t.Errorf("breakdown = %+v", breakdown)
	}

	insights, err := svc.GetResilienceInsights(ctx, userID)
	tu.AssertNoError(t, err)
	if insights.OverallResilience.Level != scoring.LevelHigh || len(insights.RiskAssessment.Factors) != 0 {
		t.Errorf("insights = %+v", insights)
	}
}

func TestRecalculateAll(t *testing.T) {
	ctx := context.Background()
	db := tu.SetupTestDB(t)
	defer tu.TeardownTestDB(t, db)
	svc := NewHealthScoreService(db, WithClock(fixedClock))

	withTxn := tu.NewUserID()
	withGoal := tu.NewUserID()
	withLesson := tu.NewUserID()
	tu.CreateTestTransaction(t, db, withTxn, models.TransactionTypeIncome, "5000", "Salary", daysAgo(3))
	tu.CreateTestTransaction(t, db, withTxn, models.TransactionTypeExpense, "500", "Food", daysAgo(2))
	tu.CreateTestGoal(t, db, withGoal, models.GoalTypeEmergencyFund, 1000, 100, nil)
	tu.CreateTestProgress(t, db, withLesson, models.ProgressStatusCompleted, 90)

	summary, err := svc.RecalculateAll(ctx)
	tu.AssertNoError(t, err)
	if summary.Users != 3 || summary.Calculated != 3 || summary.Failed != 0 {
		t.Errorf("summary = %+v", summary)
	}

	var count int64
	db.Model(&models.FinancialHealthScore{}).Count(&count)
	if count != 3 {
		t.Errorf("expected one score per user, got %d", count)
	}
}
