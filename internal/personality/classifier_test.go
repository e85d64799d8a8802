package personality

import (
	"math"
	"testing"

	apperrors "finbridge/internal/errors"
	"finbridge/internal/models"
	"finbridge/internal/testutil"
)

func saverAnswers() models.AssessmentAnswers {
	return models.AssessmentAnswers{
		SalaryApproach:      "save_immediately",
		RiskTolerance:       "guaranteed_returns",
		PlanningApproach:    "detailed_longterm",
		PurchaseDecision:    "sleep_on_it",
		EmergencyFund:       "six_plus_months",
		InvestmentKnowledge: "basic_knowledge",
	}
}

func TestClassify(t *testing.T) {
	t.Run("prudent_saver", func(t *testing.T) {
		got, err := Classify(saverAnswers())
		testutil.AssertNoError(t, err)

		if got.Type != models.PersonalityPrudentSaver {
			t.Fatalf("type = %s", got.Type)
		}
		want := models.AssessmentScores{ps: 13, le: 0, gs: 0, bp: 6, ra: 6}
		for typ, n := range want {
			if got.Scores[typ] != n {
				t.Errorf("%s = %d, want %d", typ, got.Scores[typ], n)
			}
		}
		if math.Abs(got.Confidence-72.2222) > 0.001 {
			t.Errorf("confidence = %f", got.Confidence)
		}
	})

	t.Run("lifestyle_enthusiast", func(t *testing.T) {
		got, err := Classify(models.AssessmentAnswers{
			SalaryApproach:      "buy_wanted_item",
			RiskTolerance:       "high_risk_reward",
			PlanningApproach:    "reactive_approach",
			PurchaseDecision:    "gut_feeling",
			EmergencyFund:       "no_emergency_fund",
			InvestmentKnowledge: "no_knowledge",
		})
		testutil.AssertNoError(t, err)

		// le = 3+2+3+3, gs = 3
		if got.Type != models.PersonalityLifestyleEnthusiast || got.Scores[le] != 11 {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("tie_goes_to_priority_order", func(t *testing.T) {
		// growth_seeker and balanced_planner both reach 8.
		a := models.AssessmentAnswers{
			SalaryApproach:      "invest_opportunity",
			RiskTolerance:       "calculated_risks",
			PlanningApproach:    "detailed_longterm",
			PurchaseDecision:    "best_deal",
			EmergencyFund:       "less_than_month",
			InvestmentKnowledge: "very_knowledgeable",
		}
		got, err := Classify(a)
		testutil.AssertNoError(t, err)

		if got.Scores[gs] != 8 || got.Scores[bp] != 8 {
			t.Fatalf("scores = %v", got.Scores)
		}
		if got.Type != models.PersonalityGrowthSeeker {
			t.Errorf("type = %s, want growth_seeker", got.Type)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		first, _ := Classify(saverAnswers())
		for i := 0; i < 20; i++ {
			next, _ := Classify(saverAnswers())
			if next.Type != first.Type || next.Confidence != first.Confidence {
				t.Fatalf("run %d differs: %+v vs %+v", i, next, first)
			}
		}
	})

	t.Run("missing_answer", func(t *testing.T) {
		a := saverAnswers()
		a.EmergencyFund = ""
		_, err := Classify(a)
		testutil.AssertAppError(t, err, apperrors.ErrValidationFailed.Code)
	})

	t.Run("unknown_answer", func(t *testing.T) {
		a := saverAnswers()
		a.RiskTolerance = "yolo"
		_, err := Classify(a)
		testutil.AssertAppError(t, err, apperrors.ErrValidationFailed.Code)
	})
}

func TestValidAnswer(t *testing.T) {
	for _, q := range Questions {
		if len(answerPoints[q]) != 4 {
			t.Errorf("%s: expected 4 answers, got %d", q, len(answerPoints[q]))
		}
	}
	if !ValidAnswer("salary_approach", "review_budget") {
		t.Error("review_budget should be valid")
	}
	if ValidAnswer("salary_approach", "six_plus_months") {
		t.Error("answers must not leak across questions")
	}
}

func TestMaxScoreIsAttainableBound(t *testing.T) {
	for _, typ := range Priority {
		total := 0
		for _, q := range Questions {
			best := 0
			for _, p := range answerPoints[q] {
				best = max(best, p[typ])
			}
			total += best
		}
		if total > maxScore {
			t.Errorf("%s can reach %d, above %d", typ, total, maxScore)
		}
	}
}
