package services

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"

	apperrors "finbridge/internal/errors"
	"finbridge/internal/logger"
	"finbridge/internal/models"
	"finbridge/internal/scoring"
)

const defaultHistoryMonths = 6

// healthScoreService computes and stores financial health scores.
type healthScoreService struct {
	db   *gorm.DB
	opts options
}

// NewHealthScoreService creates a new HealthScoreServicer.
func NewHealthScoreService(db *gorm.DB, opts ...Option) HealthScoreServicer {
	return &healthScoreService{db: db, opts: buildOptions(opts)}
}

// CalculateScore loads the user's records, scores them and appends the
// result to the score history.
func (s *healthScoreService) CalculateScore(ctx context.Context, userID string) (*HealthScoreResult, error) {
	rec, err := s.calculate(ctx, userID)
	s.opts.metrics.ScoreCalculated(err)
	if err != nil {
		return nil, err
	}
	return withBreakdown(rec), nil
}

func (s *healthScoreService) calculate(ctx context.Context, userID string) (*models.FinancialHealthScore, error) {
	in, err := loadScoreInputs(ctx, s.db, userID)
	if err != nil {
		logger.Get().Errorw("failed to load score inputs", "user_id", userID, "error", err)
		return nil, err
	}

	now := s.opts.now()
	rec := scoring.Compute(in, now).Record(userID, now)
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("health score calculated",
		"user_id", userID,
		"overall_score", rec.OverallScore,
		"transactions", len(in.Transactions),
		"goals", len(in.Goals),
	)
	return rec, nil
}

// GetLatestScore returns the most recent score, calculating one first when
// the user has none.
func (s *healthScoreService) GetLatestScore(ctx context.Context, userID string) (*HealthScoreResult, error) {
	rec, err := s.latest(ctx, userID)
	if err != nil {
		return nil, err
	}
	return withBreakdown(rec), nil
}

func (s *healthScoreService) latest(ctx context.Context, userID string) (*models.FinancialHealthScore, error) {
	var rec models.FinancialHealthScore
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("calculated_at DESC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		created, calcErr := s.calculate(ctx, userID)
		s.opts.metrics.ScoreCalculated(calcErr)
		return created, calcErr
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &rec, nil
}

// GetScoreHistory returns the scores of the last months months, oldest first.
func (s *healthScoreService) GetScoreHistory(ctx context.Context, userID string, months int) ([]models.FinancialHealthScore, error) {
	if months <= 0 {
		months = defaultHistoryMonths
	}
	cutoff := s.opts.now().AddDate(0, -months, 0)

	history := []models.FinancialHealthScore{}
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND calculated_at >= ?", userID, cutoff).
		Order("calculated_at ASC").
		Find(&history).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return history, nil
}

// GetBreakdown returns the per-factor breakdown of the latest score.
func (s *healthScoreService) GetBreakdown(ctx context.Context, userID string) (*BreakdownResult, error) {
	rec, err := s.latest(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &BreakdownResult{
		OverallScore: rec.OverallScore,
		CalculatedAt: rec.CalculatedAt,
		Breakdown:    scoring.BreakdownOf(scoring.FromRecord(rec)),
	}, nil
}

// GetResilienceInsights derives resilience insights from the latest score.
func (s *healthScoreService) GetResilienceInsights(ctx context.Context, userID string) (*scoring.Insights, error) {
	rec, err := s.latest(ctx, userID)
	if err != nil {
		return nil, err
	}
	insights := scoring.ResilienceInsights(scoring.Score{
		SubScores: scoring.FromRecord(rec),
		Overall:   rec.OverallScore,
	})
	return &insights, nil
}

// RecalculateAll appends a fresh score for every user with any scoring
// input. A failure for one user is logged and does not stop the run.
func (s *healthScoreService) RecalculateAll(ctx context.Context) (*RecalculationSummary, error) {
	users, err := s.usersWithData(ctx)
	if err != nil {
		return nil, err
	}

	summary := &RecalculationSummary{Users: len(users)}
	for _, userID := range users {
		if err := ctx.Err(); err != nil {
			return summary, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if _, err := s.CalculateScore(ctx, userID); err != nil {
			summary.Failed++
			logger.Get().Errorw("recalculation failed", "user_id", userID, "error", err)
			continue
		}
		summary.Calculated++
	}

	logger.Get().Infow("health scores recalculated",
		"users", summary.Users,
		"calculated", summary.Calculated,
		"failed", summary.Failed,
	)
	return summary, nil
}

func (s *healthScoreService) usersWithData(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	for _, model := range []any{&models.Transaction{}, &models.Goal{}, &models.UserProgress{}} {
		var ids []string
		if err := s.db.WithContext(ctx).Model(model).Distinct().Pluck("user_id", &ids).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrUpstreamData, err)
		}
		for _, id := range ids {
			seen[id] = true
		}
	}

	users := make([]string, 0, len(seen))
	for id := range seen {
		users = append(users, id)
	}
	sort.Strings(users)
	return users, nil
}

func withBreakdown(rec *models.FinancialHealthScore) *HealthScoreResult {
	return &HealthScoreResult{
		FinancialHealthScore: *rec,
		Breakdown:            scoring.BreakdownOf(scoring.FromRecord(rec)),
	}
}
