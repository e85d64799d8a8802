package services

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "finbridge/internal/errors"
	"finbridge/internal/logger"
	"finbridge/internal/models"
	"finbridge/internal/pagination"
	"finbridge/internal/personality"
)

// personalityService handles assessments, profiles and challenges.
type personalityService struct {
	db   *gorm.DB
	opts options
}

// NewPersonalityService creates a new PersonalityServicer.
func NewPersonalityService(db *gorm.DB, opts ...Option) PersonalityServicer {
	return &personalityService{db: db, opts: buildOptions(opts)}
}

// SubmitAssessment classifies the answers, replaces the user's profile and
// regenerates their pending challenges in one transaction.
func (s *personalityService) SubmitAssessment(ctx context.Context, userID string, answers models.AssessmentAnswers) (*AssessmentResult, error) {
	cls, err := personality.Classify(answers)
	if err != nil {
		return nil, err
	}
	archetype, ok := s.opts.catalog.Get(cls.Type)
	if !ok {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, errors.New("archetype missing from catalog: "+string(cls.Type)))
	}

	var profile *models.PersonalityProfile
	var challenges []models.PersonalityChallenge
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Upsert on user_id so two first-time submissions cannot both insert.
		// The row stays locked for the rest of the transaction.
		row := &models.PersonalityProfile{
			UserID:            userID,
			PersonalityType:   cls.Type,
			AssessmentAnswers: datatypes.NewJSONType(answers),
			AssessmentScores:  datatypes.NewJSONType(cls.Scores),
			ConfidenceLevel:   cls.Confidence,
			CompletedAt:       s.opts.now(),
		}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"personality_type", "assessment_answers", "assessment_scores",
				"confidence_level", "completed_at", "updated_at",
			}),
		}).Create(row).Error
		if err != nil {
			return err
		}

		// On conflict the stored row keeps its original id.
		profile = &models.PersonalityProfile{}
		if err := tx.Where("user_id = ?", userID).First(profile).Error; err != nil {
			return err
		}

		challenges, err = s.replacePending(tx, userID, cls.Type)
		return err
	})
	if err != nil {
		return nil, asAppError(err)
	}

	s.opts.metrics.AssessmentCompleted(string(cls.Type))
	logger.Get().Infow("personality assessment completed",
		"user_id", userID,
		"personality_type", cls.Type,
		"confidence", cls.Confidence,
	)

	return &AssessmentResult{
		ProfileResult: ProfileResult{Profile: profile, Personality: archetype},
		Challenges:    challenges,
	}, nil
}

// GetProfile returns the user's profile and archetype.
func (s *personalityService) GetProfile(ctx context.Context, userID string) (*ProfileResult, error) {
	profile, err := s.profile(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	archetype, _ := s.opts.catalog.Get(profile.PersonalityType)
	return &ProfileResult{Profile: profile, Personality: archetype}, nil
}

// ListTypes returns every archetype in priority order.
func (s *personalityService) ListTypes() []personality.Archetype {
	return s.opts.catalog.All()
}

// ListChallenges returns a page of the user's challenges, newest first.
func (s *personalityService) ListChallenges(
	ctx context.Context,
	userID string,
	page pagination.PageRequest,
	filter ChallengeFilter,
) (*pagination.Page[models.PersonalityChallenge], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.PersonalityChallenge{}).Where("user_id = ?", userID)
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var challenges []models.PersonalityChallenge
	if err := base.Order("created_at DESC, id DESC").Scopes(pagination.Paginate(page)).Find(&challenges).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPage(challenges, page, totalItems)
	return &result, nil
}

// GenerateChallenges replaces the user's pending challenges with fresh ones
// for their stored personality type.
func (s *personalityService) GenerateChallenges(ctx context.Context, userID string) ([]models.PersonalityChallenge, error) {
	var challenges []models.PersonalityChallenge
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile, err := s.profile(ctx, forUpdate(tx), userID)
		if err != nil {
			return err
		}
		challenges, err = s.replacePending(tx, userID, profile.PersonalityType)
		return err
	})
	if err != nil {
		return nil, asAppError(err)
	}
	return challenges, nil
}

// UpdateChallengeProgress clamps progress to [0,100] and moves the
// challenge to completed at 100, in_progress otherwise.
func (s *personalityService) UpdateChallengeProgress(ctx context.Context, userID, challengeID string, progress int) (*models.PersonalityChallenge, error) {
	var challenge models.PersonalityChallenge
	if err := s.db.WithContext(ctx).Where("id = ?", challengeID).First(&challenge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrChallengeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if challenge.UserID != userID {
		return nil, apperrors.ErrForbidden
	}

	progress = max(0, min(100, progress))
	status := models.ChallengeStatusInProgress
	if progress >= 100 {
		status = models.ChallengeStatusCompleted
	}

	if err := s.db.WithContext(ctx).Model(&challenge).Updates(map[string]interface{}{
		"progress": progress,
		"status":   status,
	}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	challenge.Progress = progress
	challenge.Status = status
	return &challenge, nil
}

// GetBehavioralInsights compares recent behaviour with the user's profile.
func (s *personalityService) GetBehavioralInsights(ctx context.Context, userID string) (*personality.BehavioralInsights, error) {
	profile, err := s.profile(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	var challenges []models.PersonalityChallenge
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&challenges).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	txns, err := loadTransactions(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	insights := s.opts.catalog.Insights(profile, challenges, txns, s.opts.now())
	return &insights, nil
}

func (s *personalityService) profile(ctx context.Context, db *gorm.DB, userID string) (*models.PersonalityProfile, error) {
	var profile models.PersonalityProfile
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &profile, nil
}

// replacePending deletes the user's pending challenges and inserts one per
// template. Started and completed challenges are kept.
func (s *personalityService) replacePending(tx *gorm.DB, userID string, typ models.PersonalityType) ([]models.PersonalityChallenge, error) {
	if err := tx.Where("user_id = ? AND status = ?", userID, models.ChallengeStatusPending).
		Delete(&models.PersonalityChallenge{}).Error; err != nil {
		return nil, err
	}

	templates := s.opts.catalog.Templates(typ)
	challenges := make([]models.PersonalityChallenge, 0, len(templates))
	for _, tpl := range templates {
		challenges = append(challenges, tpl.Challenge(userID, typ))
	}
	if len(challenges) == 0 {
		return challenges, nil
	}
	if err := tx.Create(&challenges).Error; err != nil {
		return nil, err
	}
	return challenges, nil
}

// forUpdate adds SELECT ... FOR UPDATE where the dialect supports it.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// asAppError passes AppErrors through and wraps anything else as internal.
func asAppError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
