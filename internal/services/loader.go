package services

import (
	"context"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	apperrors "finbridge/internal/errors"
	"finbridge/internal/models"
	"finbridge/internal/scoring"
)

// loadScoreInputs fetches a user's transactions, goals and lesson progress
// concurrently. Empty collections are valid; any failed read is an upstream
// data failure.
func loadScoreInputs(ctx context.Context, db *gorm.DB, userID string) (scoring.Inputs, error) {
	var in scoring.Inputs
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return db.WithContext(ctx).
			Where("user_id = ?", userID).
			Order("transaction_date DESC").
			Find(&in.Transactions).Error
	})
	g.Go(func() error {
		return db.WithContext(ctx).
			Where("user_id = ?", userID).
			Order("created_at ASC, id ASC").
			Find(&in.Goals).Error
	})
	g.Go(func() error {
		return db.WithContext(ctx).
			Where("user_id = ?", userID).
			Find(&in.Progress).Error
	})

	if err := g.Wait(); err != nil {
		return scoring.Inputs{}, apperrors.Wrap(apperrors.ErrUpstreamData, err)
	}
	return in, nil
}

// loadTransactions returns a user's transactions, newest first.
func loadTransactions(ctx context.Context, db *gorm.DB, userID string) ([]models.Transaction, error) {
	var txns []models.Transaction
	if err := db.WithContext(ctx).Where("user_id = ?", userID).Order("transaction_date DESC").Find(&txns).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpstreamData, err)
	}
	return txns, nil
}
