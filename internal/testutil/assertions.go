package testutil

import (
	"errors"
	"slices"
	"testing"

	"gorm.io/gorm"

	apperrors "finbridge/internal/errors"
	"finbridge/internal/models"
)

// AssertAppError fails unless err unwraps to an *AppError carrying code.
func AssertAppError(t *testing.T, err error, code string) {
	t.Helper()

	var appErr *apperrors.AppError
	switch {
	case err == nil:
		t.Fatalf("want %s error, got nil", code)
	case !errors.As(err, &appErr):
		t.Fatalf("want %s error, got %T: %v", code, err, err)
	case appErr.Code != code:
		t.Errorf("error code = %s, want %s (%s)", appErr.Code, code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertAuditActions compares the audit actions recorded for userID with
// want, ignoring order.
func AssertAuditActions(t *testing.T, db *gorm.DB, userID string, want ...string) {
	t.Helper()

	var got []string
	if err := db.Model(&models.AuditLog{}).Where("user_id = ?", userID).Pluck("action", &got).Error; err != nil {
		t.Fatalf("loading audit log: %v", err)
	}
	slices.Sort(got)
	want = slices.Clone(want)
	slices.Sort(want)
	if !slices.Equal(got, want) {
		t.Errorf("audit actions = %v, want %v", got, want)
	}
}
