package repository

import (
	"context"

	"github.com/lingvoapp/lingvo-backend/internal/domain/model"
)

// UserRepository reads the profile slice owned by the profile subsystem.
// Strictly read-only from this service.
type UserRepository interface {
	// GetByUserID returns the user record, or nil when unknown.
	GetByUserID(ctx context.Context, userID string) (*model.User, error)
}

// ProgressRepository reads lesson-completion counts owned by the progress
// subsystem. Strictly read-only from this service.
type ProgressRepository interface {
	CountCompletedLessons(ctx context.Context, userID string) (int64, error)
}
