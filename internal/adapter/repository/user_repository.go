package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lingvoapp/lingvo-backend/internal/domain/model"
	"github.com/lingvoapp/lingvo-backend/internal/domain/repository"
)

type userRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewUserRepository creates the read-only view over the profile records.
func NewUserRepository(db *gorm.DB, logger *zap.Logger) repository.UserRepository {
	return &userRepository{db: db, logger: logger}
}

// GetByUserID returns the user record, or nil when unknown.
func (r *userRepository) GetByUserID(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get user",
			zap.String("user_id", userID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

type progressRepository struct {
	db *gorm.DB
}

// NewProgressRepository creates the read-only view over lesson progress.
func NewProgressRepository(db *gorm.DB) repository.ProgressRepository {
	return &progressRepository{db: db}
}

// CountCompletedLessons counts the user's completed lessons.
func (r *progressRepository) CountCompletedLessons(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.LessonProgress{}).
		Where("user_id = ? AND status = ?", userID, model.LessonStatusCompleted).
		Count(&count).Error

	if err != nil {
		return 0, fmt.Errorf("failed to count completed lessons: %w", err)
	}
	return count, nil
}
