package usecase

import (
	"context"
	"fmt"
	"time"

	domainErrors "github.com/lingvoapp/lingvo-backend/internal/domain/errors"
	"github.com/lingvoapp/lingvo-backend/internal/domain/model"
	"github.com/lingvoapp/lingvo-backend/internal/domain/repository"
)

// CollectSignals gathers the live engagement signals the classifier needs
// from the collaborator subsystems: the profile record, the completed
// lesson count and the entitlement state. All reads, no writes.
func CollectSignals(
	ctx context.Context,
	users repository.UserRepository,
	progress repository.ProgressRepository,
	entitlements repository.EntitlementRepository,
	userID string,
	now time.Time,
) (CohortSignals, *model.User, error) {
	user, err := users.GetByUserID(ctx, userID)
	if err != nil {
		return CohortSignals{}, nil, fmt.Errorf("failed to read user: %w", err)
	}
	if user == nil {
		return CohortSignals{}, nil, domainErrors.ErrUserNotFound
	}

	lessonCount, err := progress.CountCompletedLessons(ctx, userID)
	if err != nil {
		return CohortSignals{}, nil, fmt.Errorf("failed to count completed lessons: %w", err)
	}

	active, err := entitlements.GetActive(ctx, userID, now)
	if err != nil {
		return CohortSignals{}, nil, fmt.Errorf("failed to read active entitlement: %w", err)
	}

	lapsed := false
	if active == nil {
		lapsed, err = entitlements.HasLapsed(ctx, userID, now)
		if err != nil {
			return CohortSignals{}, nil, fmt.Errorf("failed to read lapsed entitlements: %w", err)
		}
	}

	signals := CohortSignals{
		UserID:                userID,
		IsFirstOpen:           user.OnboardingCompletedAt == nil,
		LastActiveAt:          &user.UpdatedAt,
		CompletedLessons:      lessonCount,
		HasActiveSubscription: active != nil,
		SubscriptionLapsed:    lapsed,
	}
	return signals, user, nil
}
