package usecase

import (
	"strings"
	"time"

	"github.com/lingvoapp/lingvo-backend/internal/domain/model"
)

// testAccountID is the designated account used to verify the payment flow
// end to end without real charges.
const testAccountID = "1272270574"

// CohortSignals are the engagement signals the classifier maps to a
// cohort. Missing signals degrade to the default cohort.
type CohortSignals struct {
	UserID                string
	IsFirstOpen           bool
	LastActiveAt          *time.Time
	CompletedLessons      int64
	HasActiveSubscription bool
	SubscriptionLapsed    bool
}

// DetermineCohort maps engagement signals to a cohort label. Pure and
// total; the rule order is a contract — first match wins, and test-account
// detection takes precedence over everything else.
func DetermineCohort(signals CohortSignals) model.Cohort {
	if signals.UserID == testAccountID {
		return model.CohortTestPayment
	}
	if signals.UserID != "" &&
		(strings.HasPrefix(signals.UserID, "test_") || strings.Contains(signals.UserID, "test")) {
		return model.CohortTestPayment
	}

	if signals.IsFirstOpen {
		return model.CohortNewUser
	}
	if signals.SubscriptionLapsed {
		return model.CohortPremiumTrial
	}
	if signals.CompletedLessons > 20 {
		return model.CohortHighEngagement
	}
	return model.CohortDefault
}
