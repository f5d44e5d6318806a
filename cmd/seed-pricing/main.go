package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/lingvoapp/lingvo-backend/internal/config"
	"github.com/lingvoapp/lingvo-backend/internal/domain/model"
	"github.com/lingvoapp/lingvo-backend/internal/infrastructure/database"
	pkgLogger "github.com/lingvoapp/lingvo-backend/pkg/logger"
)

// seedRows is the baseline cohort configuration. Running the seeder again
// overwrites rows with these values, so operator edits made directly in
// the table should be re-applied afterwards.
var seedRows = []model.CohortPricing{
	{
		CohortName:               model.CohortDefault,
		MonthlyDiscountPercent:   10,
		QuarterlyDiscountPercent: 20,
		YearlyDiscountPercent:    17,
		PromoCode:                "DEFAULT10",
		IsActive:                 true,
		Description:              "Baseline discounts for unclassified users",
		UpdatedBy:                "seed",
	},
	{
		CohortName:               model.CohortNewUser,
		MonthlyDiscountPercent:   25,
		QuarterlyDiscountPercent: 30,
		YearlyDiscountPercent:    35,
		PromoCode:                "WELCOME25",
		IsActive:                 true,
		Description:              "First-session users, aggressive introductory offer",
		UpdatedBy:                "seed",
	},
	{
		CohortName:               model.CohortPremiumTrial,
		MonthlyDiscountPercent:   30,
		QuarterlyDiscountPercent: 35,
		YearlyDiscountPercent:    40,
		PromoCode:                "COMEBACK30",
		IsActive:                 true,
		Description:              "Lapsed subscribers, win-back offer",
		UpdatedBy:                "seed",
	},
	{
		CohortName:               model.CohortHighEngagement,
		MonthlyDiscountPercent:   15,
		QuarterlyDiscountPercent: 25,
		YearlyDiscountPercent:    30,
		PromoCode:                "LOYAL15",
		IsActive:                 true,
		Description:              "Users past twenty completed lessons",
		UpdatedBy:                "seed",
	},
	{
		CohortName:               model.CohortTestPayment,
		MonthlyDiscountPercent:   99,
		QuarterlyDiscountPercent: 99,
		YearlyDiscountPercent:    99,
		PromoCode:                "TEST10",
		IsActive:                 true,
		Description:              "Internal test accounts, minimal charge",
		UpdatedBy:                "seed",
	},
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := pkgLogger.DefaultZapLogger()
	defer logger.Sync()

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, logger); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	// Run migrations
	if err := database.Migrate(db, logger); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize repositories
	repos := database.NewRepositories(db, logger)

	ctx := context.Background()
	for i := range seedRows {
		row := seedRows[i]
		if err := repos.Pricing.Upsert(ctx, &row); err != nil {
			logger.Fatal("Failed to seed cohort pricing",
				zap.String("cohort", string(row.CohortName)),
				zap.Error(err))
		}
		logger.Info("Seeded cohort pricing",
			zap.String("cohort", string(row.CohortName)),
			zap.String("promo_code", row.PromoCode))
	}

	active, err := repos.Pricing.ListActive(ctx)
	if err != nil {
		logger.Fatal("Failed to read back cohort pricing", zap.Error(err))
	}
	for _, row := range active {
		logger.Info("Active cohort pricing",
			zap.String("cohort", string(row.CohortName)),
			zap.Int("monthly", row.MonthlyDiscountPercent),
			zap.Int("quarterly", row.QuarterlyDiscountPercent),
			zap.Int("yearly", row.YearlyDiscountPercent))
	}

	logger.Info("Cohort pricing seed complete", zap.Int("cohorts", len(seedRows)))
}
