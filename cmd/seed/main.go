package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"

	"github.com/opsdesk/approvals/internal/core/domain"
	"github.com/opsdesk/approvals/internal/infrastructure/config"
	"github.com/opsdesk/approvals/internal/infrastructure/db/postgres"
	"github.com/opsdesk/approvals/pkg/logger"
)

// Seeds the requests table with a small sample data set covering every
// workflow state. Skips when the table already has rows.
func main() {
	ctx := context.Background()

	_ = godotenv.Load()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

	pool, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.URL})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure schema")
	}

	var count int64
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM requests").Scan(&count); err != nil {
		log.Fatal().Err(err).Msg("failed to count requests")
	}
	if count > 0 {
		log.Info().Int64("count", count).Msg("seed skipped: requests already exist")
		return
	}

	repo := postgres.NewRequestRepository(pool)
	now := time.Now().UTC()

	for _, r := range sampleRequests(now) {
		if _, err := repo.Create(ctx, &r); err != nil {
			log.Fatal().Err(err).Str("title", r.Title).Msg("failed to insert seed request")
		}
	}

	log.Info().Msg("seed data inserted successfully")
}

func sampleRequests(now time.Time) []domain.Request {
	str := func(s string) *string { return &s }
	id := func(n int64) *int64 { return &n }

	return []domain.Request{
		{
			Title: "VPN Access", Description: str("Need VPN for work"),
			Type: domain.TypeAccess, Status: domain.StatusDraft,
			CreatedByUserID: 1, CreatedByUserName: "Hadi",
			CreatedAt: now, UpdatedAt: now,
		},
		{
			Title: "Office Supplies Request", Description: str("Need new desk chair and monitor stand"),
			Type: domain.TypeGeneral, Status: domain.StatusDraft,
			CreatedByUserID: 3, CreatedByUserName: "Lama",
			CreatedAt: now, UpdatedAt: now,
		},
		{
			Title: "Budget Approval for Q1", Description: str("Requesting budget approval for marketing campaign"),
			Type: domain.TypeFinance, Status: domain.StatusSubmitted,
			CreatedByUserID: 3, CreatedByUserName: "Lama",
			CreatedAt: now, UpdatedAt: now,
		},
		{
			Title: "Database Access", Description: str("Need read access to production database"),
			Type: domain.TypeAccess, Status: domain.StatusSubmitted,
			CreatedByUserID: 1, CreatedByUserName: "Hadi",
			CreatedAt: now, UpdatedAt: now,
		},
		{
			Title: "Training Budget Approval", Description: str("Request for React training course budget"),
			Type: domain.TypeFinance, Status: domain.StatusApproved,
			CreatedByUserID: 1, CreatedByUserName: "Hadi",
			ApproverComment:  str("Approved. This training aligns with our development goals."),
			ApprovedByUserID: id(2), ApprovedByUserName: str("Haneen"),
			CreatedAt: now, UpdatedAt: now,
		},
		{
			Title: "New Laptop Request", Description: str("Current laptop is 5 years old and running slow"),
			Type: domain.TypeGeneral, Status: domain.StatusApproved,
			CreatedByUserID: 1, CreatedByUserName: "Hadi",
			ApproverComment:  str("Approved. IT budget has room for this upgrade."),
			ApprovedByUserID: id(3), ApprovedByUserName: str("Lama"),
			CreatedAt: now, UpdatedAt: now,
		},
		{
			Title: "Conference Ticket", Description: str("Request to attend tech conference in Dubai"),
			Type: domain.TypeGeneral, Status: domain.StatusRejected,
			CreatedByUserID: 3, CreatedByUserName: "Lama",
			ApproverComment:  str("Travel budget is exhausted for this quarter. Please resubmit next quarter."),
			ApprovedByUserID: id(2), ApprovedByUserName: str("Haneen"),
			CreatedAt: now, UpdatedAt: now,
		},
		{
			Title: "Premium Software License", Description: str("Request for premium version of design software"),
			Type: domain.TypeAccess, Status: domain.StatusRejected,
			CreatedByUserID: 1, CreatedByUserName: "Hadi",
			ApproverComment:  str("The free version covers our current needs. Let's revisit if requirements change."),
			ApprovedByUserID: id(3), ApprovedByUserName: str("Lama"),
			CreatedAt: now, UpdatedAt: now,
		},
	}
}
