package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-tracker/internal/config"
	"github.com/spec-kit/ticket-tracker/internal/domain"
	"github.com/spec-kit/ticket-tracker/internal/observability"
	"github.com/spec-kit/ticket-tracker/internal/persistence"
)

var sampleTitles = []string{
	"Login issues",
	"Payment not processing",
	"Dashboard not loading",
	"Email notifications not working",
	"Password reset not working",
	"App crashing on startup",
	"Slow performance",
	"Billing inquiry",
	"Account locked",
	"Search not returning results",
}

var sampleDescriptions = []string{
	"User is unable to login with correct credentials",
	"Payment gets stuck at processing stage",
	"Dashboard shows blank screen after latest update",
	"No email notifications received for important alerts",
	"Password reset link not arriving in email",
	"Application crashes immediately after launching",
	"Extremely slow response times across all features",
	"Question about recent charges on credit card",
	"Account shows as locked after multiple failed attempts",
	"Search returns no results for valid queries",
}

var emailDomains = []string{"gmail.com", "yahoo.com", "outlook.com", "company.com"}
var firstNames = []string{"alex", "sam", "jordan", "taylor", "casey", "morgan", "riley", "quinn"}
var lastNames = []string{"smith", "johnson", "williams", "brown", "garcia", "miller", "davis"}

func main() {
	count := flag.Int("count", 50, "number of tickets to insert")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	pool := pg.PoolHandle()
	if pool == nil {
		logger.Fatal("POSTGRES_DSN is required for seeding")
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	inserted := 0
	for i := 0; i < *count; i++ {
		status := domain.TicketStatuses[rng.Intn(len(domain.TicketStatuses))]
		priority := domain.TicketPriorities[rng.Intn(len(domain.TicketPriorities))]
		// spread creation times over the last 30 days so the 7-day series
		// has both included and excluded tickets
		createdAt := time.Now().UTC().Add(-time.Duration(rng.Intn(30*24)) * time.Hour)

		const query = `
            INSERT INTO tickets (title, description, customer_email, status, priority, created_at, updated_at)
            VALUES ($1,$2,$3,$4,$5,$6,$6)`
		_, err := pool.Exec(ctx, query,
			sampleTitles[rng.Intn(len(sampleTitles))],
			sampleDescriptions[rng.Intn(len(sampleDescriptions))],
			randomEmail(rng),
			status,
			priority,
			createdAt,
		)
		if err != nil {
			logger.Fatal("failed to insert ticket", zap.Error(err))
		}
		inserted++
	}

	logger.Info("seed complete", zap.Int("tickets", inserted))
}

func randomEmail(rng *rand.Rand) string {
	return fmt.Sprintf("%s.%s@%s",
		firstNames[rng.Intn(len(firstNames))],
		lastNames[rng.Intn(len(lastNames))],
		emailDomains[rng.Intn(len(emailDomains))],
	)
}
