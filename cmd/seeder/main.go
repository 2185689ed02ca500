// Command seeder bulk-loads demo users, KYC records and decided loans into
// Postgres for local development and load testing.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"loandesk/internal/decision"
	"loandesk/internal/domain"
	"loandesk/internal/loan/store"
	"loandesk/internal/platform/logger"
)

var employers = []string{"Acme Corp", "Globex", "Initech", "Umbrella", "Hooli", "Stark Industries"}

func main() {
	users := flag.Int("users", 1000, "number of users to create")
	loansPerUser := flag.Int("loans", 3, "maximum loans per user")
	dsn := flag.String("dsn", os.Getenv("DATABASE_URL"), "postgres connection string")
	flag.Parse()

	log := logger.New(os.Getenv("ENVIRONMENT"))
	if *dsn == "" {
		log.Error("no database configured, set DATABASE_URL or -dsn")
		os.Exit(1)
	}

	if err := run(context.Background(), log, *dsn, *users, *loansPerUser); err != nil {
		log.Error("seeding failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, dsn string, userCount, maxLoans int) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, store.Schema()); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	var existing int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&existing); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if existing >= userCount {
		log.Info("database already seeded, skipping", "users", existing)
		return nil
	}

	data := generate(time.Now().UTC(), userCount, maxLoans)

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	n, err := tx.CopyFrom(ctx, pgx.Identifier{"users"},
		[]string{"id", "email", "full_name", "created_at"}, pgx.CopyFromRows(data.users))
	if err != nil {
		return fmt.Errorf("copy users: %w", err)
	}
	log.Info("copied users", "rows", n)

	n, err = tx.CopyFrom(ctx, pgx.Identifier{"kyc"},
		[]string{"id", "user_id", "income", "employer", "created_at"}, pgx.CopyFromRows(data.kyc))
	if err != nil {
		return fmt.Errorf("copy kyc: %w", err)
	}
	log.Info("copied kyc", "rows", n)

	n, err = tx.CopyFrom(ctx, pgx.Identifier{"loans"},
		[]string{"id", "user_id", "amount", "duration", "status", "reason", "created_at"}, pgx.CopyFromRows(data.loans))
	if err != nil {
		return fmt.Errorf("copy loans: %w", err)
	}
	log.Info("copied loans", "rows", n)

	return tx.Commit(ctx)
}

type dataset struct {
	users [][]any
	kyc   [][]any
	loans [][]any
}

// generate builds rows whose loan statuses agree with the decision rules, so
// seeded history feeds realistic debt-to-income checks.
func generate(now time.Time, userCount, maxLoans int) dataset {
	var ds dataset
	runID := uuid.NewString()[:8]
	for i := range userCount {
		userID := uuid.New()
		created := now.Add(-time.Duration(userCount-i) * time.Minute)
		ds.users = append(ds.users, []any{
			userID, fmt.Sprintf("seed-%s-%d@example.com", runID, i), fmt.Sprintf("Seed User %d", i), created,
		})

		// One in five users never submits KYC.
		if i%5 == 4 {
			continue
		}
		income := float64(30000 + rand.IntN(120000))
		employer := employers[rand.IntN(len(employers))]
		if i%7 == 6 {
			employer = ""
		}
		ds.kyc = append(ds.kyc, []any{uuid.New(), userID, income, employer, created})

		applicant := &domain.Applicant{
			UserID: userID.String(),
			KYC:    &domain.KYC{UserID: userID.String(), Income: income, Employer: employer},
		}
		for j := range rand.IntN(maxLoans + 1) {
			amount := float64(1000 + rand.IntN(40000))
			d := decision.EvaluateDecision(applicant, amount)
			if d.Approved {
				applicant.ApprovedLoans = append(applicant.ApprovedLoans, amount)
			}
			var reason *string
			if d.Reason != "" {
				reason = &d.Reason
			}
			ds.loans = append(ds.loans, []any{
				uuid.New(), userID, amount, 12 * (1 + rand.IntN(30)), string(d.Status), reason,
				created.Add(time.Duration(j+1) * time.Hour),
			})
		}
	}
	return ds
}
