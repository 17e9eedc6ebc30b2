//go:build integration

package pgsql_test

import (
	"context"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/journal_engine/internal/apperrors"
	"github.com/SscSPs/journal_engine/internal/core/domain"
	portssvc "github.com/SscSPs/journal_engine/internal/core/ports/services"
	"github.com/SscSPs/journal_engine/internal/core/services"
	"github.com/SscSPs/journal_engine/internal/dto"
	"github.com/SscSPs/journal_engine/internal/repositories/database/pgsql"
	"github.com/SscSPs/journal_engine/pkg/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const wp = "wp-int"

type PostgresStoreSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	pool      *pgxpool.Pool
	repo      *pgsql.PgxJournalRepository
	svc       portssvc.JournalSvcFacade
	ctx       context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func migrationsURL() string {
	_, file, _, _ := runtime.Caller(0)
	return "file://" + filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "migrations")
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	container, err := tcpostgres.Run(s.ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("journal"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)
	s.Require().NoError(database.RunMigrations(dsn, migrationsURL(), database.Up))

	s.pool, err = database.NewPgxPool(s.ctx, dsn, database.PoolOptions{Ping: true})
	s.Require().NoError(err)

	s.repo = pgsql.NewRepositoryProvider(s.pool, pgsql.Options{
		LockTimeout:  2 * time.Second,
		MaxRetries:   10,
		RetryBackoff: 5 * time.Millisecond,
	}).(*pgsql.PgxJournalRepository)
	s.svc = services.NewJournalService(s.repo)

	_, err = s.pool.Exec(s.ctx, `
		INSERT INTO accounts (account_id, workplace_id, code, name, account_type, normal_balance) VALUES
			('cash', $1, '1000', 'Cash', 'ASSET', 'DEBIT'),
			('revenue', $1, '4000', 'Revenue', 'REVENUE', 'CREDIT');
		INSERT INTO fiscal_periods (period_id, workplace_id, fiscal_year, name, start_date, end_date, status) VALUES
			('p-2024-03', $1, 2024, 'Mar 2024', '2024-03-01', '2024-03-31', 'OPEN'),
			('p-2024-04', $1, 2024, 'Apr 2024', '2024-04-01', '2024-04-30', 'OPEN');`, wp)
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TearDownSuite() {
	database.ClosePgxPool(s.pool)
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(s.ctx))
	}
}

func (s *PostgresStoreSuite) draft(amount string) *domain.JournalEntry {
	entry, err := s.svc.BuildDraft(s.ctx, wp, dto.CreateEntryRequest{
		EntryDate:    time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		CurrencyCode: "USD",
		Lines: []dto.CreateEntryLineRequest{
			{AccountID: "cash", Debit: decimal.RequireFromString(amount), Credit: decimal.Zero},
			{AccountID: "revenue", Debit: decimal.Zero, Credit: decimal.RequireFromString(amount)},
		},
	}, "tester")
	s.Require().NoError(err)
	return entry
}

func (s *PostgresStoreSuite) balance(account string) decimal.Decimal {
	bal, err := s.svc.AccountBalance(s.ctx, wp, account, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	return bal
}

func (s *PostgresStoreSuite) TestPostAndReverseRoundTrip() {
	before := s.balance("cash")
	entry := s.draft("1000.00")

	posted, err := s.svc.Post(s.ctx, wp, entry.EntryID, "tester")
	s.Require().NoError(err)
	s.Equal(domain.Posted, posted.Status)
	s.True(s.balance("cash").Sub(before).Equal(decimal.NewFromInt(1000)))

	reversalDate := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)
	rev, err := s.svc.Reverse(s.ctx, wp, entry.EntryID, &reversalDate, "tester")
	s.Require().NoError(err)
	s.Equal(domain.EntryReversing, rev.EntryType)
	s.True(s.balance("cash").Equal(before))

	_, err = s.svc.Reverse(s.ctx, wp, entry.EntryID, &reversalDate, "tester")
	s.ErrorIs(err, apperrors.ErrBusinessRule)
}

func (s *PostgresStoreSuite) TestConcurrentPostsOfOneEntry() {
	entry := s.draft("10.00")

	var wg sync.WaitGroup
	errs := make([]error, 6)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.svc.Post(s.ctx, wp, entry.EntryID, "tester")
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		}
	}
	s.Equal(1, successes)

	var rows int
	s.Require().NoError(s.pool.QueryRow(s.ctx, `SELECT count(*) FROM ledger_rows WHERE entry_id = $1`, entry.EntryID).Scan(&rows))
	s.Equal(2, rows)
}

func (s *PostgresStoreSuite) TestConcurrentPostsShareRunningBalance() {
	entries := make([]*domain.JournalEntry, 5)
	for i := range entries {
		entries[i] = s.draft("1.00")
	}
	before := s.balance("cash")

	var wg sync.WaitGroup
	for _, e := range entries {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := s.svc.Post(s.ctx, wp, id, "tester")
			s.NoError(err)
		}(e.EntryID)
	}
	wg.Wait()

	var latest decimal.Decimal
	s.Require().NoError(s.pool.QueryRow(s.ctx, `
		SELECT running_balance FROM ledger_rows
		WHERE workplace_id = $1 AND account_id = 'cash'
		ORDER BY sequence DESC LIMIT 1`, wp).Scan(&latest))
	s.True(latest.Equal(before.Add(decimal.NewFromInt(5))), "running balance %s", latest)
	s.True(s.balance("cash").Equal(latest))
}

func (s *PostgresStoreSuite) TestLedgerRowsAreImmutable() {
	entry := s.draft("3.00")
	_, err := s.svc.Post(s.ctx, wp, entry.EntryID, "tester")
	s.Require().NoError(err)

	_, err = s.pool.Exec(s.ctx, `UPDATE ledger_rows SET debit = 0 WHERE entry_id = $1`, entry.EntryID)
	s.Error(err)
	_, err = s.pool.Exec(s.ctx, `DELETE FROM journal_entries WHERE entry_id = $1`, entry.EntryID)
	s.Error(err)
}

func (s *PostgresStoreSuite) TestDraftsCanBeDeleted() {
	entry := s.draft("4.00")
	_, err := s.pool.Exec(s.ctx, `DELETE FROM journal_entries WHERE entry_id = $1`, entry.EntryID)
	s.NoError(err)
}
