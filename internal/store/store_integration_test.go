package store

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const skipIntegrationTests = "POS_SKIP_INTEGRATION_TESTS"

// PgStoreSuite exercises the PostgreSQL backend against a real database.
type PgStoreSuite struct {
	suite.Suite
	pgContainer *postgres.PostgresContainer
	dbPool      *pgxpool.Pool
	store       Store
	logger      *slog.Logger
	ctx         context.Context
}

// SetupSuite starts a PostgreSQL container, connects a pool and applies the
// embedded migrations.
func (s *PgStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	var err error
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:17.5-alpine",
		postgres.WithDatabase("pos"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		// Wait for a specific log message indicating the database service is ready.
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("5432/tcp"),
		),
	)
	require.NoError(s.T(), err, "Failed to run PostgreSQL container")

	connStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get connection string from container")

	s.dbPool, err = pgxpool.New(s.ctx, connStr)
	require.NoError(s.T(), err, "Failed to create pgxpool")

	for i := range 10 {
		s.logger.Info("Pinging PostgreSQL database", "attempt", i+1)
		err = s.dbPool.Ping(s.ctx)
		if err == nil {
			break
		}
		time.Sleep(time.Second * 2)
	}
	require.NoError(s.T(), err, "Failed to connect to PostgreSQL after retries")

	require.NoError(s.T(), Migrate(connStr), "Failed to apply migrations")
	s.logger.Info("Migrations applied")

	s.store = NewPgStore(s.dbPool)
	s.logger.Info("Initialization complete for PgStoreSuite")
}

// TearDownSuite cleans up resources after all tests in the suite have run.
func (s *PgStoreSuite) TearDownSuite() {
	s.logger.Info("Tearing down suite...")
	if s.dbPool != nil {
		s.dbPool.Close()
		s.logger.Info("DB pool closed.")
	}
	if s.pgContainer != nil {
		s.logger.Info("Terminating PostgreSQL container...")
		if err := s.pgContainer.Terminate(s.ctx); err != nil {
			s.logger.Warn("failed to terminate PostgreSQL container", "error", err)
		}
	}
}

// SetupTest resets the kv_state table before each test.
func (s *PgStoreSuite) SetupTest() {
	_, err := s.dbPool.Exec(s.ctx, "TRUNCATE TABLE kv_state")
	require.NoError(s.T(), err, "Failed to truncate kv_state table")
}

// TestPgStoreIntegration runs the PostgreSQL store integration tests.
func TestPgStoreIntegration(t *testing.T) {
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	suite.Run(t, new(PgStoreSuite))
}

func (s *PgStoreSuite) TestGet_AbsentKey() {
	_, err := s.store.Get(s.ctx, KeyCatalog)
	require.ErrorIs(s.T(), err, ErrKeyNotFound, "Expected ErrKeyNotFound for an unwritten key")
}

func (s *PgStoreSuite) TestSetAndGet() {
	value := []byte(`{"products":[]}`)
	require.NoError(s.T(), s.store.Set(s.ctx, KeyCatalog, value))

	got, err := s.store.Get(s.ctx, KeyCatalog)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), value, got)
}

func (s *PgStoreSuite) TestSet_OverwritesPreviousValue() {
	require.NoError(s.T(), s.store.Set(s.ctx, KeySales, []byte(`[]`)))
	require.NoError(s.T(), s.store.Set(s.ctx, KeySales, []byte(`[{"total":"15"}]`)))

	got, err := s.store.Get(s.ctx, KeySales)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), []byte(`[{"total":"15"}]`), got)
}

func (s *PgStoreSuite) TestKeysAreIndependent() {
	require.NoError(s.T(), s.store.Set(s.ctx, KeyCatalog, []byte(`"catalog"`)))
	require.NoError(s.T(), s.store.Set(s.ctx, KeyOpeningFloat, []byte(`"100"`)))

	catalog, err := s.store.Get(s.ctx, KeyCatalog)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), []byte(`"catalog"`), catalog)

	flt, err := s.store.Get(s.ctx, KeyOpeningFloat)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), []byte(`"100"`), flt)
}

func (s *PgStoreSuite) TestMigrate_IsIdempotent() {
	connStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err)
	require.NoError(s.T(), Migrate(connStr), "Re-applying migrations should be a no-op")
}
