package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"weblarek/internal/config"
	"weblarek/internal/database"
	"weblarek/internal/model"
	"weblarek/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and opens it through
// database.Open, which applies the schema migrations.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	host, err := postgresContainer.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := postgresContainer.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	pool, err := database.Open(ctx, config.DatabaseConfig{
		Host:           host,
		Port:           port.Int(),
		User:           "testuser",
		Password:       "testpass",
		Database:       "testdb",
		MaxConnections: 10,
		MinConnections: 2,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// TestCatalog is the catalogue seeded by SeedProducts.
func TestCatalog() []model.Product {
	return []model.Product{
		{
			ID:          "854cef69-976d-4c2a-a18c-2aa45046c390",
			Title:       "+1 час в сутках",
			Category:    "софт-скил",
			Description: "Если планируете решать задачи в тренажёре, берите два.",
			Image:       "/5_Dots.svg",
			Price:       model.PriceOf(750),
		},
		{
			ID:          "c101ab44-ed99-4a54-990d-47aa2bb4e7d9",
			Title:       "HEX-леденец",
			Category:    "другое",
			Description: "Лизните этот леденец, чтобы мгновенно запоминать и узнавать любой цветовой код CSS.",
			Image:       "/Shell.svg",
			Price:       model.PriceOf(1450),
		},
		{
			ID:          "b06cde61-912f-4663-9751-09956c0eed67",
			Title:       "Мамка-таймер",
			Category:    "софт-скил",
			Description: "Будет стоять над душой и не давать прокрастинировать.",
			Image:       "/Asterisk_2.svg",
		},
	}
}

// SeedProducts upserts TestCatalog into the database.
func SeedProducts(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	repo := repository.NewProductRepository(pool, zerolog.Nop())
	if err := repo.Upsert(context.Background(), TestCatalog()); err != nil {
		t.Fatalf("failed to seed products: %v", err)
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"order_items", "orders", "products"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
