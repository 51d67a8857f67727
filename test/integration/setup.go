package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"brewbean/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
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

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
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

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	// Create connection pool
	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	// Create schema
	createSchema(t, pool)

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

// createSchema creates the database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS menu_items (
			id VARCHAR(50) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price DECIMAL(10, 2) NOT NULL,
			category VARCHAR(50) NOT NULL,
			image_url TEXT,
			customizations JSONB,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			name VARCHAR(255) NOT NULL,
			phone VARCHAR(50),
			points INTEGER NOT NULL DEFAULT 0 CHECK (points >= 0),
			favorite_items TEXT[],
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			items JSONB NOT NULL,
			status VARCHAR(20) NOT NULL,
			total DECIMAL(10, 2) NOT NULL,
			points_earned INTEGER NOT NULL DEFAULT 0,
			pickup_time TIMESTAMP NOT NULL,
			location VARCHAR(255) NOT NULL,
			pickup_code VARCHAR(50) NOT NULL UNIQUE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS rewards (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			points_cost INTEGER NOT NULL CHECK (points_cost > 0),
			valid_until TIMESTAMP NOT NULL
		);

		CREATE TABLE IF NOT EXISTS user_rewards (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			reward_id UUID NOT NULL REFERENCES rewards(id),
			redeemed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id);
		CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
		CREATE INDEX IF NOT EXISTS idx_user_rewards_user_id ON user_rewards(user_id);
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// SeedMenu inserts test menu data into the database.
func SeedMenu(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	items := []model.MenuItem{
		{ID: "1", Name: "Signature Latte", Description: "House espresso with steamed milk", Price: 5.50, Category: model.CategoryCoffee,
			ImageURL: "https://cdn.brewbean.example/menu/signature-latte.jpg",
			Customizations: []model.Customization{
				{Name: "Milk", Options: []string{"Whole", "Oat", "Almond", "Soy"}},
				{Name: "Extra Shot", Options: []string{"Yes", "No"}, PriceModifier: 0.75},
			}},
		{ID: "2", Name: "Cold Brew", Description: "Slow-steeped for 18 hours", Price: 4.50, Category: model.CategoryCoffee},
		{ID: "3", Name: "Matcha Latte", Description: "Ceremonial grade matcha", Price: 6.00, Category: model.CategoryTea},
		{ID: "4", Name: "Almond Croissant", Description: "Flaky pastry with almond cream", Price: 4.25, Category: model.CategoryPastry},
		{ID: "5", Name: "Travel Tumbler", Description: "Double-walled 16oz tumbler", Price: 18.00, Category: model.CategoryMerchandise},
	}

	for _, item := range items {
		custJSON, err := json.Marshal(item.Customizations)
		if err != nil {
			t.Fatalf("failed to encode customizations: %v", err)
		}
		_, err = pool.Exec(ctx,
			"INSERT INTO menu_items (id, name, description, price, category, image_url, customizations) VALUES ($1, $2, $3, $4, $5, $6, $7)",
			item.ID, item.Name, item.Description, item.Price, item.Category, item.ImageURL, custJSON,
		)
		if err != nil {
			t.Fatalf("failed to seed menu item %s: %v", item.ID, err)
		}
	}
}

// SeedUser inserts a test user with the given point balance and returns
// its ID.
func SeedUser(t *testing.T, pool *pgxpool.Pool, points int) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		"INSERT INTO users (id, email, name, points) VALUES ($1, $2, $3, $4)",
		id, fmt.Sprintf("%s@example.com", id), "Test User", points,
	)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return id
}

// SeedReward inserts a test reward and returns its ID.
func SeedReward(t *testing.T, pool *pgxpool.Pool, name string, pointsCost int) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		"INSERT INTO rewards (id, name, description, points_cost, valid_until) VALUES ($1, $2, $3, $4, $5)",
		id, name, "Test reward", pointsCost, time.Now().AddDate(1, 0, 0),
	)
	if err != nil {
		t.Fatalf("failed to seed reward: %v", err)
	}
	return id
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"user_rewards", "orders", "rewards", "users", "menu_items"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
