package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupCategoryPostgresContainer(t *testing.T) (*sqlx.DB, func()) {
	t.Helper()

	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_PASSWORD": "password", "POSTGRES_DB": "testdb", "POSTGRES_USER": "postgres"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp"),
	}

	container, err := tc.GenericContainer(context.Background(), tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	assert.NoError(t, err)

	host, _ := container.Host(context.Background())
	port, _ := container.MappedPort(context.Background(), "5432")

	dsn := fmt.Sprintf("postgres://postgres:password@%s:%d/testdb?sslmode=disable", host, port.Int())

	var db *sqlx.DB
	for i := 0; i < 10; i++ {
		db, err = sqlx.Connect("pgx", dsn)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	assert.NoError(t, err)

	schema := `
	CREATE TABLE IF NOT EXISTS categories (
		category_id UUID PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		slug VARCHAR(100) NOT NULL UNIQUE,
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	);
	`
	_, err = db.Exec(schema)
	assert.NoError(t, err)

	teardown := func() {
		db.Close()
		container.Terminate(context.Background())
	}

	return db, teardown
}

func TestCategoryReadRepository_GetByID(t *testing.T) {
	db, teardown := setupCategoryPostgresContainer(t)
	defer teardown()

	repo := NewCategoryReadRepository(db)
	ctx := context.Background()

	categoryID := uuid.New()
	_, err := db.Exec(
		`INSERT INTO categories (category_id, name, slug) VALUES ($1, $2, $3)`,
		categoryID, "Tech", "tech")
	assert.NoError(t, err)

	t.Run("Found", func(t *testing.T) {
		category, err := repo.GetByID(ctx, categoryID)
		assert.NoError(t, err)
		assert.NotNil(t, category)
		assert.Equal(t, "Tech", category.Name)
		assert.Equal(t, "tech", category.Slug)
	})

	t.Run("NotFound", func(t *testing.T) {
		category, err := repo.GetByID(ctx, uuid.New())
		assert.NoError(t, err)
		assert.Nil(t, category)
	})
}
