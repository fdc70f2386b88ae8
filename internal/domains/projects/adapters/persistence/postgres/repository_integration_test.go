//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/a-z-nath/portfolio-api/internal/domains/projects/domain"
	"github.com/a-z-nath/portfolio-api/internal/domains/projects/ports"
	"github.com/a-z-nath/portfolio-api/internal/platform/migrations"
)

func setupProjectsPostgresContainer(t *testing.T) (*gorm.DB, string, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("portfolio_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, dsn, cleanup
}

func integrationProject(id int64, stars int, pushed *time.Time) *domain.Project {
	created := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	desc := ""
	return &domain.Project{
		ID:              id,
		Name:            "project",
		Description:     &desc,
		URL:             "https://github.com/a-z-nath/project",
		Stars:           stars,
		Topics:          domain.EncodeTopics([]string{"featured"}),
		CreatedAt:       created,
		UpdatedAt:       created.Add(time.Hour),
		GitHubUpdatedAt: pushed,
		Featured:        true,
	}
}

func TestRepository_InsertFindUpdate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	db, _, cleanup := setupProjectsPostgresContainer(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewRepository(db)
	pushed := time.Date(2024, 2, 1, 10, 30, 0, 0, time.UTC)
	project := integrationProject(101, 4, &pushed)

	require.NoError(t, repo.Insert(ctx, project))

	found, err := repo.FindByID(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, "", *found.Description)
	assert.Nil(t, found.Homepage)
	assert.True(t, pushed.Equal(*found.GitHubUpdatedAt))

	found.Stars = 40
	found.UpdatedAt = found.UpdatedAt.Add(time.Hour)
	require.NoError(t, repo.Update(ctx, found))

	updated, err := repo.FindByID(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, 40, updated.Stars)
	assert.True(t, found.UpdatedAt.Equal(updated.UpdatedAt))

	_, err = repo.FindByID(ctx, 404)
	require.ErrorIs(t, err, ports.ErrNotFound)
	require.ErrorIs(t, repo.Update(ctx, integrationProject(404, 0, nil)), ports.ErrNotFound)
}

func TestRepository_ReconcileAndOrdering(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	db, _, cleanup := setupProjectsPostgresContainer(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewRepository(db)
	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)
	require.NoError(t, repo.Insert(ctx, integrationProject(1, 5, &older)))
	require.NoError(t, repo.Insert(ctx, integrationProject(2, 50, &older)))
	require.NoError(t, repo.Insert(ctx, integrationProject(3, 10, nil)))
	require.NoError(t, repo.Insert(ctx, integrationProject(4, 10, &newer)))
	require.NoError(t, repo.Insert(ctx, integrationProject(5, 70, &newer)))

	before, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, repo.ReconcileFeatured(ctx, []int64{1, 2, 3, 4}))

	list, err := repo.ListFeatured(ctx)
	require.NoError(t, err)
	ids := make([]int64, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.ID)
	}
	require.Equal(t, []int64{2, 4, 3, 1}, ids)

	dropped, err := repo.FindByID(ctx, 5)
	require.NoError(t, err)
	assert.False(t, dropped.Featured)

	after, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, before.UpdatedAt.Equal(after.UpdatedAt))
}

func TestRepository_MalformedTopicsSurviveRead(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	db, dsn, cleanup := setupProjectsPostgresContainer(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewRepository(db)
	require.NoError(t, repo.Insert(ctx, integrationProject(7, 1, nil)))

	raw, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	defer raw.Close()
	_, err = raw.ExecContext(ctx, "UPDATE projects SET topics = $1 WHERE id = $2", "{not json", 7)
	require.NoError(t, err)

	list, err := repo.ListFeatured(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	topics, err := list[0].Topics.Decode()
	require.Error(t, err)
	require.Empty(t, topics)
}
