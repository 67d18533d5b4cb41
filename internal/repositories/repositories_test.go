package repositories

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"travel-cms/internal/entities"
	"travel-cms/pkg/database/migrations"
	"travel-cms/pkg/database/postgresql"
	apperrors "travel-cms/pkg/errors"
	"travel-cms/pkg/types"
)

var (
	testDBOnce sync.Once
	testDB     *pgxpool.Pool
	testDBErr  error
	container  *postgres.PostgresContainer
)

func TestMain(m *testing.M) {
	code := m.Run()
	if testDB != nil {
		testDB.Close()
	}
	if container != nil {
		_ = testcontainers.TerminateContainer(container)
	}
	os.Exit(code)
}

// getTestDB поднимает PostgreSQL в контейнере один раз на пакет и применяет миграции.
// Каждый тест начинает с пустых таблиц.
func getTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("интеграционный тест с PostgreSQL пропущен в режиме -short")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	testDBOnce.Do(func() {
		ctx := context.Background()
		container, testDBErr = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("travel_cms"),
			postgres.WithUsername("user"),
			postgres.WithPassword("password"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
		if testDBErr != nil {
			return
		}

		dsn, err := container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			testDBErr = err
			return
		}
		testDB, testDBErr = postgresql.ConnectDB(ctx, dsn)
		if testDBErr != nil {
			return
		}
		testDBErr = migrations.Up(ctx, testDB, zap.NewNop())
	})
	require.NoError(t, testDBErr)

	_, err := testDB.Exec(context.Background(),
		`TRUNCATE admins, blogs, galleries, activities, events, articles`)
	require.NoError(t, err)
	return testDB
}

func TestRecordRepository_CRUD(t *testing.T) {
	db := getTestDB(t)
	repo := NewRecordRepository(db, zap.NewNop())
	ctx := context.Background()

	id := uuid.NewString()
	_, err := repo.Insert(ctx, entities.ActivitySchema, entities.Record{
		"id": id, "name": "Trek", "description": "3-day trek", "duration": "3d", "price": 199.0,
	})
	require.NoError(t, err)

	record, err := repo.FindByID(ctx, entities.ActivitySchema, id)
	require.NoError(t, err)
	assert.Equal(t, entities.Record{
		"id": id, "name": "Trek", "description": "3-day trek", "image": nil, "duration": "3d", "price": 199.0,
	}, record)

	rows, err := repo.Update(ctx, entities.ActivitySchema, id, entities.Record{"price": 149.5, "image": "activities/a.png"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	record, err = repo.FindByField(ctx, entities.ActivitySchema, "name", "Trek")
	require.NoError(t, err)
	assert.Equal(t, 149.5, record["price"])
	assert.Equal(t, "activities/a.png", record["image"])

	rows, err = repo.Update(ctx, entities.ActivitySchema, id, entities.Record{"image": nil})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)
	record, err = repo.FindByID(ctx, entities.ActivitySchema, id)
	require.NoError(t, err)
	assert.Nil(t, record["image"])

	rows, err = repo.Update(ctx, entities.ActivitySchema, uuid.NewString(), entities.Record{"price": 1.0})
	require.NoError(t, err)
	assert.Zero(t, rows)

	rows, err = repo.Delete(ctx, entities.ActivitySchema, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	_, err = repo.FindByID(ctx, entities.ActivitySchema, id)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRecordRepository_RejectsUnknownColumns(t *testing.T) {
	db := getTestDB(t)
	repo := NewRecordRepository(db, zap.NewNop())
	ctx := context.Background()

	_, err := repo.Insert(ctx, entities.EventSchema, entities.Record{"id": uuid.NewString(), "title": "x", "seq": 5})
	var storageErr *apperrors.StorageError
	assert.ErrorAs(t, err, &storageErr)

	_, err = repo.Update(ctx, entities.EventSchema, uuid.NewString(), entities.Record{"id": uuid.NewString()})
	assert.ErrorAs(t, err, &storageErr)

	_, err = repo.FindByField(ctx, entities.EventSchema, "title; DROP TABLE events", "x")
	assert.ErrorAs(t, err, &storageErr)
}

func TestRecordRepository_OrderingAndDates(t *testing.T) {
	db := getTestDB(t)
	repo := NewRecordRepository(db, zap.NewNop())
	ctx := context.Background()

	for _, blog := range []entities.Record{
		{"title": "first", "date": "2024-01-05"},
		{"title": "second"},
		{"title": "third", "date": "2024-03-01"},
		{"title": "fourth", "date": "2023-12-31"},
	} {
		blog["id"] = uuid.NewString()
		_, err := repo.Insert(ctx, entities.BlogSchema, blog)
		require.NoError(t, err)
	}

	all, err := repo.FindAll(ctx, entities.BlogSchema, types.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, []any{"first", "second", "third", "fourth"}, column(all, "title"))
	assert.Equal(t, "2024-01-05", all[0]["date"])
	assert.Nil(t, all[1]["date"])

	latest, err := repo.FindAll(ctx, entities.BlogSchema, types.ListOptions{
		Sort:  []types.SortField{{Field: "date", Desc: true}},
		Limit: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, []any{"third", "first", "fourth"}, column(latest, "title"))
}

func column(records []entities.Record, name string) []any {
	values := make([]any, 0, len(records))
	for _, r := range records {
		values = append(values, r[name])
	}
	return values
}

func TestSearchRepository(t *testing.T) {
	db := getTestDB(t)
	records := NewRecordRepository(db, zap.NewNop())
	search := NewSearchRepository(db, zap.NewNop())
	ctx := context.Background()

	insert := func(schema entities.Schema, record entities.Record) string {
		record["id"] = uuid.NewString()
		id, err := records.Insert(ctx, schema, record)
		require.NoError(t, err)
		return id
	}
	activityID := insert(entities.ActivitySchema, entities.Record{
		"name": "Everest flight", "description": "Mountain view", "duration": "1h", "price": 250.0, "image": "activities/e.png",
	})
	articleID := insert(entities.ArticleSchema, entities.Record{
		"title": "Base camp", "description": "Trek to everest base camp", "cost": 1500.0,
		"duration": "14d", "start_point": "Lukla", "end_point": "EBC", "images1": "articles/b.png",
	})
	blogID := insert(entities.BlogSchema, entities.Record{"title": "EVEREST diaries"})
	insert(entities.EventSchema, entities.Record{"title": "Everest day"})
	insert(entities.BlogSchema, entities.Record{"title": "100% fun"})

	results, err := search.Search(ctx, "everest")
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, entities.KindBlog, results[0].Type)
	assert.Equal(t, blogID, results[0].ID)
	assert.Nil(t, results[0].Description)

	assert.Equal(t, entities.KindArticle, results[1].Type)
	assert.Equal(t, articleID, results[1].ID)
	require.NotNil(t, results[1].Image)
	assert.Equal(t, "articles/b.png", *results[1].Image)

	assert.Equal(t, entities.KindActivity, results[2].Type)
	assert.Equal(t, activityID, results[2].ID)
	assert.Equal(t, "Everest flight", results[2].Name)

	results, err = search.Search(ctx, "%")
	require.NoError(t, err)
	require.Len(t, results, 1, "спецсимволы LIKE ищутся буквально")
	assert.Equal(t, "100% fun", results[0].Name)
}

func TestAdminRepository_CreateIfAbsent(t *testing.T) {
	db := getTestDB(t)
	repo := NewAdminRepository(db, NewTxManager(db), zap.NewNop())
	ctx := context.Background()

	var wg sync.WaitGroup
	created := make(chan bool, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.CreateIfAbsent(ctx, entities.Admin{
				ID: uuid.NewString(), Email: "admin@example.com", Password: "digest",
			})
			assert.NoError(t, err)
			created <- ok
		}()
	}
	wg.Wait()
	close(created)

	wins := 0
	for ok := range created {
		if ok {
			wins++
		}
	}
	assert.Equal(t, 1, wins)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	admins, err := repo.FindAll(ctx, 2)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "admin@example.com", admins[0].Email)
	assert.False(t, admins[0].CreatedAt.IsZero())
}
