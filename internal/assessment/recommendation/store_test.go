// internal/assessment/recommendation/store_test.go
package recommendation

import (
	"context"
	"database/sql"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assessment-workers/internal/common/database"
	"assessment-workers/internal/common/logger"
	"assessment-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestStore(t *testing.T) (*Store, sqlmock.Sqlmock, *miniredis.Miniredis) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	cache := &database.RedisClient{Client: goredis.NewClient(&goredis.Options{Addr: mr.Addr()})}

	store := NewStore(db, cache, 5*time.Minute, time.Minute, logger.NewTestLogger(t))
	return store, mock, mr
}

func testResult() models.RecommendationResult {
	return models.RecommendationResult{
		ID:           "rec-001",
		AssessmentID: "assessment-1",
		RecommendedUseCases: []models.RecommendedUseCase{
			{UseCaseID: "uc-dashboards", Name: "Self-Service Dashboards", FitScore: 5.0, Rank: 1},
		},
		Count:       1,
		GeneratedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func expectAssessmentExists(mock sqlmock.Sqlmock, exists bool) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM assessments WHERE id = $1)`)).
		WithArgs("assessment-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(exists))
}

// ==========================
// Apply Tests
// ==========================

func TestStore_Apply_InsertsFreshRow(t *testing.T) {
	store, mock, mr := newTestStore(t)
	mr.Set(UseCasesCacheKey, "stale")
	mr.Set(RecommendationCacheKey("assessment-1"), "stale")

	expectAssessmentExists(mock, true)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT recommendation_id, version FROM assessment_recommendations WHERE assessment_id = $1`)).
		WithArgs("assessment-1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO assessment_recommendations`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Apply(context.Background(), testResult())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.False(t, mr.Exists(UseCasesCacheKey), "use-cases view must be invalidated")
	assert.False(t, mr.Exists(RecommendationCacheKey("assessment-1")), "recommendation view must be invalidated")
}

func TestStore_Apply_AssessmentNotFound(t *testing.T) {
	store, mock, _ := newTestStore(t)

	expectAssessmentExists(mock, false)

	err := store.Apply(context.Background(), testResult())
	assert.ErrorIs(t, err, ErrAssessmentNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Apply_UpdatesWithVersionGuard(t *testing.T) {
	store, mock, _ := newTestStore(t)

	expectAssessmentExists(mock, true)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT recommendation_id, version FROM assessment_recommendations WHERE assessment_id = $1`)).
		WithArgs("assessment-1").
		WillReturnRows(sqlmock.NewRows([]string{"recommendation_id", "version"}).AddRow("rec-000", int64(3)))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE assessment_recommendations`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Apply(context.Background(), testResult())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Apply_ConflictOnConcurrentWrite(t *testing.T) {
	store, mock, _ := newTestStore(t)

	expectAssessmentExists(mock, true)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT recommendation_id, version FROM assessment_recommendations WHERE assessment_id = $1`)).
		WithArgs("assessment-1").
		WillReturnRows(sqlmock.NewRows([]string{"recommendation_id", "version"}).AddRow("rec-000", int64(3)))
	// The guarded update matches no row: someone bumped the version first.
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE assessment_recommendations`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Apply(context.Background(), testResult())
	assert.ErrorIs(t, err, ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Apply_ConflictOnConcurrentInsert(t *testing.T) {
	store, mock, _ := newTestStore(t)

	expectAssessmentExists(mock, true)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT recommendation_id, version FROM assessment_recommendations WHERE assessment_id = $1`)).
		WithArgs("assessment-1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO assessment_recommendations`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Apply(context.Background(), testResult())
	assert.ErrorIs(t, err, ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Apply_IdempotentForSameResult(t *testing.T) {
	store, mock, mr := newTestStore(t)
	mr.Set(RecommendationCacheKey("assessment-1"), "stale")

	expectAssessmentExists(mock, true)
	// The persisted row already carries this result id: no write happens.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT recommendation_id, version FROM assessment_recommendations WHERE assessment_id = $1`)).
		WithArgs("assessment-1").
		WillReturnRows(sqlmock.NewRows([]string{"recommendation_id", "version"}).AddRow("rec-001", int64(5)))

	err := store.Apply(context.Background(), testResult())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.False(t, mr.Exists(RecommendationCacheKey("assessment-1")), "invalidation still runs")
}

// ==========================
// Clear Tests
// ==========================

func TestStore_Clear(t *testing.T) {
	store, mock, mr := newTestStore(t)
	mr.Set(UseCasesCacheKey, "stale")
	mr.Set(RecommendationCacheKey("assessment-1"), "stale")

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM assessment_recommendations WHERE assessment_id = $1`)).
		WithArgs("assessment-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	cleared, err := store.Clear(context.Background(), "assessment-1")
	require.NoError(t, err)
	assert.True(t, cleared)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.False(t, mr.Exists(UseCasesCacheKey))
	assert.False(t, mr.Exists(RecommendationCacheKey("assessment-1")))
}

func TestStore_Clear_NothingPersistedIsSuccess(t *testing.T) {
	store, mock, _ := newTestStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM assessment_recommendations WHERE assessment_id = $1`)).
		WithArgs("assessment-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	cleared, err := store.Clear(context.Background(), "assessment-1")
	require.NoError(t, err)
	assert.False(t, cleared)
}

// ==========================
// Fetch Tests
// ==========================

func TestStore_Fetch_FromDatabase(t *testing.T) {
	store, mock, mr := newTestStore(t)

	payload, err := json.Marshal(testResult().RecommendedUseCases)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT payload, count FROM assessment_recommendations WHERE assessment_id = $1`)).
		WithArgs("assessment-1").
		WillReturnRows(sqlmock.NewRows([]string{"payload", "count"}).AddRow(payload, 1))

	response, err := store.Fetch(context.Background(), "assessment-1")
	require.NoError(t, err)
	assert.Equal(t, 1, response.Count)
	require.Len(t, response.RecommendedUseCases, 1)
	assert.Equal(t, "uc-dashboards", response.RecommendedUseCases[0].UseCaseID)

	assert.True(t, mr.Exists(RecommendationCacheKey("assessment-1")), "read populates the cached view")
}

func TestStore_Fetch_FromCache(t *testing.T) {
	store, mock, mr := newTestStore(t)

	cached, err := json.Marshal(models.RecommendationResponse{
		AssessmentID: "assessment-1",
		RecommendedUseCases: []models.RecommendedUseCase{
			{UseCaseID: "uc-cached", FitScore: 4.2, Rank: 1},
		},
		Count: 1,
	})
	require.NoError(t, err)
	mr.Set(RecommendationCacheKey("assessment-1"), string(cached))

	// No database expectation: the cache must satisfy the read.
	response, err := store.Fetch(context.Background(), "assessment-1")
	require.NoError(t, err)
	assert.Equal(t, "uc-cached", response.RecommendedUseCases[0].UseCaseID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Fetch_CacheErrorFallsBackToDatabase(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	redisClient, redisMock := redismock.NewClientMock()
	cache := &database.RedisClient{Client: redisClient}
	store := NewStore(db, cache, 5*time.Minute, time.Minute, logger.NewTestLogger(t))

	// A broken cache must not break reads; the database still answers.
	redisMock.ExpectGet(RecommendationCacheKey("assessment-1")).SetErr(assert.AnError)

	payload, err := json.Marshal(testResult().RecommendedUseCases)
	require.NoError(t, err)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT payload, count FROM assessment_recommendations WHERE assessment_id = $1`)).
		WithArgs("assessment-1").
		WillReturnRows(sqlmock.NewRows([]string{"payload", "count"}).AddRow(payload, 1))

	response, err := store.Fetch(context.Background(), "assessment-1")
	require.NoError(t, err)
	assert.Equal(t, 1, response.Count)
	require.NoError(t, redisMock.ExpectationsWereMet())
}

func TestStore_Fetch_NothingPersisted(t *testing.T) {
	store, mock, _ := newTestStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT payload, count FROM assessment_recommendations WHERE assessment_id = $1`)).
		WithArgs("assessment-1").
		WillReturnError(sql.ErrNoRows)

	response, err := store.Fetch(context.Background(), "assessment-1")
	require.NoError(t, err)
	assert.Equal(t, 0, response.Count)
	assert.Empty(t, response.RecommendedUseCases)
}

// ==========================
// LoadCatalog Tests
// ==========================

func TestStore_LoadCatalog(t *testing.T) {
	store, mock, mr := newTestStore(t)

	rows := sqlmock.NewRows([]string{
		"id", "name", "description", "category", "pillar_requirements",
		"tags", "active", "dashboard_visible", "position",
	}).AddRow(
		"uc-dashboards", "Self-Service Dashboards", "BI rollout", "analytics",
		[]byte(`{"strategy": 4}`), "{analytics,reporting}", true, true, 1,
	).AddRow(
		"uc-automation", "Process Automation", "", "operations",
		[]byte(`{"technology": 5}`), "{}", true, false, 2,
	)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, description, category, pillar_requirements, tags, active, dashboard_visible, position`)).
		WillReturnRows(rows)

	catalog, err := store.LoadCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, catalog, 2)

	assert.Equal(t, "uc-dashboards", catalog[0].ID)
	assert.Equal(t, 4.0, catalog[0].PillarRequirements[models.PillarStrategy])
	assert.Equal(t, []string{"analytics", "reporting"}, catalog[0].Tags)
	assert.True(t, mr.Exists(UseCasesCacheKey), "catalog read warms the cached view")
}

func TestStore_LoadCatalog_FromCache(t *testing.T) {
	store, mock, mr := newTestStore(t)

	cached, err := json.Marshal([]models.UseCase{{ID: "uc-cached", Name: "Cached", Active: true}})
	require.NoError(t, err)
	mr.Set(UseCasesCacheKey, string(cached))

	catalog, err := store.LoadCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, catalog, 1)
	assert.Equal(t, "uc-cached", catalog[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
