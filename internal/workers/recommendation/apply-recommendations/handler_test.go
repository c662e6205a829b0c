// internal/workers/recommendation/apply-recommendations/handler_test.go
package applyrecommendations

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assessment-workers/internal/assessment/recommendation"
	"assessment-workers/internal/common/database"
	"assessment-workers/internal/common/logger"
	"assessment-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}

func createTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock, *miniredis.Miniredis) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	cache := &database.RedisClient{Client: goredis.NewClient(&goredis.Options{Addr: mr.Addr()})}
	store := recommendation.NewStore(db, cache, 5*time.Minute, time.Minute, logger.NewNoOpLogger())

	return NewHandler(createTestConfig(), store, logger.NewTestLogger(t)), mock, mr
}

func testInput() *Input {
	return &Input{
		RecommendationID: "rec-001",
		AssessmentID:     "assessment-1",
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
// Core Functionality Tests
// ==========================

func TestHandler_Execute_AppliesResult(t *testing.T) {
	handler, mock, mr := createTestHandler(t)
	mr.Set(recommendation.RecommendationCacheKey("assessment-1"), "stale")

	expectAssessmentExists(mock, true)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT recommendation_id, version FROM assessment_recommendations WHERE assessment_id = $1`)).
		WithArgs("assessment-1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO assessment_recommendations`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	output, err := handler.Execute(context.Background(), testInput())
	require.NoError(t, err)
	assert.True(t, output.Applied)
	assert.Equal(t, "assessment-1", output.AssessmentID)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.False(t, mr.Exists(recommendation.RecommendationCacheKey("assessment-1")),
		"applying must drop the cached view")
}

func TestHandler_Execute_DerivesCountFromPayload(t *testing.T) {
	handler, mock, _ := createTestHandler(t)

	expectAssessmentExists(mock, true)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT recommendation_id, version FROM assessment_recommendations WHERE assessment_id = $1`)).
		WithArgs("assessment-1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO assessment_recommendations`)).
		WithArgs("assessment-1", "rec-001", sqlmock.AnyArg(), 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	input := testInput()
	input.Count = 0

	_, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Error Mapping Tests
// ==========================

func TestHandler_Execute_AssessmentNotFound(t *testing.T) {
	handler, mock, _ := createTestHandler(t)

	expectAssessmentExists(mock, false)

	_, err := handler.Execute(context.Background(), testInput())
	assert.ErrorIs(t, err, recommendation.ErrAssessmentNotFound)
}

func TestHandler_Execute_Conflict(t *testing.T) {
	handler, mock, _ := createTestHandler(t)

	expectAssessmentExists(mock, true)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT recommendation_id, version FROM assessment_recommendations WHERE assessment_id = $1`)).
		WithArgs("assessment-1").
		WillReturnRows(sqlmock.NewRows([]string{"recommendation_id", "version"}).AddRow("rec-000", int64(2)))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE assessment_recommendations`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := handler.Execute(context.Background(), testInput())
	assert.ErrorIs(t, err, recommendation.ErrConflict)
}

func TestHandler_Execute_MissingIdentifiers(t *testing.T) {
	handler, _, _ := createTestHandler(t)

	tests := []struct {
		name  string
		input *Input
	}{
		{"nil input", nil},
		{"missing assessment id", &Input{RecommendationID: "rec-001"}},
		{"missing recommendation id", &Input{AssessmentID: "assessment-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := handler.Execute(context.Background(), tt.input)
			assert.ErrorIs(t, err, ErrValidationFailed)
		})
	}
}
