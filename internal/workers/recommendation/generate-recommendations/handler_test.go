// internal/workers/recommendation/generate-recommendations/handler_test.go
package generaterecommendations

import (
	"context"
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
		Timeout:             5 * time.Second,
		AcceptanceThreshold: 3.0,
	}
}

func createTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	cache := &database.RedisClient{Client: goredis.NewClient(&goredis.Options{Addr: mr.Addr()})}
	store := recommendation.NewStore(db, cache, 5*time.Minute, time.Minute, logger.NewNoOpLogger())

	return NewHandler(createTestConfig(), store, logger.NewTestLogger(t)), mock
}

func testScores() models.MaturityScores {
	return models.MaturityScores{
		models.PillarStrategy: 4.0,
		models.PillarData:     3.0,
	}
}

func inlineCatalog() []models.UseCase {
	return []models.UseCase{
		{ID: "uc-dashboards", Name: "Self-Service Dashboards", Active: true,
			PillarRequirements: map[string]float64{models.PillarStrategy: 4.0}},
		{ID: "uc-governance", Name: "Data Governance Rollout", Active: true,
			PillarRequirements: map[string]float64{models.PillarGovernance: 4.0}},
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_CatalogFromVariables(t *testing.T) {
	handler, mock := createTestHandler(t)

	// The inline catalog must short-circuit any database access.
	output, err := handler.Execute(context.Background(), &Input{
		AssessmentID: "assessment-1",
		Scores:       testScores(),
		Catalog:      inlineCatalog(),
	})

	require.NoError(t, err)
	require.Equal(t, 1, output.Count)
	assert.Equal(t, "uc-dashboards", output.RecommendedUseCases[0].UseCaseID)
	assert.Equal(t, 1, output.RecommendedUseCases[0].Rank)
	assert.NotEmpty(t, output.RecommendationID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_CatalogFromStore(t *testing.T) {
	handler, mock := createTestHandler(t)

	rows := sqlmock.NewRows([]string{
		"id", "name", "description", "category", "pillar_requirements",
		"tags", "active", "dashboard_visible", "position",
	}).AddRow(
		"uc-dashboards", "Self-Service Dashboards", "", "analytics",
		[]byte(`{"strategy": 4}`), "{}", true, true, 1,
	)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, description, category, pillar_requirements, tags, active, dashboard_visible, position`)).
		WillReturnRows(rows)

	output, err := handler.Execute(context.Background(), &Input{
		AssessmentID: "assessment-1",
		Scores:       testScores(),
	})

	require.NoError(t, err)
	require.Equal(t, 1, output.Count)
	assert.Equal(t, "uc-dashboards", output.RecommendedUseCases[0].UseCaseID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_EmptyScoresYieldEmptyResult(t *testing.T) {
	handler, _ := createTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		AssessmentID: "assessment-1",
		Catalog:      inlineCatalog(),
	})

	require.NoError(t, err)
	assert.Equal(t, 0, output.Count)
	assert.Empty(t, output.RecommendedUseCases)
}

func TestHandler_Execute_CatalogLoadFailure(t *testing.T) {
	handler, mock := createTestHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, description, category, pillar_requirements, tags, active, dashboard_visible, position`)).
		WillReturnError(assert.AnError)

	_, err := handler.Execute(context.Background(), &Input{
		AssessmentID: "assessment-1",
		Scores:       testScores(),
	})

	assert.ErrorIs(t, err, ErrCatalogLoadFailed)
}

func TestHandler_Execute_MissingAssessmentID(t *testing.T) {
	handler, _ := createTestHandler(t)

	_, err := handler.Execute(context.Background(), &Input{Scores: testScores()})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestHandler_Execute_NilInput(t *testing.T) {
	handler, _ := createTestHandler(t)

	_, err := handler.Execute(context.Background(), nil)
	assert.Error(t, err)
}
