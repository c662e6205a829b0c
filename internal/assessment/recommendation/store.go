// internal/assessment/recommendation/store.go
package recommendation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"assessment-workers/internal/common/database"
	"assessment-workers/internal/common/logger"
	"assessment-workers/internal/models"
)

// Sentinel errors surfaced to the workers for BPMN mapping.
var (
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrConflict           = errors.New("recommendation modified concurrently")
)

// Cached view keys. Apply and Clear drop both so dashboards never serve a
// recommendation that no longer exists.
const (
	UseCasesCacheKey         = "use-cases"
	recommendationsKeyPrefix = "recommendations:"
)

// RecommendationCacheKey returns the cached-view key for one assessment.
func RecommendationCacheKey(assessmentID string) string {
	return recommendationsKeyPrefix + assessmentID
}

// Store persists recommendation results against assessments. PostgreSQL is
// the source of truth; Redis holds TTL-bounded read views.
type Store struct {
	db                 *sql.DB
	cache              *database.RedisClient
	useCasesTTL        time.Duration
	recommendationsTTL time.Duration
	logger             logger.Logger
}

func NewStore(db *sql.DB, cache *database.RedisClient, useCasesTTL, recommendationsTTL time.Duration, log logger.Logger) *Store {
	return &Store{
		db:                 db,
		cache:              cache,
		useCasesTTL:        useCasesTTL,
		recommendationsTTL: recommendationsTTL,
		logger:             log,
	}
}

// Apply persists a generated result for its assessment. The row is guarded by
// a version column: a concurrent apply or clear between our read and write
// surfaces as ErrConflict and leaves the previously persisted result intact.
// Re-applying the result that is already persisted succeeds without a write.
func (s *Store) Apply(ctx context.Context, result models.RecommendationResult) error {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM assessments WHERE id = $1)`,
		result.AssessmentID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check assessment: %w", err)
	}
	if !exists {
		return ErrAssessmentNotFound
	}

	payload, err := json.Marshal(result.RecommendedUseCases)
	if err != nil {
		return fmt.Errorf("marshal recommendations: %w", err)
	}

	var currentID string
	var version int64
	err = s.db.QueryRowContext(ctx,
		`SELECT recommendation_id, version FROM assessment_recommendations WHERE assessment_id = $1`,
		result.AssessmentID,
	).Scan(&currentID, &version)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO assessment_recommendations (assessment_id, recommendation_id, payload, count, version, generated_at)
			 VALUES ($1, $2, $3, $4, 1, $5)
			 ON CONFLICT (assessment_id) DO NOTHING`,
			result.AssessmentID, result.ID, payload, result.Count, result.GeneratedAt,
		)
		if err != nil {
			return fmt.Errorf("insert recommendation: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			// Someone else inserted between our read and write.
			return ErrConflict
		}

	case err != nil:
		return fmt.Errorf("read recommendation version: %w", err)

	case currentID == result.ID:
		// Already applied; nothing to write.

	default:
		res, err := s.db.ExecContext(ctx,
			`UPDATE assessment_recommendations
			 SET recommendation_id = $2, payload = $3, count = $4, version = version + 1, generated_at = $5
			 WHERE assessment_id = $1 AND version = $6`,
			result.AssessmentID, result.ID, payload, result.Count, result.GeneratedAt, version,
		)
		if err != nil {
			return fmt.Errorf("update recommendation: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return ErrConflict
		}
	}

	s.invalidate(ctx, result.AssessmentID)
	return nil
}

// Clear removes the persisted result for an assessment. Clearing when nothing
// is persisted is a successful no-op.
func (s *Store) Clear(ctx context.Context, assessmentID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM assessment_recommendations WHERE assessment_id = $1`,
		assessmentID,
	)
	if err != nil {
		return false, fmt.Errorf("delete recommendation: %w", err)
	}

	cleared := false
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		cleared = true
	}

	s.invalidate(ctx, assessmentID)
	return cleared, nil
}

// Fetch returns the persisted recommendation view, serving from the Redis
// cache when warm. No persisted result yields an empty response with count 0.
func (s *Store) Fetch(ctx context.Context, assessmentID string) (*models.RecommendationResponse, error) {
	key := RecommendationCacheKey(assessmentID)

	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key); err == nil {
			var cached models.RecommendationResponse
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("recommendation cache read failed", map[string]interface{}{
				"assessmentId": assessmentID,
				"error":        err.Error(),
			})
		}
	}

	response := &models.RecommendationResponse{
		AssessmentID:        assessmentID,
		RecommendedUseCases: []models.RecommendedUseCase{},
	}

	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, count FROM assessment_recommendations WHERE assessment_id = $1`,
		assessmentID,
	).Scan(&payload, &response.Count)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("fetch recommendation: %w", err)
	}
	if err == nil {
		if err := json.Unmarshal(payload, &response.RecommendedUseCases); err != nil {
			return nil, fmt.Errorf("decode recommendation payload: %w", err)
		}
	}

	s.cacheSet(ctx, key, response, s.recommendationsTTL)
	return response, nil
}

// LoadCatalog returns the active use-case catalog ordered by position,
// serving from the cached view when warm.
func (s *Store) LoadCatalog(ctx context.Context) ([]models.UseCase, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, UseCasesCacheKey); err == nil {
			var cached []models.UseCase
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
		}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, category, pillar_requirements, tags, active, dashboard_visible, position
		 FROM use_cases ORDER BY position`,
	)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	defer rows.Close()

	var catalog []models.UseCase
	for rows.Next() {
		var uc models.UseCase
		var requirements []byte
		if err := rows.Scan(
			&uc.ID, &uc.Name, &uc.Description, &uc.Category,
			&requirements, pq.Array(&uc.Tags), &uc.Active, &uc.DashboardVisible, &uc.Position,
		); err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		if len(requirements) > 0 {
			if err := json.Unmarshal(requirements, &uc.PillarRequirements); err != nil {
				return nil, fmt.Errorf("decode pillar requirements for %s: %w", uc.ID, err)
			}
		}
		catalog = append(catalog, uc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog rows: %w", err)
	}

	s.cacheSet(ctx, UseCasesCacheKey, catalog, s.useCasesTTL)
	return catalog, nil
}

// invalidate drops the cached views touched by a write. Failures are logged
// and swallowed; the fetch TTL bounds how long a stale view can survive.
func (s *Store) invalidate(ctx context.Context, assessmentID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, UseCasesCacheKey, RecommendationCacheKey(assessmentID)); err != nil {
		s.logger.WithError(err).Warn("cache invalidation failed", map[string]interface{}{
			"assessmentId": assessmentID,
		})
	}
}

func (s *Store) cacheSet(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.cache == nil || ttl <= 0 {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, ttl); err != nil {
		s.logger.WithError(err).Warn("cache write failed", map[string]interface{}{
			"key": key,
		})
	}
}
