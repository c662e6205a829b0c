// internal/workers/assessment/track-section-progress/handler.go
package tracksectionprogress

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"assessment-workers/internal/assessment/navigation"
	"assessment-workers/internal/common/logger"
	"assessment-workers/internal/common/metrics"
	"assessment-workers/internal/models"
)

const (
	TaskType = "track-section-progress"
)

var tracer = otel.Tracer(TaskType)

var (
	ErrAssessmentNotFound   = errors.New("ASSESSMENT_NOT_FOUND")
	ErrSectionNotFound      = errors.New("SECTION_NOT_FOUND")
	ErrQueryExecutionFailed = errors.New("QUERY_EXECUTION_FAILED")
	ErrQueryTimeout         = errors.New("QUERY_TIMEOUT")
)

type Handler struct {
	config *Config
	db     *sql.DB
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := "QUERY_EXECUTION_FAILED"
		retries := int32(3)
		switch {
		case errors.Is(err, ErrAssessmentNotFound):
			errorCode = "ASSESSMENT_NOT_FOUND"
			retries = 0
		case errors.Is(err, ErrSectionNotFound):
			errorCode = "SECTION_NOT_FOUND"
			retries = 0
		case errors.Is(err, ErrQueryTimeout):
			errorCode = "QUERY_TIMEOUT"
			retries = 2
		}
		h.failJob(client, job, errorCode, err.Error(), retries)
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, fmt.Errorf("input cannot be nil")
	}
	if input.AssessmentID == "" {
		return nil, fmt.Errorf("%w: assessment id is required", ErrAssessmentNotFound)
	}

	ctx, span := tracer.Start(ctx, "track-section-progress.execute", trace.WithAttributes(
		attribute.String("assessment.id", input.AssessmentID),
		attribute.String("section.id", input.SectionID),
	))
	defer span.End()

	sections, progress, err := h.loadProgress(ctx, input.AssessmentID)
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrAssessmentNotFound, input.AssessmentID)
	}
	if _, ok := progress[input.SectionID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrSectionNotFound, input.SectionID)
	}

	opts := []navigation.Option{}
	if h.config.EnforceOrder {
		opts = append(opts, navigation.WithEnforcedOrder())
	}
	if h.config.AutoAdvance {
		opts = append(opts, navigation.WithAutoAdvance())
	}
	if h.config.Disabled {
		opts = append(opts, navigation.Disabled())
	}
	nav := navigation.New(sections, opts...)

	state := input.State
	if state.Current == "" {
		state = nav.Start()
	}

	state = nav.MarkProgress(state, input.SectionID, progress[input.SectionID])

	return &Output{
		AssessmentID:    input.AssessmentID,
		Current:         state.Current,
		Completed:       state.Completed,
		Reachable:       nav.Reachable(state),
		AllComplete:     nav.AllComplete(state),
		SectionComplete: progress[input.SectionID].Complete(),
		Progress:        progress,
	}, nil
}

// loadProgress pulls every section of the assessment with its answered and
// total question counts in one query.
func (h *Handler) loadProgress(ctx context.Context, assessmentID string) ([]models.Section, map[string]models.SectionProgress, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT s.id, s.title, s.position,
		        COUNT(q.id) AS total,
		        COUNT(a.question_id) AS answered
		 FROM sections s
		 LEFT JOIN questions q ON q.section_id = s.id
		 LEFT JOIN answers a ON a.question_id = q.id AND a.assessment_id = $1
		 WHERE s.assessment_id = $1
		 GROUP BY s.id, s.title, s.position
		 ORDER BY s.position`,
		assessmentID,
	)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, nil, ErrQueryTimeout
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrQueryExecutionFailed, err)
	}
	defer rows.Close()

	var sections []models.Section
	progress := make(map[string]models.SectionProgress)
	for rows.Next() {
		var section models.Section
		var p models.SectionProgress
		if err := rows.Scan(&section.ID, &section.Title, &section.Position, &p.Total, &p.Answered); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrQueryExecutionFailed, err)
		}
		sections = append(sections, section)
		progress[section.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrQueryExecutionFailed, err)
	}

	return sections, progress, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string, retries int32) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
		"retries":      retries,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
