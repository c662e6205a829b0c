// internal/workers/recommendation/apply-recommendations/handler.go
package applyrecommendations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"assessment-workers/internal/assessment/recommendation"
	"assessment-workers/internal/common/logger"
	"assessment-workers/internal/common/metrics"
	"assessment-workers/internal/models"
)

const (
	TaskType = "apply-recommendations"
)

var (
	ErrValidationFailed = errors.New("VALIDATION_FAILED")
)

type Handler struct {
	config *Config
	store  *recommendation.Store
	logger logger.Logger
}

func NewHandler(config *Config, store *recommendation.Store, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		store:  store,
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
		errorCode := "DATABASE_WRITE_FAILED"
		retries := int32(3)
		switch {
		case errors.Is(err, ErrValidationFailed):
			errorCode = "VALIDATION_FAILED"
			retries = 0
		case errors.Is(err, recommendation.ErrAssessmentNotFound):
			errorCode = "ASSESSMENT_NOT_FOUND"
			retries = 0
		case errors.Is(err, recommendation.ErrConflict):
			// The workflow decides whether to regenerate; retrying the same
			// stale result would just conflict again.
			errorCode = "RECOMMENDATION_CONFLICT"
			retries = 0
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
		return nil, fmt.Errorf("%w: input cannot be nil", ErrValidationFailed)
	}
	if input.AssessmentID == "" {
		return nil, fmt.Errorf("%w: assessment id is required", ErrValidationFailed)
	}
	if input.RecommendationID == "" {
		return nil, fmt.Errorf("%w: recommendation id is required", ErrValidationFailed)
	}

	result := models.RecommendationResult{
		ID:                  input.RecommendationID,
		AssessmentID:        input.AssessmentID,
		RecommendedUseCases: input.RecommendedUseCases,
		Count:               input.Count,
		GeneratedAt:         input.GeneratedAt,
	}
	if result.Count == 0 {
		result.Count = len(result.RecommendedUseCases)
	}

	if err := h.store.Apply(ctx, result); err != nil {
		return nil, err
	}

	return &Output{
		Applied:          true,
		AssessmentID:     input.AssessmentID,
		RecommendationID: input.RecommendationID,
	}, nil
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
