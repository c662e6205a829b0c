// internal/workers/recommendation/generate-recommendations/handler.go
package generaterecommendations

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
)

const (
	TaskType = "generate-recommendations"
)

var (
	ErrValidationFailed  = errors.New("VALIDATION_FAILED")
	ErrCatalogLoadFailed = errors.New("CATALOG_LOAD_FAILED")
)

type Handler struct {
	config *Config
	engine recommendation.Engine
	store  *recommendation.Store
	logger logger.Logger
}

func NewHandler(config *Config, store *recommendation.Store, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		engine: recommendation.NewEngine(config.AcceptanceThreshold),
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
		errorCode := "CATALOG_LOAD_FAILED"
		retries := int32(3)
		if errors.Is(err, ErrValidationFailed) {
			errorCode = "VALIDATION_FAILED"
			retries = 0
		}
		metrics.RecommendationsGenerated.WithLabelValues("error").Inc()
		h.failJob(client, job, errorCode, err.Error(), retries)
		return
	}

	outcome := "accepted"
	if output.Count == 0 {
		outcome = "empty"
	}
	metrics.RecommendationsGenerated.WithLabelValues(outcome).Inc()

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

	catalog := input.Catalog
	if len(catalog) == 0 && h.store != nil {
		loaded, err := h.store.LoadCatalog(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCatalogLoadFailed, err)
		}
		catalog = loaded
	}

	// An empty catalog is a valid zero-result outcome, not an error.
	result := h.engine.Generate(input.AssessmentID, input.Scores, catalog)

	return &Output{
		RecommendationID:    result.ID,
		AssessmentID:        result.AssessmentID,
		RecommendedUseCases: result.RecommendedUseCases,
		Count:               result.Count,
		GeneratedAt:         result.GeneratedAt,
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
