// internal/workers/assessment/classify-quadrant/handler.go
package classifyquadrant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"assessment-workers/internal/assessment/scoring"
	"assessment-workers/internal/common/logger"
	"assessment-workers/internal/common/metrics"
)

const (
	TaskType = "classify-quadrant"
)

var (
	ErrValidationFailed = errors.New("VALIDATION_FAILED")
)

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
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
		h.failJob(client, job, "VALIDATION_FAILED", err.Error(), 0)
		return
	}

	metrics.QuadrantClassifications.WithLabelValues(output.Quadrant).Inc()
	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: input cannot be nil", ErrValidationFailed)
	}

	if err := h.checkScale("impact", input.Impact); err != nil {
		return nil, err
	}
	if err := h.checkScale("effort", input.Effort); err != nil {
		return nil, err
	}

	midpoint := h.config.Midpoint
	if input.Midpoint != nil {
		if err := h.checkScale("midpoint", *input.Midpoint); err != nil {
			return nil, err
		}
		midpoint = *input.Midpoint
	}

	quadrant := scoring.Classify(input.Impact, input.Effort, midpoint)

	return &Output{
		AssessmentID:  input.AssessmentID,
		Quadrant:      quadrant,
		QuadrantLabel: scoring.QuadrantLabel(quadrant),
		Impact:        scoring.Format(input.Impact),
		Effort:        scoring.Format(input.Effort),
		Midpoint:      midpoint,
	}, nil
}

func (h *Handler) checkScale(name string, value float64) error {
	if value < h.config.ScaleMin || value > h.config.ScaleMax {
		return fmt.Errorf("%w: %s %v outside scale [%v, %v]",
			ErrValidationFailed, name, value, h.config.ScaleMin, h.config.ScaleMax)
	}
	return nil
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
