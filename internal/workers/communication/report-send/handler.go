// internal/workers/communication/report-send/handler.go
package reportsend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"assessment-workers/internal/common/logger"
	"assessment-workers/internal/common/metrics"
)

const (
	TaskType = "report-send"
)

var (
	ErrValidationFailed       = errors.New("VALIDATION_FAILED")
	ErrNotificationSendFailed = errors.New("NOTIFICATION_SEND_FAILED")
)

// EmailSender is satisfied by aws.SESClient.
type EmailSender interface {
	SendEmail(ctx context.Context, from, to, subject, body string) (string, error)
}

// SMSSender is satisfied by aws.SNSClient.
type SMSSender interface {
	SendSMS(ctx context.Context, phoneNumber, senderID, message string) (string, error)
}

type Handler struct {
	config *Config
	email  EmailSender
	sms    SMSSender
	logger logger.Logger
}

func NewHandler(config *Config, email EmailSender, sms SMSSender, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		email:  email,
		sms:    sms,
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
		errorCode := "NOTIFICATION_SEND_FAILED"
		retries := int32(3)
		if errors.Is(err, ErrValidationFailed) {
			errorCode = "VALIDATION_FAILED"
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
	if input.RecipientEmail == "" && input.RecipientPhone == "" {
		return nil, fmt.Errorf("%w: at least one recipient is required", ErrValidationFailed)
	}

	output := &Output{SentAt: time.Now()}

	if h.config.EmailEnabled && input.RecipientEmail != "" {
		if h.email == nil {
			return nil, fmt.Errorf("%w: email sender not configured", ErrNotificationSendFailed)
		}
		messageID, err := h.email.SendEmail(ctx, h.config.FromEmail, input.RecipientEmail, buildSubject(input), buildEmailBody(input))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotificationSendFailed, err)
		}
		output.EmailMessageID = messageID
		output.Sent = true
	}

	if h.config.SMSEnabled && input.RecipientPhone != "" {
		if h.sms == nil {
			return nil, fmt.Errorf("%w: sms sender not configured", ErrNotificationSendFailed)
		}
		messageID, err := h.sms.SendSMS(ctx, input.RecipientPhone, h.config.SMSSenderID, buildSMSBody(input))
		if err != nil {
			// Email already went out; an SMS failure still fails the job so
			// the workflow can retry, and the email send is idempotent enough
			// for the recipient to tolerate a duplicate.
			return nil, fmt.Errorf("%w: %v", ErrNotificationSendFailed, err)
		}
		output.SMSMessageID = messageID
		output.Sent = true
	}

	h.logger.Info("report sent", map[string]interface{}{
		"assessmentId": input.AssessmentID,
		"email":        output.EmailMessageID != "",
		"sms":          output.SMSMessageID != "",
	})

	return output, nil
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
