// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"assessment-workers/internal/assessment/recommendation"
	"assessment-workers/internal/common/aws"
	"assessment-workers/internal/common/camunda"
	"assessment-workers/internal/common/config"
	"assessment-workers/internal/common/database"
	"assessment-workers/internal/common/logger"
	"assessment-workers/internal/common/observability"

	// Assessment Workers (3)
	cq "assessment-workers/internal/workers/assessment/classify-quadrant"
	tsp "assessment-workers/internal/workers/assessment/track-section-progress"
	va "assessment-workers/internal/workers/assessment/validate-answer"

	// Recommendation Workers (4)
	ar "assessment-workers/internal/workers/recommendation/apply-recommendations"
	cr "assessment-workers/internal/workers/recommendation/clear-recommendations"
	fr "assessment-workers/internal/workers/recommendation/fetch-recommendations"
	gr "assessment-workers/internal/workers/recommendation/generate-recommendations"

	// Catalog Workers (1)
	suc "assessment-workers/internal/workers/catalog/search-use-cases"

	// Communication Workers (1)
	rs "assessment-workers/internal/workers/communication/report-send"
)

// openWorkers collects every started job worker so shutdown can drain them.
var openWorkers []*camunda.Worker

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	tracing, err := observability.NewTracing(cfg.App.Name, os.Getenv("JAEGER_ENDPOINT"))
	if err != nil {
		zapLog.Warn("tracing init failed, continuing without traces", zap.Error(err))
	} else {
		defer tracing.Shutdown()
	}

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebeClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      config.GetDuration(cfg.Camunda.Timeout),
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// Shared recommendation store: PostgreSQL source of truth, Redis views.
	store := recommendation.NewStore(
		pg.DB,
		redis,
		config.GetDuration(cfg.Assessment.Cache.UseCasesTTL),
		config.GetDuration(cfg.Assessment.Cache.RecommendationsTTL),
		log,
	)

	// --- START: Register ALL 9 Workers ---

	// --- 1. Assessment Workers (3) ---
	if wcfg := config.GetWorkerConfig(cfg, va.TaskType); wcfg.Enabled {
		handler := va.NewHandler(
			&va.Config{
				Timeout: config.GetDuration(wcfg.Timeout),
			},
			log,
		)
		startWorker(zeebeClient, va.TaskType, wcfg, handler.Handle, obs, zapLog)
	}

	if wcfg := config.GetWorkerConfig(cfg, cq.TaskType); wcfg.Enabled {
		handler := cq.NewHandler(
			&cq.Config{
				Timeout:  config.GetDuration(wcfg.Timeout),
				ScaleMin: cfg.Assessment.ScaleMin,
				ScaleMax: cfg.Assessment.ScaleMax,
				Midpoint: cfg.Assessment.QuadrantMidpoint,
			},
			log,
		)
		startWorker(zeebeClient, cq.TaskType, wcfg, handler.Handle, obs, zapLog)
	}

	if wcfg := config.GetWorkerConfig(cfg, tsp.TaskType); wcfg.Enabled {
		handler := tsp.NewHandler(
			&tsp.Config{
				Timeout:      config.GetDuration(wcfg.Timeout),
				EnforceOrder: cfg.Assessment.EnforceSectionOrder,
				AutoAdvance:  cfg.Assessment.AutoAdvance,
				Disabled:     cfg.Assessment.NavigationDisabled,
			},
			pg.DB, log,
		)
		startWorker(zeebeClient, tsp.TaskType, wcfg, handler.Handle, obs, zapLog)
	}

	// --- 2. Recommendation Workers (4) ---
	if wcfg := config.GetWorkerConfig(cfg, gr.TaskType); wcfg.Enabled {
		handler := gr.NewHandler(
			&gr.Config{
				Timeout:             config.GetDuration(wcfg.Timeout),
				AcceptanceThreshold: cfg.Assessment.AcceptanceThreshold,
			},
			store, log,
		)
		startWorker(zeebeClient, gr.TaskType, wcfg, handler.Handle, obs, zapLog)
	}

	if wcfg := config.GetWorkerConfig(cfg, ar.TaskType); wcfg.Enabled {
		handler := ar.NewHandler(
			&ar.Config{
				Timeout: config.GetDuration(wcfg.Timeout),
			},
			store, log,
		)
		startWorker(zeebeClient, ar.TaskType, wcfg, handler.Handle, obs, zapLog)
	}

	if wcfg := config.GetWorkerConfig(cfg, cr.TaskType); wcfg.Enabled {
		handler := cr.NewHandler(
			&cr.Config{
				Timeout: config.GetDuration(wcfg.Timeout),
			},
			store, log,
		)
		startWorker(zeebeClient, cr.TaskType, wcfg, handler.Handle, obs, zapLog)
	}

	if wcfg := config.GetWorkerConfig(cfg, fr.TaskType); wcfg.Enabled {
		handler := fr.NewHandler(
			&fr.Config{
				Timeout: config.GetDuration(wcfg.Timeout),
			},
			store, log,
		)
		startWorker(zeebeClient, fr.TaskType, wcfg, handler.Handle, obs, zapLog)
	}

	// --- 3. Catalog Workers (1) ---
	if wcfg := config.GetWorkerConfig(cfg, suc.TaskType); wcfg.Enabled {
		handler := suc.NewHandler(
			&suc.Config{
				Timeout:   config.GetDuration(wcfg.Timeout),
				IndexName: cfg.Catalog.SearchIndex,
			},
			esClient.Client, log,
		)
		startWorker(zeebeClient, suc.TaskType, wcfg, handler.Handle, obs, zapLog)
	}

	// --- 4. Communication Workers (1) ---
	if wcfg := config.GetWorkerConfig(cfg, rs.TaskType); wcfg.Enabled {
		var sesClient *aws.SESClient
		var snsClient *aws.SNSClient

		if cfg.Notifications.Email.Enabled {
			sesClient, err = aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
			if err != nil {
				zapLog.Fatal("failed to create SES client", zap.Error(err))
			}
		}
		if cfg.Notifications.SMS.Enabled {
			snsClient, err = aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
			if err != nil {
				zapLog.Fatal("failed to create SNS client", zap.Error(err))
			}
		}

		var email rs.EmailSender
		if sesClient != nil {
			email = sesClient
		}
		var sms rs.SMSSender
		if snsClient != nil {
			sms = snsClient
		}

		handler := rs.NewHandler(
			&rs.Config{
				Timeout:      config.GetDuration(wcfg.Timeout),
				EmailEnabled: cfg.Notifications.Email.Enabled,
				FromEmail:    cfg.Notifications.Email.FromEmail,
				SMSEnabled:   cfg.Notifications.SMS.Enabled,
				SMSSenderID:  cfg.Notifications.SMS.DefaultSMSSenderID,
			},
			email, sms, log,
		)
		startWorker(zeebeClient, rs.TaskType, wcfg, handler.Handle, obs, zapLog)
	}

	zapLog.Info("All 9 workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := zeebeClient.HealthCheck(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "unavailable",
					"error":  err.Error(),
				})
				return
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	for _, w := range openWorkers {
		w.Close()
	}
	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client *camunda.Client, taskType string, wcfg config.WorkerConfig, handlerFunc camunda.HandlerFunc, obs *observability.Observability, log *zap.Logger) {
	wrapped := func(jobClient worker.JobClient, job entities.Job) {
		start := time.Now()
		handlerFunc(jobClient, job)
		obs.RecordJob(context.Background(), taskType, time.Since(start))
	}

	w := camunda.NewWorker(client.GetClient(), taskType, camunda.WorkerOptions{
		MaxJobsActive: wcfg.MaxJobsActive,
		Timeout:       config.GetDuration(wcfg.Timeout),
	}, wrapped, log)
	openWorkers = append(openWorkers, w)
}
