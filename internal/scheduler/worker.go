package scheduler

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"vmr_backend/internal/leads/maintenance"
	"vmr_backend/platform/config"
	"vmr_backend/platform/logger"
)

type Worker struct {
	server      *asynq.Server
	mux         *asynq.ServeMux
	maintenance *maintenance.Service
	log         *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, maintenanceSvc *maintenance.Service, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 1
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:      server,
		mux:         mux,
		maintenance: maintenanceSvc,
		log:         log,
	}

	mux.HandleFunc(TaskTokenRegeneration, w.handleTokenRegeneration)

	return w, nil
}

func (w *Worker) handleTokenRegeneration(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseTokenRegenerationPayload(task)
	if err != nil {
		return err
	}

	result, err := w.maintenance.RegenerateAll(ctx)
	if err != nil {
		return err
	}

	w.log.Info("token regeneration batch finished",
		"requestedBy", payload.RequestedBy,
		"total", result.Total,
		"success", result.Success,
		"failed", result.Failed,
	)
	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
