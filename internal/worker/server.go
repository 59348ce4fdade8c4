package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"travel-backoffice/internal/consumers"
	"travel-backoffice/internal/services"
	"travel-backoffice/pkg/logger"
)

type Worker struct {
	Processor *consumers.LedgerProcessor
}

func NewWorker(processor *consumers.LedgerProcessor) *Worker {
	return &Worker{Processor: processor}
}

func (w *Worker) HandleReconcile(ctx context.Context, t *asynq.Task) error {
	var p services.ReconcilePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	return w.Processor.ProcessReconcile(p)
}

func (w *Worker) HandleCommissionSettle(ctx context.Context, t *asynq.Task) error {
	var p services.CommissionTaskPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	return w.Processor.ProcessCommissionSettle(p)
}

func (w *Worker) HandleCommissionReverse(ctx context.Context, t *asynq.Task) error {
	var p services.CommissionTaskPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	return w.Processor.ProcessCommissionReverse(p)
}

func (w *Worker) HandleWalletAudit(ctx context.Context, t *asynq.Task) error {
	var p services.WalletAuditPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	return w.Processor.ProcessWalletAudit(p)
}

func StartWorker(redisOpt asynq.RedisClientOpt, processor *consumers.LedgerProcessor) {
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	worker := NewWorker(processor)
	mux := asynq.NewServeMux()

	mux.HandleFunc(services.TaskAccountingReconcile, worker.HandleReconcile)
	mux.HandleFunc(services.TaskCommissionSettle, worker.HandleCommissionSettle)
	mux.HandleFunc(services.TaskCommissionReverse, worker.HandleCommissionReverse)
	mux.HandleFunc(services.TaskWalletAudit, worker.HandleWalletAudit)

	if err := srv.Run(mux); err != nil {
		logger.Fatal("could not run worker", "error", err)
	}
}
