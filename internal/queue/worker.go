package queue

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

type Worker struct {
	runner PassRunner
}

func NewWorker(runner PassRunner) *Worker {
	return &Worker{runner: runner}
}

func (w *Worker) HandleDispatchPassTask(ctx context.Context, task *asynq.Task) error {
	var payload DispatchPassPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	summary, err := w.runner.Run(ctx)
	if err != nil {
		slog.Warn("dispatch pass not run", "trigger", payload.Trigger, "error", err)
		return nil
	}

	slog.Info("dispatch pass finished", "trigger", payload.Trigger, "due", summary.Due)
	return nil
}

// Register wires the task handlers into mux.
func (w *Worker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TaskTypeDispatchPass, w.HandleDispatchPassTask)
}
