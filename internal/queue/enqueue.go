package queue

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// EnqueueDispatchPass schedules a pass on the queue. Passes enqueued within
// the unique window collapse into one task.
func EnqueueDispatchPass(asynqClient *asynq.Client, payload DispatchPassPayload, unique time.Duration) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypeDispatchPass, taskPayload)

	info, err := asynqClient.Enqueue(task, asynq.Unique(unique), asynq.MaxRetry(0))
	if err != nil {
		return err
	}

	slog.Info("dispatch pass enqueued", "task_id", info.ID, "trigger", payload.Trigger)
	return nil
}
