package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault cola única de tareas de mantenimiento del inventario.
	QueueDefault = "default"

	TaskAlertsScan   = "inventory:alerts_scan"
	TaskExpireLots   = "inventory:expire_lots"
	TaskRevaluation  = "inventory:revaluation"
	defaultMaxRetry  = 3
	defaultTaskLimit = 10 * time.Minute
)

// Payload metadatos comunes; Trigger indica el origen (cron o manual).
type Payload struct {
	Trigger     string    `json:"trigger"`
	RequestedAt time.Time `json:"requested_at"`
}

func newTask(taskType, trigger string, at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(Payload{Trigger: trigger, RequestedAt: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(taskType, body,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(defaultMaxRetry),
		asynq.Timeout(defaultTaskLimit),
	), nil
}

// NewAlertsScanTask tarea de reevaluación de umbrales de todos los pares.
func NewAlertsScanTask(trigger string, at time.Time) (*asynq.Task, error) {
	return newTask(TaskAlertsScan, trigger, at)
}

// NewExpireLotsTask tarea que marca lotes vencidos.
func NewExpireLotsTask(trigger string, at time.Time) (*asynq.Task, error) {
	return newTask(TaskExpireLots, trigger, at)
}

// NewRevaluationTask tarea de recálculo completo de valorizaciones.
func NewRevaluationTask(trigger string, at time.Time) (*asynq.Task, error) {
	return newTask(TaskRevaluation, trigger, at)
}
