// Package jobs defines the background tasks processed by the worker binary.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypePasswordResetEmail delivers a password reset link.
	TaskTypePasswordResetEmail = "email:password_reset"
)

// PasswordResetEmailPayload carries the reset token to the mail handler.
type PasswordResetEmailPayload struct {
	To    string `json:"to"`
	Token string `json:"token"`
}

// NewPasswordResetEmailTask constructs an Asynq task.
func NewPasswordResetEmailTask(payload PasswordResetEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypePasswordResetEmail, data, asynq.Queue(QueueDefault)), nil
}
