package jobs

import (
	"context"

	"github.com/hibiken/asynq"
)

// ResetDispatcher enqueues password reset emails for the worker to send.
type ResetDispatcher struct {
	client *asynq.Client
}

// NewResetDispatcher constructs a dispatcher backed by an Asynq client.
func NewResetDispatcher(client *asynq.Client) *ResetDispatcher {
	return &ResetDispatcher{client: client}
}

// DispatchPasswordReset enqueues the reset email task.
func (d *ResetDispatcher) DispatchPasswordReset(ctx context.Context, email, resetToken string) error {
	task, err := NewPasswordResetEmailTask(PasswordResetEmailPayload{To: email, Token: resetToken})
	if err != nil {
		return err
	}
	_, err = d.client.EnqueueContext(ctx, task, asynq.MaxRetry(3))
	return err
}
