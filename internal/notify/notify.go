package notify

import (
	"context"
	"log"
)

// Notifier delivers security notices to users. Delivery transport is out of
// scope here; implementations decide email, push or nothing at all.
type Notifier interface {
	PasswordChanged(ctx context.Context, userID string) error
	RecoveryUsed(ctx context.Context, userID string) error
}

// LogNotifier writes notices to the process log. It is the default wiring
// until a real transport exists.
type LogNotifier struct{}

func (LogNotifier) PasswordChanged(_ context.Context, userID string) error {
	log.Printf("[Notify] password changed for user %s", userID)
	return nil
}

func (LogNotifier) RecoveryUsed(_ context.Context, userID string) error {
	log.Printf("[Notify] account recovery completed for user %s", userID)
	return nil
}
