// Package store opens the durable backends that hold rating rows. Each store
// is opened once per process and shared by every operation.
package store

import (
	"context"
	"log"
	"time"
)

// HealthChecker is implemented by every backend.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

func loggerOrDefault(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.Default()
	}
	return logger
}

func withOptionalTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return ctx, func() {}
}
