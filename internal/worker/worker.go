package worker

import (
	"context"
)

// Worker - фоновая задача, которую запускает WorkerManager
type Worker interface {
	// Start блокируется до остановки или отмены ctx
	Start(ctx context.Context) error

	Stop() error

	Name() string
}
