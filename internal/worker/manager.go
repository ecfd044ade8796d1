package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultShutdownTimeout - сколько Stop ждет фоновые задачи
const DefaultShutdownTimeout = 30 * time.Second

var errAlreadyStarted = errors.New("workers already started")

// WorkerManager держит фоновые задачи процесса (сейчас это обновление кеша регионов).
// Все задачи живут в одной errgroup с общим контекстом: Stop отменяет его и ждет выхода.
type WorkerManager struct {
	logger          *zap.Logger
	shutdownTimeout time.Duration

	mu      sync.Mutex
	workers []Worker
	group   *errgroup.Group
	cancel  context.CancelFunc
	errs    []error
}

// ManagerOption настраивает WorkerManager
type ManagerOption func(*WorkerManager)

// WithShutdownTimeout меняет время ожидания при остановке
func WithShutdownTimeout(d time.Duration) ManagerOption {
	return func(m *WorkerManager) {
		if d > 0 {
			m.shutdownTimeout = d
		}
	}
}

func NewWorkerManager(logger *zap.Logger, opts ...ManagerOption) *WorkerManager {
	m := &WorkerManager{
		logger:          logger,
		shutdownTimeout: DefaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register добавляет задачу; после Start регистрация не влияет на запущенный набор
func (m *WorkerManager) Register(w Worker) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.workers = append(m.workers, w)
	m.logger.Info("Worker registered", zap.String("worker", w.Name()))
}

// Start запускает задачи и сразу возвращается
func (m *WorkerManager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.group != nil {
		return errAlreadyStarted
	}
	if len(m.workers) == 0 {
		m.logger.Debug("No background workers registered")
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.group = &errgroup.Group{}

	m.logger.Info("Starting background workers", zap.Int("count", len(m.workers)))
	for _, w := range m.workers {
		m.group.Go(func() error {
			err := w.Start(runCtx)
			if err == nil || errors.Is(err, context.Canceled) {
				return nil
			}
			m.logger.Error("Worker exited with error", zap.String("worker", w.Name()), zap.Error(err))

			m.mu.Lock()
			m.errs = append(m.errs, fmt.Errorf("%s: %w", w.Name(), err))
			m.mu.Unlock()
			return nil
		})
	}

	return nil
}

// Stop останавливает задачи и ждет их не дольше shutdownTimeout.
// Возвращает ошибки, с которыми задачи завершились. Повторный вызов безопасен.
func (m *WorkerManager) Stop() error {
	m.mu.Lock()
	group, cancel := m.group, m.cancel
	workers := append([]Worker(nil), m.workers...)
	m.mu.Unlock()

	if group == nil {
		return nil
	}

	for _, w := range workers {
		if err := w.Stop(); err != nil {
			m.logger.Warn("Failed to signal worker", zap.String("worker", w.Name()), zap.Error(err))
		}
	}
	cancel()

	done := make(chan struct{})
	go func() {
		_ = group.Wait()
		close(done)
	}()

	timer := time.NewTimer(m.shutdownTimeout)
	defer timer.Stop()

	select {
	case <-done:
	case <-timer.C:
		m.logger.Warn("Background workers did not stop in time", zap.Duration("timeout", m.shutdownTimeout))
		return fmt.Errorf("workers shutdown timed out after %v", m.shutdownTimeout)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger.Info("Background workers stopped")
	return errors.Join(m.errs...)
}
