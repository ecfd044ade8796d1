// Package retry - ограниченные повторы поверх cenkalti/backoff с точными формулами пауз.
package retry

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// BackoffFunc возвращает паузу после неудачной попытки attempt (нумерация с 1)
type BackoffFunc func(attempt int) time.Duration

// Policy описывает число попыток и паузу между ними
type Policy struct {
	MaxAttempts int
	Backoff     BackoffFunc
}

// NotifyFunc вызывается перед каждой паузой: attempt - номер неудачной попытки, next - пауза до следующей
type NotifyFunc func(err error, attempt int, next time.Duration)

// Exponential: base * factor^(attempt-1)
func Exponential(base time.Duration, factor float64) BackoffFunc {
	return func(attempt int) time.Duration {
		return time.Duration(float64(base) * math.Pow(factor, float64(attempt-1)))
	}
}

// ExponentialJitter: (base + U[0, jitter)) * factor^(attempt-1)
func ExponentialJitter(base, jitter time.Duration, factor float64) BackoffFunc {
	return func(attempt int) time.Duration {
		d := float64(base) + rand.Float64()*float64(jitter)
		return time.Duration(d * math.Pow(factor, float64(attempt-1)))
	}
}

// NoBackoff - для тестов
func NoBackoff(int) time.Duration { return 0 }

// policyBackOff - backoff.BackOff, отдающий паузы по BackoffFunc
type policyBackOff struct {
	fn      BackoffFunc
	attempt int
}

func (b *policyBackOff) NextBackOff() time.Duration {
	b.attempt++
	if b.fn == nil {
		return 0
	}
	return b.fn(b.attempt)
}

func (b *policyBackOff) Reset() {
	b.attempt = 0
}

// NewBackOff собирает backoff.BackOff для политики: MaxAttempts-1 повторов, остановка по ctx
func NewBackOff(ctx context.Context, p Policy) backoff.BackOff {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	b := backoff.WithMaxRetries(&policyBackOff{fn: p.Backoff}, uint64(attempts-1))
	return backoff.WithContext(b, ctx)
}

// Do вызывает fn до MaxAttempts раз, пока она не вернет nil.
// После последней попытки пауза не делается, ее ошибка возвращается как есть.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context, attempt int) error) error {
	return DoNotify(ctx, p, fn, nil)
}

// DoNotify - Do с хуком перед каждой паузой (метрики, логи)
func DoNotify(ctx context.Context, p Policy, fn func(ctx context.Context, attempt int) error, notify NotifyFunc) error {
	attempt := 0
	op := func() error {
		attempt++
		return fn(ctx, attempt)
	}

	var hook backoff.Notify
	if notify != nil {
		hook = func(err error, next time.Duration) {
			notify(err, attempt, next)
		}
	}

	return backoff.RetryNotify(op, NewBackOff(ctx, p), hook)
}

// Sleep ждет d или отмены контекста
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
