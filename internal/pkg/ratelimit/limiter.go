// Package ratelimit - общий token bucket для всех запросов к внешнему API.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// MinQPS - нижняя граница темпа: не реже одного запроса в 2 секунды
const MinQPS = 0.5

// Limiter разделяется всеми воркерами одного обхода.
// Один токен на запрос, емкость ведра 1, поэтому всплесков нет.
type Limiter struct {
	limiter *rate.Limiter
	qps     float64
}

func New(qps float64) *Limiter {
	if qps < MinQPS {
		qps = MinQPS
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(qps), 1),
		qps:     qps,
	}
}

// Wait блокируется до получения токена либо до отмены ctx
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

func (l *Limiter) QPS() float64 {
	return l.qps
}
