package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// permanentError помечает ошибку, после которой повторять бессмысленно
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent оборачивает ошибку так, что Do прекращает попытки сразу.
// Используется для ошибок конфигурации: неизвестный тип БД, неверный DSN.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent сообщает, помечена ли ошибка как Permanent
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// Retryer выполняет функцию с повторными попытками
type Retryer struct {
	config Config
}

// NewRetryer создает Retryer с проверенной конфигурацией
func NewRetryer(config Config) (*Retryer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid retry config: %w", err)
	}
	return &Retryer{config: config}, nil
}

// Do вызывает fn до успеха, Permanent ошибки, исчерпания попыток или отмены ctx
func (r *Retryer) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}

		var p *permanentError
		if errors.As(err, &p) {
			return p.err
		}

		if attempt >= r.config.MaxAttempts {
			if r.config.MaxAttempts == 1 {
				return err
			}
			return fmt.Errorf("max retry attempts (%d) exceeded: %w", r.config.MaxAttempts, err)
		}

		delay := r.delay(attempt)
		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("context cancelled during retry: %w", ctx.Err())
		}
	}
}

// delay вычисляет задержку после попытки attempt (нумерация с 1)
func (r *Retryer) delay(attempt int) time.Duration {
	d := r.config.InitialDelay

	switch r.config.Strategy {
	case BackoffLinear:
		d *= time.Duration(attempt)
	case BackoffExponential:
		for i := 1; i < attempt && d < r.config.MaxDelay; i++ {
			d *= 2
		}
	}

	if d > r.config.MaxDelay {
		d = r.config.MaxDelay
	}

	if r.config.Jitter > 0 {
		d += time.Duration(float64(d) * r.config.Jitter * (rand.Float64()*2 - 1))
		if d < 0 {
			d = r.config.InitialDelay
		}
	}
	return d
}
