package retry

import (
	"fmt"
	"time"
)

// BackoffStrategy определяет стратегию задержки между попытками
type BackoffStrategy string

const (
	// BackoffConstant - постоянная задержка
	BackoffConstant BackoffStrategy = "constant"
	// BackoffLinear - линейное увеличение задержки
	BackoffLinear BackoffStrategy = "linear"
	// BackoffExponential - экспоненциальное увеличение задержки
	BackoffExponential BackoffStrategy = "exponential"
)

// Config - параметры повторных попыток подключения к БД.
// Задержки в YAML задаются строкой time.ParseDuration ("500ms", "2s").
type Config struct {
	// MaxAttempts - количество попыток, включая первую. 1 = без повторов
	MaxAttempts int `yaml:"max_attempts"`

	InitialDelay time.Duration `yaml:"initial_delay"`
	MaxDelay     time.Duration `yaml:"max_delay"`

	Strategy BackoffStrategy `yaml:"strategy"`

	// Jitter - доля случайного отклонения задержки (0.0 - 1.0)
	Jitter float64 `yaml:"jitter"`

	// OnRetry вызывается перед каждой повторной попыткой
	OnRetry func(attempt int, err error, delay time.Duration) `yaml:"-"`
}

// DefaultConfig возвращает конфигурацию по умолчанию: 3 попытки с экспоненциальной задержкой
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Strategy:     BackoffExponential,
		Jitter:       0.1,
	}
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be >= 1, got %d", c.MaxAttempts)
	}

	if c.InitialDelay < 0 {
		return fmt.Errorf("initial_delay must be >= 0")
	}

	if c.MaxDelay < c.InitialDelay {
		return fmt.Errorf("max_delay (%v) must be >= initial_delay (%v)", c.MaxDelay, c.InitialDelay)
	}

	switch c.Strategy {
	case BackoffConstant, BackoffLinear, BackoffExponential:
	case "":
		c.Strategy = BackoffExponential
	default:
		return fmt.Errorf("invalid backoff strategy: %s", c.Strategy)
	}

	if c.Jitter < 0 || c.Jitter > 1.0 {
		return fmt.Errorf("jitter must be between 0.0 and 1.0, got %f", c.Jitter)
	}

	return nil
}
