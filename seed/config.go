package seed

import (
	"fmt"
	"runtime"
	"time"
)

// Config holds configuration for a seeding run.
type Config struct {
	// PoolSize is the number of concurrent embedding workers
	PoolSize int

	// RatePerSecond caps embedding requests per second; 0 means unlimited
	RatePerSecond float64

	// BatchSize is the number of points written per upsert request
	BatchSize int

	// ReportInterval is how often to report progress (number of artifacts)
	ReportInterval int

	// MaxRetries is the maximum number of attempts per embedding request
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// Recreate drops and rebuilds the collection instead of seeding incrementally
	Recreate bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	return &Config{
		PoolSize:       poolSize,
		RatePerSecond:  5,
		BatchSize:      64,
		ReportInterval: 1,
		MaxRetries:     3,
		RetryDelay:     time.Second,
	}
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	switch {
	case c.PoolSize < 1:
		return fmt.Errorf("%w: pool size must be at least 1, got %d", ErrInvalidConfig, c.PoolSize)
	case c.RatePerSecond < 0:
		return fmt.Errorf("%w: rate must not be negative, got %g", ErrInvalidConfig, c.RatePerSecond)
	case c.BatchSize < 1:
		return fmt.Errorf("%w: batch size must be at least 1, got %d", ErrInvalidConfig, c.BatchSize)
	case c.MaxRetries < 1:
		return fmt.Errorf("%w: max retries must be at least 1, got %d", ErrInvalidConfig, c.MaxRetries)
	case c.RetryDelay < 0:
		return fmt.Errorf("%w: retry delay must not be negative, got %v", ErrInvalidConfig, c.RetryDelay)
	}
	return nil
}
