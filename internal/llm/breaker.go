package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// ErrUnavailable indica que el circuito esta abierto y no se llamo al proveedor.
var ErrUnavailable = errors.New("llm provider unavailable")

// BreakerClient corta las llamadas al proveedor tras fallos consecutivos.
type BreakerClient struct {
	inner LLMClient
	cb    *gobreaker.CircuitBreaker[string]
}

// NewBreakerClient abre el circuito despues de failures errores seguidos y lo
// deja medio abierto pasado cooldown.
func NewBreakerClient(inner LLMClient, logger *zap.Logger, failures uint32, cooldown time.Duration) *BreakerClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	if failures == 0 {
		failures = 5
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	settings := gobreaker.Settings{
		Name:        "llm",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// una cancelacion del cliente no cuenta como falla del proveedor
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("llm circuit state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
	return &BreakerClient{inner: inner, cb: gobreaker.NewCircuitBreaker[string](settings)}
}

func (c *BreakerClient) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := c.cb.Execute(func() (string, error) {
		return c.inner.Generate(ctx, prompt)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return out, err
}
