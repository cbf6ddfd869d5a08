package deploy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redfroggy/stackdeploy/internal/config"
	"github.com/redfroggy/stackdeploy/internal/constants"
	"github.com/redfroggy/stackdeploy/internal/logging"
)

// Settler waits between deleting a stack and creating its replacement.
// stackURL is empty when nothing was deleted.
type Settler interface {
	Settle(ctx context.Context, stackURL string) error
}

// StateReader reports the remote state of a stack.
type StateReader interface {
	StackState(ctx context.Context, stackURL string) (state string, gone bool, err error)
}

// FixedDelay blocks for Delay. An interrupted wait is logged and is not an error.
// A nil Logger discards output.
type FixedDelay struct {
	Delay  time.Duration
	Logger *slog.Logger
}

func (f FixedDelay) Settle(ctx context.Context, _ string) error {
	if f.Delay <= 0 {
		return nil
	}
	logger := orDiscard(f.Logger)
	logger.Debug("Waiting for the remote side to settle", "delay", f.Delay)

	timer := time.NewTimer(f.Delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		logger.Warn("Settle delay interrupted, continuing", "error", ctx.Err())
	}
	return nil
}

// Poller waits until a deleted stack is reported gone, backing off exponentially.
// It falls back to Fallback when there is no stack to watch or removal is not confirmed
// within MaxElapsed.
type Poller struct {
	States          StateReader
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsed      time.Duration
	Fallback        Settler
	Logger          *slog.Logger
}

var errStackPresent = errors.New("stack still present")

func (p *Poller) Settle(ctx context.Context, stackURL string) error {
	if stackURL == "" {
		return p.Fallback.Settle(ctx, stackURL)
	}

	logger := orDiscard(p.Logger)
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	b.MaxElapsedTime = p.MaxElapsed

	attempts := 0
	operation := func() error {
		attempts++
		state, gone, err := p.States.StackState(ctx, stackURL)
		if err != nil {
			logger.Debug("Stack state lookup failed", "url", stackURL, "error", err)
			return err
		}
		if gone {
			return nil
		}
		logger.Debug("Stack not removed yet", "url", stackURL, "state", state)
		return fmt.Errorf("%w: %s", errStackPresent, state)
	}

	err := backoff.Retry(operation, backoff.WithContext(b, ctx))
	if err == nil {
		logger.Info("Stack removal confirmed", "attempts", attempts)
		return nil
	}
	if ctx.Err() != nil {
		logger.Warn("Settle polling interrupted, continuing", "error", ctx.Err())
		return nil
	}
	logger.Warn("Stack removal not confirmed, falling back to fixed delay", "attempts", attempts, "error", err)
	return p.Fallback.Settle(ctx, stackURL)
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return logging.Discard()
	}
	return logger
}

// NewSettler builds the settler selected by the settle config.
func NewSettler(cfg config.SettleConfig, states StateReader, logger *slog.Logger) Settler {
	fixed := FixedDelay{Delay: cfg.Delay, Logger: logger}
	if cfg.Mode != constants.SettleModePoll {
		return fixed
	}
	return &Poller{
		States:          states,
		InitialInterval: DefaultPollInitialInterval,
		MaxInterval:     DefaultPollMaxInterval,
		MaxElapsed:      cfg.Timeout,
		Fallback:        fixed,
		Logger:          logger,
	}
}
