package solver

import (
	"context"
	"errors"
)

var (
	ErrInvalidBudget = errors.New("time limit must be positive")
	ErrTimeout       = errors.New("ran out of time")
	ErrNoAttack      = errors.New("no attack selected")
)

// expired reports why ctx is done, if it is. A passed deadline is a
// timeout; any other cancellation is passed through.
func expired(ctx context.Context) error {
	switch err := ctx.Err(); {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	default:
		return err
	}
}
