package lookup

import (
	"context"
	"fmt"
	"time"

	"github.com/agentstation/modelsync/pkg/errors"
)

// Timeout wraps a gateway so each check is bounded by d. A check that runs
// out of time fails with an error matching errors.ErrTimeout. A
// non-positive d returns next unchanged.
func Timeout(next Gateway, d time.Duration) Gateway {
	if d <= 0 {
		return next
	}
	return GatewayFunc(func(ctx context.Context, kind Kind, id string) (*Reference, error) {
		bounded, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		ref, err := next.CheckExists(bounded, kind, id)
		if err != nil && ctx.Err() == nil && errors.Is(bounded.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s: %w", errors.ErrTimeout, d, err)
		}
		return ref, err
	})
}
