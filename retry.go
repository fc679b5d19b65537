package sqlchain

import (
	"context"

	"github.com/cenkalti/backoff/v4"
)

// retryConnect runs connect (a ConnectionProvider.Open call) with bounded
// exponential backoff, per spec.md §5(b): "a bounded retry loop (maxRetries,
// retryInterval) for the connect operation."
func retryConnect(ctx context.Context, policy RetryPolicy, connect func(context.Context) (Connection, error)) (Connection, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = policy.RetryInterval
	if bo.InitialInterval <= 0 {
		bo.InitialInterval = backoff.DefaultInitialInterval
	}
	attempts := policy.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	bounded := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(attempts-1)), ctx)

	var conn Connection
	op := func() error {
		c, err := connect(ctx)
		if err != nil {
			return err
		}
		conn = c
		return nil
	}
	if err := backoff.Retry(op, bounded); err != nil {
		return nil, err
	}
	return conn, nil
}
