package vectorstore

import "time"

// RetryPolicy maps a retry attempt number (1-based) to the delay waited
// before that attempt. Keeping the policy a pure function decouples the
// backoff schedule from any particular transport client.
type RetryPolicy func(attempt int) time.Duration

// ExponentialBackoff returns a policy that starts at initial and doubles
// on each subsequent attempt: initial, 2*initial, 4*initial, ...
func ExponentialBackoff(initial time.Duration) RetryPolicy {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		return initial << (attempt - 1)
	}
}
