package deploy

import "time"

const (
	// Backoff bounds for the polling settler. The overall limit comes from settle.timeout.
	DefaultPollInitialInterval = 500 * time.Millisecond
	DefaultPollMaxInterval     = 5 * time.Second
)
