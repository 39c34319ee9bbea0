package job

import "time"

// Config is the store's singleton configuration record.
//
// It is created with defaults on first store open, read by each
// worker iteration, and mutated only through an explicit administrative
// set operation.
type Config struct {
	MaxRetries         int           `json:"max_retries"`
	BackoffBase        int           `json:"backoff_base"`
	WorkerPollInterval time.Duration `json:"worker_poll_interval"`
	JobTimeout         time.Duration `json:"job_timeout"`
}

// DefaultConfig returns the configuration defaults specified for a
// freshly initialized store.
func DefaultConfig() Config {
	return Config{
		MaxRetries:         3,
		BackoffBase:        2,
		WorkerPollInterval: time.Second,
		JobTimeout:         300 * time.Second,
	}
}
