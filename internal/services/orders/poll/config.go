package poll

import "eidclient/internal/platform/config"

// FromConfig reads the polling policy under c
func FromConfig(c config.Conf) Config {
	return Config{
		Interval:    c.MayDuration("POLL_INTERVAL", DefaultInterval),
		MaxAttempts: c.MayInt("POLL_MAX_ATTEMPTS", DefaultMaxAttempts),
		RPS:         c.MayFloat64("POLL_RPS", 0),
	}
}
