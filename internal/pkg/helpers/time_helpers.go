package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration parses a duration string, returning defaultDuration when the
// value is empty, malformed or not positive.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	if durationStr == "" {
		return defaultDuration
	}
	duration, err := time.ParseDuration(durationStr)
	if err != nil || duration <= 0 {
		// Global logger, the configured one may not exist yet
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Invalid duration string, using default")
		return defaultDuration
	}
	return duration
}
