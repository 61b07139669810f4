package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DurationOrDefault parses value as a duration, using defaultValue when
// value is blank. Blank inputs on both sides are an error, not zero.
func DurationOrDefault(value, defaultValue string) (time.Duration, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		s = strings.TrimSpace(defaultValue)
	}
	if s == "" {
		return 0, errors.New("no duration given")
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return d, nil
}
