package moderation

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/xhit/go-str2duration/v2"
)

// MaxMuteDuration is the longest timeout the platform accepts.
const MaxMuteDuration = 28 * 24 * time.Hour

// ErrInvalidTimespan is returned when a duration text cannot be parsed.
var ErrInvalidTimespan = errors.New("invalid timespan")

var (
	bareNumber = regexp.MustCompile(`^\d+(\.\d+)?$`)
	unitWord   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*([a-z]+)`)
)

var unitAliases = map[string]string{
	"ms": "ms", "millisecond": "ms", "milliseconds": "ms",
	"s": "s", "sec": "s", "secs": "s", "second": "s", "seconds": "s",
	"m": "m", "min": "m", "mins": "m", "minute": "m", "minutes": "m",
	"h": "h", "hr": "h", "hrs": "h", "hour": "h", "hours": "h",
	"d": "d", "day": "d", "days": "d",
	"w": "w", "wk": "w", "week": "w", "weeks": "w",
}

// ParseTimespan converts text such as "90", "10m", "1h30m", "2days" or "1.5 hours" to a duration.
// A bare number is read as seconds.
func ParseTimespan(text string) (time.Duration, error) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return 0, ErrInvalidTimespan
	}

	if bareNumber.MatchString(normalized) {
		normalized += "s"
	}

	var unknown bool

	normalized = unitWord.ReplaceAllStringFunc(normalized, func(part string) string {
		match := unitWord.FindStringSubmatch(part)

		unit, ok := unitAliases[match[2]]
		if !ok {
			unknown = true
			return part
		}

		return match[1] + unit
	})
	if unknown {
		return 0, ErrInvalidTimespan
	}

	duration, err := str2duration.ParseDuration(strings.ReplaceAll(normalized, " ", ""))
	if err != nil {
		return 0, errors.Join(ErrInvalidTimespan, err)
	}

	return duration, nil
}

// FormatTimespan renders a duration with day and week units.
func FormatTimespan(d time.Duration) string {
	return str2duration.String(d)
}
