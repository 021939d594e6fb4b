package moderation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimespan(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{input: "90", want: 90 * time.Second},
		{input: "1.5", want: 1500 * time.Millisecond},
		{input: "10m", want: 10 * time.Minute},
		{input: "1h30m", want: 90 * time.Minute},
		{input: "2d", want: 48 * time.Hour},
		{input: "1w", want: 7 * 24 * time.Hour},
		{input: "2days", want: 48 * time.Hour},
		{input: "3 hours", want: 3 * time.Hour},
		{input: "5min", want: 5 * time.Minute},
		{input: " 1H ", want: time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimespan(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTimespanInvalid(t *testing.T) {
	for _, input := range []string{"", "soon", "10 parsecs", "h", "1x"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseTimespan(input)
			require.ErrorIs(t, err, ErrInvalidTimespan)
		})
	}
}
