package exporter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{0, "0"},
		{13.4, "13.4"},
		{-2.5, "-2.5"},
		{1000000, "1000000"},
		{0.001, "0.001"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatFloat(tt.input))
	}
}

func TestFormatInt(t *testing.T) {
	assert.Equal(t, "0", formatInt(0))
	assert.Equal(t, "-42", formatInt(-42))
	assert.Equal(t, "9223372036854775807", formatInt(1<<63-1))
}

func TestFormatBool(t *testing.T) {
	assert.Equal(t, "true", formatBool(true))
	assert.Equal(t, "false", formatBool(false))
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{
			name:  "midnight utc",
			input: time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC),
			want:  "2020-05-01",
		},
		{
			name:  "time of day stripped",
			input: time.Date(2020, 5, 1, 18, 30, 45, 0, time.UTC),
			want:  "2020-05-01",
		},
		{
			name:  "zone converted to utc first",
			input: time.Date(2020, 5, 1, 23, 0, 0, 0, time.FixedZone("east", 2*3600)),
			want:  "2020-05-01",
		},
		{
			name:  "zone pushes date forward",
			input: time.Date(2020, 5, 1, 23, 0, 0, 0, time.FixedZone("west", -2*3600)),
			want:  "2020-05-02",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDate(tt.input))
		})
	}
}
