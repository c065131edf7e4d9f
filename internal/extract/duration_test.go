package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"PT30M", 30 * time.Minute, true},
		{"PT1H30M", 90 * time.Minute, true},
		{"pt2h", 2 * time.Hour, true},
		{"P1DT2H", 26 * time.Hour, true},
		{"PT0.5H", 30 * time.Minute, true},
		{"30 minutes", 30 * time.Minute, true},
		{"1 hour 15 mins", 75 * time.Minute, true},
		{"2 hrs", 2 * time.Hour, true},
		{"", 0, false},
		{"P", 0, false},
		{"PT", 0, false},
		{"overnight", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseDuration(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestLeadingInt(t *testing.T) {
	n, ok := leadingInt("Makes 12 cookies")
	assert.True(t, ok)
	assert.Equal(t, 12, n)

	_, ok = leadingInt("a few")
	assert.False(t, ok)
}
