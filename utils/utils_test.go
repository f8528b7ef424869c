package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatCurrencyINR(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "₹0"},
		{450, "₹450"},
		{1250.5, "₹1,250.50"},
		{1234567.5, "₹12,34,567.50"},
		{-3, "₹0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCurrencyINR(tt.in))
	}
}

func TestNewIDIsUniqueWithinAMillisecond(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	a, b := NewID(now), NewID(now)

	assert.NotEqual(t, a, b)
	assert.Regexp(t, regexp.MustCompile(`^1700000000000-[0-9a-f]{8}$`), a)
}

func TestBatchID(t *testing.T) {
	ts := time.UnixMilli(1700000000000)
	a, b := BatchPrefix(ts), BatchPrefix(ts)

	assert.NotEqual(t, a, b)
	assert.Regexp(t, regexp.MustCompile(`^1700000000000[0-9a-f]{6}$`), a)
	assert.Equal(t, a+"-3", BatchID(a, 3))
}
