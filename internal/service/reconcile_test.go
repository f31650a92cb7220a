package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDiscrepancy(t *testing.T) {
	tests := []struct {
		name     string
		actual   string
		expected string
		want     string
	}{
		{"exact count", "1250.00", "1250.00", "0"},
		{"shortage", "1240.00", "1250.00", "-10.00"},
		{"surplus", "1255.50", "1250.00", "5.50"},
		{"zero expected", "12.00", "0", "12.00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Discrepancy(
				decimal.RequireFromString(tc.actual),
				decimal.RequireFromString(tc.expected),
			)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
				"got %s, want %s", got, tc.want)
		})
	}
}
