package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaisaDisplay(t *testing.T) {
	tests := []struct {
		amount   Paisa
		expected string
	}{
		{0, "৳0.00"},
		{5000, "৳50.00"},
		{35000, "৳350.00"},
		{125050, "৳1,250.50"},
		{100000000, "৳1,000,000.00"},
		{-35000, "-৳350.00"},
		{5, "৳0.05"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.amount.Display())
	}
}

func TestPaisaTaka(t *testing.T) {
	assert.Equal(t, 350.0, Paisa(35000).Taka())
	assert.Equal(t, 0.5, Paisa(50).Taka())
}
