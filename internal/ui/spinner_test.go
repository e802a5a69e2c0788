package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSpinner_Disabled(t *testing.T) {
	sp := NewSpinner("Running autopep8...", false)
	assert.False(t, sp.Enabled())

	assert.NotPanics(t, func() {
		sp.Start()
		sp.Stop()
	})
}

func TestSuffix(t *testing.T) {
	tests := []struct {
		name    string
		message string
		width   int
		want    string
	}{
		{"unknown width", "Running autopep8 on 3 files...", 0, " Running autopep8 on 3 files..."},
		{"fits", "Running", 40, " Running"},
		{"truncated", "Running autopep8 on 3 files...", 14, " Running ..."},
		{"too narrow", "Running", 4, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, suffix(tt.message, tt.width))
		})
	}
}
