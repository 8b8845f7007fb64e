package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileToken(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Jane Doe", "Jane"},
		{"  Jane   Doe ", "Jane"},
		{"Jane", "Jane"},
		{"", "customer"},
		{"   ", "customer"},
		{"../etc/passwd", "etcpasswd"},
		{"O'Brien Smith", "OBrien"},
		{"Ravi_K-2 x", "Ravi_K-2"},
		{"***", "customer"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, FileToken(tt.input, "customer"))
		})
	}
}

func TestNewUUIDIsUnique(t *testing.T) {
	assert.NotEqual(t, NewUUID(), NewUUID())
}
