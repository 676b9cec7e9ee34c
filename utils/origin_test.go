package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOriginHost(t *testing.T) {
	tests := []struct {
		name     string
		origin   string
		expected string
		hasError bool
	}{
		{name: "https origin", origin: "https://example.com", expected: "example.com"},
		{name: "port is kept", origin: "http://localhost:3000", expected: "localhost:3000"},
		{name: "path is dropped", origin: "https://example.com/path", expected: "example.com"},
		{name: "empty origin", origin: "", expected: ""},
		{name: "invalid origin", origin: "://invalid", hasError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, err := OriginHost(tt.origin)
			if tt.hasError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, host)
		})
	}
}

func TestOriginAllowed(t *testing.T) {
	tests := []struct {
		name     string
		origin   string
		allowed  []string
		expected bool
	}{
		{"wildcard", "https://anything.io", []string{"*"}, true},
		{"exact host", "https://tokenworld.app", []string{"tokenworld.app"}, true},
		{"entry given as origin", "http://localhost:5173", []string{"http://localhost:5173"}, true},
		{"subdomain", "https://staging.tokenworld.app", []string{"tokenworld.app"}, true},
		{"www is ignored", "https://www.tokenworld.app", []string{"tokenworld.app"}, true},
		{"case insensitive", "https://TOKENWORLD.app", []string{"tokenworld.app"}, true},
		{"suffix is not a subdomain", "https://eviltokenworld.app", []string{"tokenworld.app"}, false},
		{"other host", "https://other.com", []string{"tokenworld.app"}, false},
		{"no origin", "", []string{"tokenworld.app"}, false},
		{"nothing allowed", "https://tokenworld.app", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, OriginAllowed(tt.origin, tt.allowed))
		})
	}
}
