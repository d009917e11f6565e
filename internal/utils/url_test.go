package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTransactionSessionUrl(t *testing.T) {
	tests := []struct {
		name        string
		baseUrl     string
		serverPort  int
		sessionId   string
		expected    string
		expectError bool
	}{
		{
			name:       "without base url",
			serverPort: 9000,
			sessionId:  "session-456",
			expected:   "http://localhost:9000/tx/session-456",
		},
		{
			name:       "with base url",
			baseUrl:    "https://api.example.com",
			serverPort: 8080,
			sessionId:  "test-session-123",
			expected:   "https://api.example.com/tx/test-session-123",
		},
		{
			name:       "base url with path prefix and trailing slash",
			baseUrl:    "https://example.com/launchpad/",
			serverPort: 8080,
			sessionId:  "abc",
			expected:   "https://example.com/launchpad/tx/abc",
		},
		{
			name:        "base url without scheme",
			baseUrl:     "api.example.com",
			serverPort:  8080,
			sessionId:   "abc",
			expectError: true,
		},
		{
			name:        "unparseable base url",
			baseUrl:     "http://[::1",
			serverPort:  8080,
			sessionId:   "abc",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, err := GetTransactionSessionUrl(tt.baseUrl, tt.serverPort, tt.sessionId)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, url)
		})
	}
}
