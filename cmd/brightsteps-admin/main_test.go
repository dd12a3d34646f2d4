package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsLikelyRemoteHost(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"localhost", false},
		{"127.0.0.1", false},
		{"::1", false},
		{"db.internal.local", false},
		{"", false},
		{"10.12.0.4", true},
		{"db.prod.example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			require.Equal(t, tt.want, isLikelyRemoteHost(tt.host))
		})
	}
}

func TestParseCreateAdminFlagsRequiresIdentity(t *testing.T) {
	_, err := parseCreateAdminFlags([]string{"--name", "Pat"})
	require.ErrorContains(t, err, "--email is required")

	_, err = parseCreateAdminFlags([]string{"--email", "pat@example.com"})
	require.ErrorContains(t, err, "--name is required")

	opts, err := parseCreateAdminFlags([]string{
		"--email", "pat@example.com",
		"--name", "Pat",
		"--password", "long-enough-password",
	})
	require.NoError(t, err)
	require.Equal(t, "super_admin", opts.Role)
}

func TestParseDBResetFlagsRejectsZeroTimeout(t *testing.T) {
	_, err := parseDBResetFlags([]string{"--timeout", "0s"})
	require.ErrorContains(t, err, "--timeout must be greater than zero")
}
