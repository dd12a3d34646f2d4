package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMode_UnmarshalText(t *testing.T) {
	tests := []struct {
		input   string
		want    AuthMode
		wantErr bool
	}{
		{"password", AuthModePassword, false},
		{"PASSWORD", AuthModePassword, false},
		{"hosted", AuthModeHosted, false},
		{"mock", AuthModeMock, false},
		{"oauth", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var mode AuthMode
			err := mode.UnmarshalText([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, mode)
		})
	}
}

func TestHTTPConfig_Sanitize_ClampsCompressionLevel(t *testing.T) {
	cfg := HTTPConfig{CompressionLevel: 0}
	cfg.Sanitize()
	assert.Equal(t, 1, cfg.CompressionLevel)

	cfg = HTTPConfig{CompressionLevel: 42}
	cfg.Sanitize()
	assert.Equal(t, 9, cfg.CompressionLevel)

	cfg = HTTPConfig{CompressionLevel: 6}
	cfg.Sanitize()
	assert.Equal(t, 6, cfg.CompressionLevel)
}

func TestAuthConfig_Sanitize_DefaultsSessionDuration(t *testing.T) {
	cfg := AuthConfig{}
	cfg.Sanitize()
	assert.Equal(t, 8*time.Hour, cfg.SessionDuration)

	cfg = AuthConfig{SessionDuration: time.Hour}
	cfg.Sanitize()
	assert.Equal(t, time.Hour, cfg.SessionDuration)
}
