package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetTempRootDefault(t *testing.T) {
	t.Setenv("TEMP_DIR", "")
	root := GetTempRoot()
	assert.Equal(t, "tubeclip", filepath.Base(root))
}

func TestGetTempRootOverride(t *testing.T) {
	t.Setenv("TEMP_DIR", "/var/lib/tubeclip/work")
	assert.Equal(t, "/var/lib/tubeclip/work", GetTempRoot())
}

func TestGetBitrate(t *testing.T) {
	t.Setenv("MP3_BITRATE", "")
	assert.Equal(t, "192k", GetBitrate())

	t.Setenv("MP3_BITRATE", "320k")
	assert.Equal(t, "320k", GetBitrate())
}

func TestTimeoutDefaults(t *testing.T) {
	t.Setenv("RESOLVE_TIMEOUT", "")
	t.Setenv("ENCODE_TIMEOUT", "")
	assert.Equal(t, 5*time.Minute, GetResolveTimeout())
	assert.Equal(t, 10*time.Minute, GetEncodeTimeout())
}

func TestTimeoutOverrides(t *testing.T) {
	t.Setenv("RESOLVE_TIMEOUT", "30")
	t.Setenv("ENCODE_TIMEOUT", "120")
	assert.Equal(t, 30*time.Second, GetResolveTimeout())
	assert.Equal(t, 2*time.Minute, GetEncodeTimeout())
}

func TestTimeoutIgnoresGarbage(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"not a number", "soon"},
		{"negative", "-5"},
		{"zero", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("RESOLVE_TIMEOUT", tt.value)
			assert.Equal(t, 5*time.Minute, GetResolveTimeout())
		})
	}
}
