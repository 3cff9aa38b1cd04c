package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Env captures the environment the service cares about at startup.
var Env = map[string]string{
	"SERVER_PORT":     os.Getenv("SERVER_PORT"),
	"CORS_ORIGINS":    os.Getenv("CORS_ORIGINS"),
	"TEMP_DIR":        os.Getenv("TEMP_DIR"),
	"MP3_BITRATE":     os.Getenv("MP3_BITRATE"),
	"RESOLVE_TIMEOUT": os.Getenv("RESOLVE_TIMEOUT"),
	"ENCODE_TIMEOUT":  os.Getenv("ENCODE_TIMEOUT"),
}

// GetTempRoot returns the directory under which per-request workspaces are
// created. Each request gets its own uuid-named subdirectory.
func GetTempRoot() string {
	if dir := os.Getenv("TEMP_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(os.TempDir(), "tubeclip")
}

// GetBitrate returns the target MP3 bitrate passed to the encoder.
func GetBitrate() string {
	if b := os.Getenv("MP3_BITRATE"); b != "" {
		return b
	}
	return "192k"
}

// GetResolveTimeout bounds the upstream fetch performed by the resolver.
func GetResolveTimeout() time.Duration {
	return secondsEnv("RESOLVE_TIMEOUT", 5*time.Minute)
}

// GetEncodeTimeout bounds a single transcode pass.
func GetEncodeTimeout() time.Duration {
	return secondsEnv("ENCODE_TIMEOUT", 10*time.Minute)
}

func secondsEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		return fallback
	}
	return time.Duration(secs) * time.Second
}
