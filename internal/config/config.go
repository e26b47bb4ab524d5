// Package config resolves the endpoint configuration shared by every command.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// FallbackBaseURL is used when no API URL is configured.
	FallbackBaseURL = "https://mulberry-backend-enx1.onrender.com"

	// DefaultTimeout bounds every request to the inference service.
	DefaultTimeout = 10 * time.Second

	// KeyAPIURL is the viper key for the base URL. With the MULBERRY env
	// prefix it maps to MULBERRY_API_URL.
	KeyAPIURL = "api.url"

	EnvPrefix = "MULBERRY"
)

// Bind enables environment lookups on v (MULBERRY_API_URL and friends).
func Bind(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// ResolveBaseURL returns the configured base URL, or FallbackBaseURL when it
// is unset or blank.
func ResolveBaseURL(v *viper.Viper) string {
	if v == nil {
		return FallbackBaseURL
	}
	u := strings.TrimSpace(v.GetString(KeyAPIURL))
	if u == "" {
		return FallbackBaseURL
	}
	return u
}
