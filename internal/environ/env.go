package environ

import (
	"os"
	"slices"
	"strings"
	"time"

	"k8s.io/kube-openapi/pkg/validation/strfmt"
)

// GetString returns the value of key, or fallback when it is unset.
func GetString(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetBool accepts true/false, 1/0 and yes/no. Anything else yields fallback.
func GetBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return fallback
}

// GetDuration parses values such as "2s", "5m" or "1d".
func GetDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := strfmt.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

// GetOneOf returns the value of key if it is one of allowed, fallback otherwise.
func GetOneOf(key, fallback string, allowed ...string) string {
	if value, ok := os.LookupEnv(key); ok && slices.Contains(allowed, value) {
		return value
	}
	return fallback
}
