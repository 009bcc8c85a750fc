package main

import (
	"os"
	"strconv"
)

// DigestConfig holds daemon-specific configuration
type DigestConfig struct {
	ConfigPath     string // Path to courtside config YAML
	ScheduleHour   int    // Hour in timezone (default: 9 for 9 AM)
	ScheduleMinute int    // Minute (default: 0)
	Timezone       string // Timezone (default: America/Los_Angeles)
	RunOnStartup   bool   // Send on startup if today's digest was missed
}

// LoadDigestConfig loads configuration from environment variables
func LoadDigestConfig() *DigestConfig {
	return &DigestConfig{
		ConfigPath:     getEnvOrDefault("DIGEST_CONFIG_PATH", ""),
		ScheduleHour:   getEnvIntOrDefault("DIGEST_SCHEDULE_HOUR", 9),
		ScheduleMinute: getEnvIntOrDefault("DIGEST_SCHEDULE_MINUTE", 0),
		Timezone:       getEnvOrDefault("DIGEST_TIMEZONE", "America/Los_Angeles"),
		RunOnStartup:   getEnvBoolOrDefault("DIGEST_RUN_ON_STARTUP", true),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
