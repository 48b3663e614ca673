package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

func New() map[string]string {
	environ := os.Environ()
	envAsMap := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry != "" {
			key, value := split(entry)
			envAsMap[key] = value
		}
	}
	return envAsMap
}

// assumes entry is not the empty string
func split(entry string) (key, value string) {
	parts := strings.SplitN(entry, "=", 2)
	if len(parts) < 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func GetString(config map[string]string, key string, defaultValue string) string {
	if config == nil {
		return defaultValue
	}

	if val, ok := config[key]; ok && val != "" {
		return val
	}
	return defaultValue
}

func GetInt(config map[string]string, key string, defaultValue int) int {
	if config == nil {
		return defaultValue
	}

	s, ok := config[key]
	if !ok {
		return defaultValue
	}

	asInt, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return defaultValue
	}

	return asInt
}

func GetBool(config map[string]string, key string, defaultValue bool) bool {
	if config == nil {
		return defaultValue
	}

	s, ok := config[key]
	if !ok {
		return defaultValue
	}

	asBool, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return defaultValue
	}

	return asBool
}

// GetList splits a comma-separated value, dropping blank entries.
func GetList(config map[string]string, key string, defaultValue []string) []string {
	raw := GetString(config, key, "")
	if raw == "" {
		return defaultValue
	}

	var values []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}

// GetMinutes reads an integer number of minutes as a duration.
func GetMinutes(config map[string]string, key string, defaultValue int) time.Duration {
	return time.Duration(GetInt(config, key, defaultValue)) * time.Minute
}
