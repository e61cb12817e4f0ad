package util

import (
	"os"
	"strconv"
	"strings"
)

func GetEnvironmentVariables() map[string]string {
	environmentVariables := map[string]string{}

	for _, variable := range os.Environ() {
		pair := strings.SplitN(variable, "=", 2)

		environmentVariables[pair[0]] = pair[1]
	}

	return environmentVariables
}

// EnvironmentString returns the variable or fallback when unset or empty
func EnvironmentString(env map[string]string, key string, fallback string) string {
	if value := env[key]; value != "" {
		return value
	}
	return fallback
}

func EnvironmentInt(env map[string]string, key string, fallback int) (int, error) {
	value := env[key]
	if value == "" {
		return fallback, nil
	}

	return strconv.Atoi(value)
}

func EnvironmentBool(env map[string]string, key string, fallback bool) bool {
	switch strings.ToUpper(env[key]) {
	case "YES", "TRUE", "1":
		return true
	case "NO", "FALSE", "0":
		return false
	default:
		return fallback
	}
}
