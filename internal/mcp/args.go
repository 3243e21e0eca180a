package mcp

import (
	"fmt"
	"math"
)

// parseStringArg extracts a string argument from an MCP arguments map.
// Returns an error if the argument is required but missing or invalid.
func parseStringArg(argsMap map[string]interface{}, key string, required bool) (string, error) {
	val, ok := argsMap[key]
	if !ok {
		if required {
			return "", fmt.Errorf("%s parameter is required", key)
		}
		return "", nil
	}

	str, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}

	if required && str == "" {
		return "", fmt.Errorf("%s cannot be empty", key)
	}

	return str, nil
}

// parsePositionArg extracts a required 1-based line or column number.
// MCP sends numbers as float64, so fractional values are rejected.
func parsePositionArg(argsMap map[string]interface{}, key string) (int, error) {
	val, ok := argsMap[key]
	if !ok {
		return 0, fmt.Errorf("%s parameter is required", key)
	}

	f, ok := val.(float64)
	if !ok {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%s must be an integer, got %v", key, f)
	}
	if f < 1 {
		return 0, fmt.Errorf("%s must be at least 1, got %v", key, f)
	}

	return int(f), nil
}

// parseBoolArg extracts a boolean argument from an MCP arguments map.
// Returns defaultVal if the argument is missing or invalid.
func parseBoolArg(argsMap map[string]interface{}, key string, defaultVal bool) bool {
	val, ok := argsMap[key]
	if !ok {
		return defaultVal
	}

	if b, ok := val.(bool); ok {
		return b
	}

	return defaultVal
}
