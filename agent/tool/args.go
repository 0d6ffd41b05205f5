package tool

import (
	"fmt"
	"strings"

	contractx "github.com/apexproperties/concierge/agent/contract"
)

// Argument readers for model-produced JSON objects. encoding/json decodes
// every number as float64, so the numeric readers accept that and coerce.

func stringArg(args map[string]any, key string) (string, bool, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return "", false, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", false, fmt.Errorf("%w: %s must be a string", contractx.ErrValidation, key)
	}
	return strings.TrimSpace(s), true, nil
}

func numberArg(args map[string]any, key string) (float64, bool, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case float64:
		return v, true, nil
	case int:
		return float64(v), true, nil
	case int64:
		return float64(v), true, nil
	default:
		return 0, false, fmt.Errorf("%w: %s must be a number", contractx.ErrValidation, key)
	}
}

func intArg(args map[string]any, key string) (int, bool, error) {
	v, ok, err := numberArg(args, key)
	if err != nil || !ok {
		return 0, ok, err
	}
	return int(v), true, nil
}

func boolArg(args map[string]any, key string) (bool, bool, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return false, false, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return false, false, fmt.Errorf("%w: %s must be a boolean", contractx.ErrValidation, key)
	}
	return b, true, nil
}

func requireString(args map[string]any, key string) (string, error) {
	s, ok, err := stringArg(args, key)
	if err != nil {
		return "", err
	}
	if !ok || s == "" {
		return "", fmt.Errorf("%w: %s is required", contractx.ErrValidation, key)
	}
	return s, nil
}

func requireNumber(args map[string]any, key string) (float64, error) {
	v, ok, err := numberArg(args, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: %s is required", contractx.ErrValidation, key)
	}
	return v, nil
}
