package tools

import (
	"fmt"
	"math"
	"time"
)

func floatParam(params map[string]interface{}, key string) (float64, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return 0, invalid(fmt.Errorf("%s: обязательный параметр", key))
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0, invalid(fmt.Errorf("%s: ожидается число", key))
	}
}

func optFloatParam(params map[string]interface{}, key string, def float64) (float64, error) {
	if v, ok := params[key]; !ok || v == nil {
		return def, nil
	}
	return floatParam(params, key)
}

func intParam(params map[string]interface{}, key string) (int, error) {
	f, err := floatParam(params, key)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, invalid(fmt.Errorf("%s: ожидается целое число", key))
	}
	return int(f), nil
}

func optIntParam(params map[string]interface{}, key string, def int) (int, error) {
	if v, ok := params[key]; !ok || v == nil {
		return def, nil
	}
	return intParam(params, key)
}

func stringParam(params map[string]interface{}, key string) (string, error) {
	s, err := optStringParam(params, key)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", invalid(fmt.Errorf("%s: обязательный параметр", key))
	}
	return s, nil
}

func optStringParam(params map[string]interface{}, key string) (string, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", invalid(fmt.Errorf("%s: ожидается строка", key))
	}
	return s, nil
}

func optBoolParam(params map[string]interface{}, key string) (bool, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, invalid(fmt.Errorf("%s: ожидается true/false", key))
	}
	return b, nil
}

// timeParam принимает RFC 3339 или дату YYYY-MM-DD
func timeParam(params map[string]interface{}, key string, def time.Time) (time.Time, error) {
	s, err := optStringParam(params, key)
	if err != nil {
		return time.Time{}, err
	}
	if s == "" {
		return def, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, invalid(fmt.Errorf("%s: ожидается дата RFC 3339 или YYYY-MM-DD", key))
}

func hasAny(params map[string]interface{}, keys ...string) bool {
	for _, k := range keys {
		if v, ok := params[k]; ok && v != nil {
			return true
		}
	}
	return false
}
