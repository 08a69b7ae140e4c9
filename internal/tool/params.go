package tool

// getString extracts a string parameter, returning "" if absent.
func getString(params map[string]any, key string) string {
	v, _ := params[key].(string)
	return v
}

// getInt extracts a numeric parameter. JSON numbers decode as float64.
func getInt(params map[string]any, key string, fallback int) int {
	switch v := params[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	default:
		return fallback
	}
}
