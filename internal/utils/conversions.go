package utils

// StringSlice converts a JSON decoded claim value into strings. A single
// string becomes a one element slice and non-string elements are dropped.
func StringSlice(v any) []string {
	switch value := v.(type) {
	case string:
		if value == "" {
			return nil
		}
		return []string{value}
	case []string:
		return value
	case []any:
		stringSlice := make([]string, 0, len(value))
		for _, item := range value {
			if s, ok := item.(string); ok && s != "" {
				stringSlice = append(stringSlice, s)
			}
		}
		return stringSlice
	}
	return nil
}
