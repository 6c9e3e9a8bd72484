package shared

import "time"

// ParseDate accepts RFC3339 or YYYY-MM-DD.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}

// ParsePeriod accepts YYYY-MM and returns the first instant of that month.
func ParsePeriod(value string) (time.Time, error) {
	return time.Parse("2006-01", value)
}
