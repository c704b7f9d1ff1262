package cmd

import (
	"fmt"
	"strconv"
	"strings"
)

// joinInt32 renders fingerprint values as a comma separated list.
func joinInt32(values []int32) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatInt(int64(v), 10)
	}
	return strings.Join(parts, ",")
}

// parseInt32List parses a comma separated list of fingerprint values.
func parseInt32List(s string) ([]int32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []int32{}, nil
	}
	parts := strings.Split(s, ",")
	values := make([]int32, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid fingerprint value '%s': %v", p, err)
		}
		values[i] = int32(v)
	}
	return values, nil
}
