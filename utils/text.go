package utils

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var intRegexp = regexp.MustCompile(`\d[\d,]*`)

// monoNames are the exterior/interior color names bucketed as "mono".
var monoNames = []string{"black", "white", "gray", "grey", "silver"}

// ParseInt extracts the first integer from free text ("$32,500" → 32500).
// Returns nil when no digits are found.
func ParseInt(s string) *int {
	m := intRegexp.FindString(s)
	if m == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m, ",", ""))
	if err != nil {
		return nil
	}
	return &n
}

// RoundUp1k renders n rounded up to the nearest thousand as "NNk"
// (45000 → "45k", 45001 → "46k").
func RoundUp1k(n int) string {
	k := int(math.Ceil(float64(n) / 1000.0))
	s := fmt.Sprintf("%dk", k)
	if s == "1000k" {
		return "1,000k"
	}
	return s
}

// IsMono reports whether a color name falls in the monochrome bucket.
// Absent names bucket as mono so they never earn a color bonus.
func IsMono(name string) bool {
	if name == "" {
		return true
	}
	n := strings.ToLower(name)
	for _, m := range monoNames {
		if strings.Contains(n, m) {
			return true
		}
	}
	return false
}

// MileageBand buckets mileage for baseline grouping.
func MileageBand(m *int) string {
	if m == nil {
		return "unknown"
	}
	switch {
	case *m <= 39999:
		return "0-39999"
	case *m <= 59999:
		return "40000-59999"
	case *m <= 79999:
		return "60000-79999"
	case *m <= 99999:
		return "80000-99999"
	default:
		return "100000+"
	}
}
