package console

import (
	"strconv"
	"strings"
	"time"
)

// ParseAmount reads a price or discount field leniently. Blank or
// non-numeric input yields nil, meaning "use the platform default". A
// leading numeric prefix is accepted, so "12.5abc" reads as 12.5.
func ParseAmount(s string) *float64 {
	s = strings.TrimSpace(s)
	end := numericPrefix(s)
	if end == 0 {
		return nil
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return nil
	}
	return &v
}

// numericPrefix returns the length of the longest leading decimal number.
func numericPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits > 0 || frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		exp := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			exp++
		}
		if exp > 0 {
			i = j
		}
	}
	return i
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// FormatAmount renders an optional amount for an edit form.
func FormatAmount(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// ExportFilename names a CSV export: <entity>-export-<YYYY-MM-DD>.csv in UTC.
func ExportFilename(entity string, now time.Time) string {
	return entity + "-export-" + now.UTC().Format("2006-01-02") + ".csv"
}
