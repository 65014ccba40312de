package timestamp

import (
	"time"

	"emperror.dev/errors"
)

// Layout is the YYYYMMDDhhmmss form used on the command line. Times are UTC.
const Layout = "20060102150405"

var ErrFormat = errors.NewPlain("time must be 14 digits in the form YYYYMMDDhhmmss")

// OnlyDigits reports whether s is non-empty and made only of ASCII digits.
func OnlyDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Parse converts a YYYYMMDDhhmmss UTC string to Unix seconds.
func Parse(s string) (int64, error) {
	if len(s) != len(Layout) || !OnlyDigits(s) {
		return 0, errors.WithDetails(ErrFormat, "value", s)
	}
	t, err := time.ParseInLocation(Layout, s, time.UTC)
	if err != nil {
		return 0, errors.WrapWithDetails(err, "could not parse time", "value", s)
	}
	return t.Unix(), nil
}

// Format renders Unix seconds in the command-line layout.
func Format(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(Layout)
}
