package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/dustin/go-humanize"
)

// FormatCompact abbreviates large counts: 1500 -> "1.5K", 2300000 -> "2.3M".
// Values below 1000 are printed as is.
func FormatCompact(n int64) string {
	switch {
	case n >= 1_000_000:
		return strconv.FormatFloat(float64(n)/1_000_000, 'f', 1, 64) + "M"
	case n >= 1_000:
		return strconv.FormatFloat(float64(n)/1_000, 'f', 1, 64) + "K"
	default:
		return strconv.FormatInt(n, 10)
	}
}

// FormatCount prints a count with thousands separators.
func FormatCount(n int64) string {
	return humanize.Comma(n)
}

var fileSizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatFileSize formats a byte count with 1024-based units and at most two
// decimals: "0 Bytes", "1.5 KB", "3 MB".
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	i := 0
	for i < len(fileSizeUnits)-1 && bytes >= int64(1)<<(10*(i+1)) {
		i++
	}
	v := float64(bytes) / math.Pow(1024, float64(i))
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	return s + " " + fileSizeUnits[i]
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatDateTime renders an ISO timestamp as "02/01/2006 15:04". Values
// that do not parse are returned unchanged.
func FormatDateTime(ts string) string {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return "—"
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.Format("02/01/2006 15:04")
		}
	}
	return ts
}

// MaskID keeps only the digits of s.
func MaskID(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// MaskURL prefixes https:// when s is non-empty and does not start with http.
func MaskURL(s string) string {
	if s != "" && !strings.HasPrefix(s, "http") {
		return "https://" + s
	}
	return s
}

// Field is a named form value checked by MissingRequired.
type Field struct {
	Name     string
	Value    string
	Required bool
}

// MissingRequired returns the names of required fields that are blank.
func MissingRequired(fields []Field) []string {
	var missing []string
	for _, f := range fields {
		if f.Required && strings.TrimSpace(f.Value) == "" {
			missing = append(missing, f.Name)
		}
	}
	return missing
}

// ValidationMessage joins missing field names into a single error line.
func ValidationMessage(missing []string) string {
	if len(missing) == 0 {
		return ""
	}
	return fmt.Sprintf("required: %s", strings.Join(missing, ", "))
}

// TruncateString truncates a string to maxLen and adds "..." if needed.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
