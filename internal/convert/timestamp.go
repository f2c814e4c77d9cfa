package convert

import (
	"log/slog"
	"regexp"
	"strings"
	"time"
)

// stampFormat renders "April 03, 2025 07:15PM"; am/pm is lowercased in the
// layout itself.
const stampFormat = "January 02, 2006 03:04pm"

var utcOffsetSuffix = regexp.MustCompile(`[+-]\d{2}:\d{2}$`)

var isoLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// NormalizeTimestamp turns a raw message timestamp into the display string
// the transcript format uses. Numbers are Unix epoch seconds rendered in
// local time; strings are parsed as ISO-8601 after some cleanup. It is total
// over every JSON value: anything unparseable becomes the empty string.
func NormalizeTimestamp(v any) string {
	switch ts := v.(type) {
	case float64:
		sec := int64(ts)
		nsec := int64((ts - float64(sec)) * float64(time.Second))
		return time.Unix(sec, nsec).Format(stampFormat)
	case int:
		return time.Unix(int64(ts), 0).Format(stampFormat)
	case int64:
		return time.Unix(ts, 0).Format(stampFormat)
	case string:
		if ts == "" {
			return ""
		}
		return normalizeStringTimestamp(ts)
	}
	return ""
}

func normalizeStringTimestamp(raw string) string {
	s := raw
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}

	// fromisoformat-style cleanup: ensure a fractional-seconds component,
	// inserted before the UTC offset when one is present.
	if !strings.Contains(s, ".") {
		if loc := utcOffsetSuffix.FindStringIndex(s); loc != nil {
			s = s[:loc[0]] + ".000000" + s[loc[0]:]
		} else {
			s += ".000000"
		}
	}

	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t.Format(stampFormat)
		}
	}

	slog.Debug("unparseable timestamp", "raw", raw)
	return ""
}
