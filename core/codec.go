package core

import (
	"encoding/json"
	"time"
)

// TimestampLayout is how fecha_alta is stored. The fixed-width fraction keeps
// lexical order equal to chronological order for the text column.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// SerializeTags encodes tags as a JSON array. Nil and empty both become "[]".
func SerializeTags(tags []string) (string, error) {
	if len(tags) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", ErrDecode("failed to encode etiquetas", err)
	}
	return string(b), nil
}

// DeserializeTags decodes a stored tag column. An empty column yields an empty slice.
func DeserializeTags(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, ErrDecode("failed to decode etiquetas", err)
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp reads a zone-less ISO-8601 timestamp (taken as UTC) or an RFC 3339 one.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.UTC)
	if err == nil {
		return t, nil
	}
	t, rfcErr := time.Parse(time.RFC3339Nano, s)
	if rfcErr == nil {
		return t.UTC(), nil
	}
	return time.Time{}, ErrFormat("invalid fecha_alta "+s, err)
}

// NormalizeMinDate rewrites a parseable ISO-8601 timestamp into the stored layout so
// text comparison against fecha_alta is chronological. Other input passes through.
func NormalizeMinDate(s string) string {
	if s == "" {
		return ""
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		return s
	}
	return FormatTimestamp(t)
}

// Now returns the current UTC time at the precision fecha_alta is stored with.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
