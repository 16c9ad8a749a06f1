package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// timestampLayout matches the 15-character date-time token embedded in
// image filenames, e.g. "20220317T032015".
const timestampLayout = "20060102T150405"

// IsEmptyAngleList reports whether a raw angle-list field denotes a
// skipped observation: a blank cell or brackets with nothing between them.
func IsEmptyAngleList(raw string) bool {
	inner, ok := bracketContents(raw)
	if !ok {
		return strings.TrimSpace(raw) == ""
	}
	return strings.TrimSpace(inner) == ""
}

// ParseAngleTriple decodes a raw angle-list field into the (edge, center,
// edge) triple. The field is a flattened string, not a native structure;
// the decoder takes the substring between the first '[' and the following
// ']' and splits it on commas, which absorbs both the plain and the
// stringified serialization variants the digitization tool has produced.
// Fields with fewer than three values, or any non-finite value, fail with
// a *MalformedCoordinateError. Values beyond the third are ignored.
func ParseAngleTriple(raw string) (AngleTriple, error) {
	var triple AngleTriple

	inner, ok := bracketContents(raw)
	if !ok {
		inner = raw
	}
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return triple, &MalformedCoordinateError{Raw: raw, Cause: fmt.Errorf("empty list")}
	}

	parts := strings.Split(inner, ",")
	if len(parts) < 3 {
		return triple, &MalformedCoordinateError{
			Raw:   raw,
			Cause: fmt.Errorf("need 3 values, got %d", len(parts)),
		}
	}

	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return triple, &MalformedCoordinateError{Raw: raw, Cause: err}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return triple, &MalformedCoordinateError{
				Raw:   raw,
				Cause: fmt.Errorf("non-finite value %q", parts[i]),
			}
		}
		triple[i] = v
	}
	return triple, nil
}

// bracketContents returns the substring between the first '[' and the
// next ']' after it.
func bracketContents(raw string) (string, bool) {
	open := strings.IndexByte(raw, '[')
	if open < 0 {
		return "", false
	}
	closing := strings.IndexByte(raw[open+1:], ']')
	if closing < 0 {
		return "", false
	}
	return raw[open+1 : open+1+closing], true
}

// ParseFileTimestamp extracts the observation time from an image filename.
// The time is the first 15 characters of the second-to-last underscore
// segment, read as YYYYMMDDTHHMMSS in UTC. Sub-second digits in the
// segment are ignored.
func ParseFileTimestamp(file string) (time.Time, error) {
	parts := strings.Split(file, "_")
	if len(parts) < 2 {
		return time.Time{}, fmt.Errorf("filename %q: no timestamp segment", file)
	}
	token := parts[len(parts)-2]
	if len(token) < len(timestampLayout) {
		return time.Time{}, fmt.Errorf("filename %q: timestamp segment %q too short", file, token)
	}
	ts, err := time.Parse(timestampLayout, token[:len(timestampLayout)])
	if err != nil {
		return time.Time{}, fmt.Errorf("filename %q: %w", file, err)
	}
	return ts, nil
}
