package domain

import "fmt"

// MalformedCoordinateError reports a raw angle-list field that could not
// be decoded into three finite values. Fatal for the row only; the row is
// dropped and counted before geometry resolution.
type MalformedCoordinateError struct {
	Raw   string
	Cause error
}

func (e *MalformedCoordinateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed coordinate list %q: %v", e.Raw, e.Cause)
	}
	return fmt.Sprintf("malformed coordinate list %q", e.Raw)
}

func (e *MalformedCoordinateError) Unwrap() error { return e.Cause }

// GeometryError reports an upstream invariant violation in geometry or
// differencing input (non-physical dsun, out-of-range width, non-increasing
// timestamps). Fatal for the event: it implies corrupted data.
type GeometryError struct {
	Reason string
}

func (e *GeometryError) Error() string {
	return "geometry: " + e.Reason
}

// EmptyEventError reports an event with zero usable rows after filtering.
type EmptyEventError struct {
	EventID string
}

func (e *EmptyEventError) Error() string {
	return fmt.Sprintf("event %s: no usable observations", e.EventID)
}

// InsufficientDataError reports a derived quantity that cannot be computed
// from the points available. The event is excluded from aggregation rather
// than zero-filled.
type InsufficientDataError struct {
	EventID  string
	Quantity string
	Points   int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("event %s: insufficient data for %s: %d point(s)",
		e.EventID, e.Quantity, e.Points)
}

// UnderdeterminedFitError reports a linear fit attempted on fewer than two
// points, or on points with no spread in the independent variable.
type UnderdeterminedFitError struct {
	EventID string
	Points  int
}

func (e *UnderdeterminedFitError) Error() string {
	if e.EventID == "" {
		return fmt.Sprintf("underdetermined fit: %d point(s)", e.Points)
	}
	return fmt.Sprintf("event %s: underdetermined fit: %d point(s)", e.EventID, e.Points)
}
