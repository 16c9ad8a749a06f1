package domain

import "time"

// SolarRadiusM is the solar radius in meters, the reference radius for
// all height values.
const SolarRadiusM = 6.957e8

// ObservationRecord is one row of a digitized point table: a single image
// with three clicked points encoded as bracketed arcsecond lists.
// Produced by the digitization tool; read-only to this package.
type ObservationRecord struct {
	File   string
	LonRaw string
	LatRaw string
	DsunM  float64
}

// PointTable holds all observation records for one tracked event.
type PointTable struct {
	EventID string
	Path    string
	Records []ObservationRecord
}

// AngleTriple is a decoded (leading edge, center, trailing edge) angle
// list in arcseconds.
type AngleTriple [3]float64

// Sample is one resolved observation: a timestamp with the derived
// angular width and height.
type Sample struct {
	Time            time.Time
	AngularWidthDeg float64
	HeightRs        float64
}

// EventSeries is the time-ordered sequence of resolved samples for one
// event. Timestamps ascend after BuildEventSeries; ties keep the original
// file order.
type EventSeries struct {
	EventID string
	Samples []Sample
}

// EventSummary reduces one event to representative scalars and the
// angular-width-versus-height linear fit.
type EventSummary struct {
	EventID             string    `json:"event_id"`
	Samples             int       `json:"samples"`
	MeanAngularWidthDeg float64   `json:"mean_angular_width_deg"`
	MeanExpansionRate   float64   `json:"mean_expansion_rate_deg_per_rs"`
	MeanSpeedKms        float64   `json:"mean_speed_kms"`
	FitSlope            float64   `json:"fit_slope_deg_per_rs"`
	FitIntercept        float64   `json:"fit_intercept_deg"`
	ProcessedAt         time.Time `json:"processed_at"`
}

// Exclusions counts rows dropped while building an event series, by reason.
type Exclusions struct {
	EmptyAngleList int
	Malformed      int
	BadTimestamp   int
}

// Total returns the number of dropped rows across all reasons.
func (e Exclusions) Total() int {
	return e.EmptyAngleList + e.Malformed + e.BadTimestamp
}
