package domain

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// FitWidthHeight fits an ordinary-least-squares line
// angularWidth = slope*height + intercept across the full event series.
// Fewer than two samples, or samples with no spread in height, yield an
// *UnderdeterminedFitError.
func FitWidthHeight(s EventSeries) (slope, intercept float64, err error) {
	if len(s.Samples) < 2 {
		return 0, 0, &UnderdeterminedFitError{EventID: s.EventID, Points: len(s.Samples)}
	}

	heights := make([]float64, len(s.Samples))
	widths := make([]float64, len(s.Samples))
	for i, sm := range s.Samples {
		heights[i] = sm.HeightRs
		widths[i] = sm.AngularWidthDeg
	}

	intercept, slope = stat.LinearRegression(heights, widths, nil, false)
	if math.IsNaN(slope) || math.IsNaN(intercept) {
		return 0, 0, &UnderdeterminedFitError{EventID: s.EventID, Points: len(s.Samples)}
	}
	return slope, intercept, nil
}

// Summarize reduces an event series and its derived speed and
// expansion-rate series to an EventSummary: arithmetic means of each
// series plus the width-versus-height fit. An empty derived series is an
// *InsufficientDataError; the mean is never sentinel-filled.
func Summarize(s EventSeries, speeds, rates []float64) (EventSummary, error) {
	if len(s.Samples) == 0 {
		return EventSummary{}, &EmptyEventError{EventID: s.EventID}
	}
	if len(speeds) == 0 {
		return EventSummary{}, &InsufficientDataError{EventID: s.EventID, Quantity: "mean speed", Points: 0}
	}
	if len(rates) == 0 {
		return EventSummary{}, &InsufficientDataError{EventID: s.EventID, Quantity: "mean expansion rate", Points: 0}
	}

	slope, intercept, err := FitWidthHeight(s)
	if err != nil {
		return EventSummary{}, err
	}

	widths := make([]float64, len(s.Samples))
	for i, sm := range s.Samples {
		widths[i] = sm.AngularWidthDeg
	}

	return EventSummary{
		EventID:             s.EventID,
		Samples:             len(s.Samples),
		MeanAngularWidthDeg: stat.Mean(widths, nil),
		MeanExpansionRate:   stat.Mean(rates, nil),
		MeanSpeedKms:        stat.Mean(speeds, nil),
		FitSlope:            slope,
		FitIntercept:        intercept,
		ProcessedAt:         clock.Now(),
	}, nil
}
