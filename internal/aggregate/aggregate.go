// Package aggregate collects per-event summaries into ordered cross-event
// series and derives the fit-of-fits comparison quantities.
package aggregate

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/heliophys/cme-kinematics/internal/domain"
)

// Table holds cross-event comparison series as parallel slices aligned by
// index. Insertion order is the caller's (the pipeline adds summaries in
// ascending sorted event-identifier order), so output is deterministic for
// a given set of input tables.
type Table struct {
	EventIDs            []string
	MeanAngularWidthDeg []float64
	MeanExpansionRate   []float64
	MeanSpeedKms        []float64
	FitSlopes           []float64
	FitIntercepts       []float64

	// Filled by Finalize.
	WidthAtRefDeg   []float64
	RefHeightRs     float64
	GlobalSlope     float64
	GlobalIntercept float64
	RefSlope        float64
	RefIntercept    float64
}

// New returns an empty cross-event table.
func New() *Table {
	return &Table{}
}

// Add appends one event's summary to every parallel series.
func (t *Table) Add(s domain.EventSummary) {
	t.EventIDs = append(t.EventIDs, s.EventID)
	t.MeanAngularWidthDeg = append(t.MeanAngularWidthDeg, s.MeanAngularWidthDeg)
	t.MeanExpansionRate = append(t.MeanExpansionRate, s.MeanExpansionRate)
	t.MeanSpeedKms = append(t.MeanSpeedKms, s.MeanSpeedKms)
	t.FitSlopes = append(t.FitSlopes, s.FitSlope)
	t.FitIntercepts = append(t.FitIntercepts, s.FitIntercept)
}

// Events returns the number of events added so far.
func (t *Table) Events() int {
	return len(t.EventIDs)
}

// Finalize runs the two-stage fit-of-fits over the collected per-event fit
// parameters. Stage one regresses intercept on slope across events; the
// magnitude of that global slope, plus one, becomes the reference height
// h0. Stage two evaluates each event's own fitted width at h0 and
// regresses those values on the per-event slopes, testing whether events
// with steeper angular expansion also differ systematically in width at a
// common height. The two fits are sequential and separate.
//
// Requires at least two events; fewer is an *UnderdeterminedFitError.
func (t *Table) Finalize() error {
	n := len(t.EventIDs)
	if n < 2 {
		return &domain.UnderdeterminedFitError{Points: n}
	}

	t.GlobalIntercept, t.GlobalSlope = stat.LinearRegression(t.FitSlopes, t.FitIntercepts, nil, false)
	if math.IsNaN(t.GlobalSlope) || math.IsNaN(t.GlobalIntercept) {
		return &domain.UnderdeterminedFitError{Points: n}
	}

	t.RefHeightRs = math.Abs(t.GlobalSlope) + 1

	t.WidthAtRefDeg = make([]float64, n)
	for i := range t.WidthAtRefDeg {
		t.WidthAtRefDeg[i] = t.FitSlopes[i]*t.RefHeightRs + t.FitIntercepts[i]
	}

	t.RefIntercept, t.RefSlope = stat.LinearRegression(t.FitSlopes, t.WidthAtRefDeg, nil, false)
	if math.IsNaN(t.RefSlope) || math.IsNaN(t.RefIntercept) {
		return &domain.UnderdeterminedFitError{Points: n}
	}
	return nil
}
