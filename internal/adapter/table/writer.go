package table

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/heliophys/cme-kinematics/internal/aggregate"
	"github.com/heliophys/cme-kinematics/internal/domain"
)

// DirWriter persists derived series and cross-event tables as CSV files
// under a single output directory. The numeric content is the contractual
// output; rendering plots from it is someone else's concern.
type DirWriter struct {
	Dir string
}

// NewDirWriter creates a writer rooted at dir, creating it if needed.
func NewDirWriter(dir string) (*DirWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &DirWriter{Dir: dir}, nil
}

// WriteEvent writes one event's time series and its derived kinematic
// series:
//
//	<event>_series.csv      date, angular_width_deg, height_rs
//	<event>_kinematics.csv  date, speed_kms, expansion_rate_deg_per_rs
//
// Kinematic rows are keyed by the end of each differencing interval, so
// the file has one row fewer than the series file.
func (w *DirWriter) WriteEvent(series domain.EventSeries, speeds, rates []float64, sum domain.EventSummary) error {
	seriesRows := [][]string{{"date", "angular_width_deg", "height_rs"}}
	for _, s := range series.Samples {
		seriesRows = append(seriesRows, []string{
			s.Time.UTC().Format(time.RFC3339),
			formatFloat(s.AngularWidthDeg),
			formatFloat(s.HeightRs),
		})
	}
	if err := w.writeCSV(series.EventID+"_series.csv", seriesRows); err != nil {
		return err
	}

	kinRows := [][]string{{"date", "speed_kms", "expansion_rate_deg_per_rs"}}
	for i := range speeds {
		kinRows = append(kinRows, []string{
			series.Samples[i+1].Time.UTC().Format(time.RFC3339),
			formatFloat(speeds[i]),
			formatFloat(rates[i]),
		})
	}
	return w.writeCSV(series.EventID+"_kinematics.csv", kinRows)
}

// WriteCrossEvent writes the cross-event comparison series and the
// fit-of-fits parameters:
//
//	cross_events.csv  one row per event, sorted-identifier order
//	fit_of_fits.csv   single row of cross-event fit parameters
func (w *DirWriter) WriteCrossEvent(t *aggregate.Table) error {
	rows := [][]string{{
		"event_id", "mean_angular_width_deg", "mean_expansion_rate_deg_per_rs",
		"mean_speed_kms", "fit_slope_deg_per_rs", "fit_intercept_deg", "width_at_ref_deg",
	}}
	for i, id := range t.EventIDs {
		rows = append(rows, []string{
			id,
			formatFloat(t.MeanAngularWidthDeg[i]),
			formatFloat(t.MeanExpansionRate[i]),
			formatFloat(t.MeanSpeedKms[i]),
			formatFloat(t.FitSlopes[i]),
			formatFloat(t.FitIntercepts[i]),
			formatFloat(t.WidthAtRefDeg[i]),
		})
	}
	if err := w.writeCSV("cross_events.csv", rows); err != nil {
		return err
	}

	fitRows := [][]string{
		{"ref_height_rs", "global_slope", "global_intercept", "ref_slope", "ref_intercept"},
		{
			formatFloat(t.RefHeightRs),
			formatFloat(t.GlobalSlope),
			formatFloat(t.GlobalIntercept),
			formatFloat(t.RefSlope),
			formatFloat(t.RefIntercept),
		},
	}
	return w.writeCSV("fit_of_fits.csv", fitRows)
}

func (w *DirWriter) writeCSV(name string, rows [][]string) error {
	path := filepath.Join(w.Dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
