package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heliophys/cme-kinematics/internal/aggregate"
	"github.com/heliophys/cme-kinematics/internal/domain"
)

// EventReport records one event's outcome: how many raw rows it had, how
// many were usable, what was excluded and why, and the failure when the
// event produced no summary.
type EventReport struct {
	EventID  string
	Rows     int
	Samples  int
	Excluded domain.Exclusions
	Err      error
}

// RunReport is the user-visible outcome of a batch run.
type RunReport struct {
	RunID       string
	GeneratedAt time.Time

	Events []EventReport
	Failed []string // event ids with no summary, in processing order

	CrossEvent    *aggregate.Table // nil when the cross-event step failed
	CrossEventErr error
	PublishErr    error
}

func newRunReport() *RunReport {
	return &RunReport{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
	}
}

func (r *RunReport) addEvent(id string, rows, samples int, excl domain.Exclusions) {
	r.Events = append(r.Events, EventReport{
		EventID: id, Rows: rows, Samples: samples, Excluded: excl,
	})
}

func (r *RunReport) addFailure(id string, rows int, excl domain.Exclusions, err error) {
	r.Events = append(r.Events, EventReport{
		EventID: id, Rows: rows, Excluded: excl, Err: err,
	})
	r.Failed = append(r.Failed, id)
}

// Render formats the report for terminal output: per-event row accounting
// with exclusion reasons, failed events, and the cross-event outcome.
func (r *RunReport) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s at %s\n", r.RunID, r.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Events: %d (%d failed)\n\n", len(r.Events), len(r.Failed))

	for _, ev := range r.Events {
		if ev.Err != nil {
			fmt.Fprintf(&b, "  %-8s FAILED  %d rows, excluded %d (%s): %v\n",
				ev.EventID, ev.Rows, ev.Excluded.Total(), exclusionDetail(ev.Excluded), ev.Err)
			continue
		}
		fmt.Fprintf(&b, "  %-8s ok      %d rows, %d samples, excluded %d (%s)\n",
			ev.EventID, ev.Rows, ev.Samples, ev.Excluded.Total(), exclusionDetail(ev.Excluded))
	}

	b.WriteString("\n")
	switch {
	case r.CrossEvent != nil:
		fmt.Fprintf(&b, "Cross-event: %d events, reference height %.3f Rs, "+
			"global fit m=%.4f b=%.4f, width-at-ref fit m=%.4f b=%.4f\n",
			r.CrossEvent.Events(), r.CrossEvent.RefHeightRs,
			r.CrossEvent.GlobalSlope, r.CrossEvent.GlobalIntercept,
			r.CrossEvent.RefSlope, r.CrossEvent.RefIntercept)
	case r.CrossEventErr != nil:
		fmt.Fprintf(&b, "Cross-event: skipped: %v\n", r.CrossEventErr)
	}
	if r.PublishErr != nil {
		fmt.Fprintf(&b, "Publish: failed: %v\n", r.PublishErr)
	}
	return b.String()
}

func exclusionDetail(e domain.Exclusions) string {
	return fmt.Sprintf("empty=%d malformed=%d bad_ts=%d",
		e.EmptyAngleList, e.Malformed, e.BadTimestamp)
}
