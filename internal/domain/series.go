package domain

import (
	"fmt"
	"sort"
	"time"
)

// usableRow is an observation that survived filtering and parsing,
// awaiting geometry resolution.
type usableRow struct {
	time  time.Time
	lon   AngleTriple
	lat   AngleTriple
	dsunM float64
}

// BuildEventSeries turns one event's point table into a time-ordered
// series of resolved samples.
//
// Rows with empty angle lists are dropped first (skipped observations),
// then rows with malformed lists or unparseable filename timestamps; all
// drops are counted by reason in the returned Exclusions. Remaining rows
// are stable-sorted ascending by timestamp (ties keep file order) and
// resolved through ResolveGeometry. A geometry failure aborts the event.
// Zero usable rows yields an *EmptyEventError, propagated rather than
// silently skipped so cross-event alignment stays intact.
func BuildEventSeries(table PointTable) (EventSeries, Exclusions, error) {
	var excl Exclusions
	rows := make([]usableRow, 0, len(table.Records))

	for _, rec := range table.Records {
		if IsEmptyAngleList(rec.LatRaw) || IsEmptyAngleList(rec.LonRaw) {
			excl.EmptyAngleList++
			continue
		}

		ts, err := ParseFileTimestamp(rec.File)
		if err != nil {
			excl.BadTimestamp++
			continue
		}

		lon, err := ParseAngleTriple(rec.LonRaw)
		if err != nil {
			excl.Malformed++
			continue
		}
		lat, err := ParseAngleTriple(rec.LatRaw)
		if err != nil {
			excl.Malformed++
			continue
		}

		rows = append(rows, usableRow{time: ts, lon: lon, lat: lat, dsunM: rec.DsunM})
	}

	if len(rows) == 0 {
		return EventSeries{}, excl, &EmptyEventError{EventID: table.EventID}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].time.Before(rows[j].time)
	})

	series := EventSeries{
		EventID: table.EventID,
		Samples: make([]Sample, len(rows)),
	}
	for i, r := range rows {
		aw, h, err := ResolveGeometry(r.lon, r.lat, r.dsunM)
		if err != nil {
			return EventSeries{}, excl, fmt.Errorf("event %s at %s: %w",
				table.EventID, r.time.Format(time.RFC3339), err)
		}
		series.Samples[i] = Sample{Time: r.time, AngularWidthDeg: aw, HeightRs: h}
	}
	return series, excl, nil
}
