package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var kinT0 = time.Date(2022, 3, 17, 3, 0, 0, 0, time.UTC)

// workedSeries is the reference example: three samples 600s apart with
// heights 1.0, 1.2, 1.5 Rs and widths 10, 12, 15 deg.
func workedSeries() EventSeries {
	return EventSeries{
		EventID: "id01",
		Samples: []Sample{
			{Time: kinT0, AngularWidthDeg: 10, HeightRs: 1.0},
			{Time: kinT0.Add(600 * time.Second), AngularWidthDeg: 12, HeightRs: 1.2},
			{Time: kinT0.Add(1200 * time.Second), AngularWidthDeg: 15, HeightRs: 1.5},
		},
	}
}

func TestSpeedSeries(t *testing.T) {
	t.Run("worked example", func(t *testing.T) {
		speeds, err := SpeedSeries(workedSeries())
		require.NoError(t, err)
		require.Len(t, speeds, 2)

		rsKm := SolarRadiusM / 1000
		assert.InDelta(t, 0.2*rsKm/600, speeds[0], 1e-6)
		assert.InDelta(t, 0.3*rsKm/600, speeds[1], 1e-6)
	})

	t.Run("constant growth rate round-trip", func(t *testing.T) {
		// Height growing at exactly 250 km/s over uniform 300s steps.
		const vKms = 250.0
		const dt = 300.0
		dhRs := vKms * 1000 * dt / SolarRadiusM

		s := EventSeries{EventID: "id01"}
		for i := 0; i < 6; i++ {
			s.Samples = append(s.Samples, Sample{
				Time:     kinT0.Add(time.Duration(i) * 300 * time.Second),
				HeightRs: 1 + float64(i)*dhRs,
			})
		}

		speeds, err := SpeedSeries(s)
		require.NoError(t, err)
		require.Len(t, speeds, len(s.Samples)-1)
		for _, v := range speeds {
			assert.InDelta(t, vKms, v, 1e-6)
		}
	})

	t.Run("sub-second spacing truncates to whole seconds", func(t *testing.T) {
		s := EventSeries{
			EventID: "id01",
			Samples: []Sample{
				{Time: kinT0, HeightRs: 1.0},
				{Time: kinT0.Add(600*time.Second + 900*time.Millisecond), HeightRs: 1.2},
			},
		}
		speeds, err := SpeedSeries(s)
		require.NoError(t, err)
		assert.InDelta(t, 0.2*SolarRadiusM/1000/600, speeds[0], 1e-6)
	})

	t.Run("fewer than two samples", func(t *testing.T) {
		s := EventSeries{EventID: "id01", Samples: []Sample{{Time: kinT0, HeightRs: 1}}}
		_, err := SpeedSeries(s)
		var ide *InsufficientDataError
		require.ErrorAs(t, err, &ide)
		assert.Equal(t, "speed", ide.Quantity)
	})

	t.Run("duplicate timestamps", func(t *testing.T) {
		s := EventSeries{
			EventID: "id01",
			Samples: []Sample{
				{Time: kinT0, HeightRs: 1.0},
				{Time: kinT0, HeightRs: 1.2},
			},
		}
		_, err := SpeedSeries(s)
		var ge *GeometryError
		require.ErrorAs(t, err, &ge)
	})
}

func TestExpansionRateSeries(t *testing.T) {
	t.Run("worked example", func(t *testing.T) {
		rates, err := ExpansionRateSeries(workedSeries())
		require.NoError(t, err)
		require.Len(t, rates, 2)
		assert.InDelta(t, 10, rates[0], 1e-9)
		assert.InDelta(t, 10, rates[1], 1e-9)
	})

	t.Run("fewer than two samples", func(t *testing.T) {
		s := EventSeries{EventID: "id01"}
		_, err := ExpansionRateSeries(s)
		var ide *InsufficientDataError
		require.ErrorAs(t, err, &ide)
	})

	t.Run("repeated height", func(t *testing.T) {
		s := EventSeries{
			EventID: "id01",
			Samples: []Sample{
				{Time: kinT0, AngularWidthDeg: 10, HeightRs: 1.0},
				{Time: kinT0.Add(time.Minute), AngularWidthDeg: 12, HeightRs: 1.0},
			},
		}
		_, err := ExpansionRateSeries(s)
		var ge *GeometryError
		require.ErrorAs(t, err, &ge)
	})
}
