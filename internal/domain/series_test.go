package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fsiFile builds an image filename embedding the given timestamp token.
func fsiFile(token string) string {
	return "solo_L2_eui-fsi304-image_" + token + "123_V01.fits"
}

func record(token, lonRaw, latRaw string) ObservationRecord {
	return ObservationRecord{
		File:   fsiFile(token),
		LonRaw: lonRaw,
		LatRaw: latRaw,
		DsunM:  testDsunM,
	}
}

func TestBuildEventSeries(t *testing.T) {
	t.Run("filters sorts and resolves", func(t *testing.T) {
		table := PointTable{
			EventID: "id01",
			Records: []ObservationRecord{
				// Out of time order on purpose.
				record("20220317T040000", "[10, 20, 0]", "[0, 0, 10]"),
				record("20220317T030000", "[10, 20, 10]", "[0, 0, 0.001]"),
				// Skipped observation.
				record("20220317T033000", "[]", "[]"),
				// Malformed longitude list.
				record("20220317T034500", "[1, 2]", "[1, 2, 3]"),
				// No parseable timestamp.
				{File: "broken.fits", LonRaw: "[1, 2, 3]", LatRaw: "[1, 2, 3]", DsunM: testDsunM},
			},
		}

		series, excl, err := BuildEventSeries(table)
		require.NoError(t, err)

		assert.Equal(t, "id01", series.EventID)
		require.Len(t, series.Samples, 2)
		assert.True(t, series.Samples[0].Time.Before(series.Samples[1].Time))
		assert.Equal(t, time.Date(2022, 3, 17, 3, 0, 0, 0, time.UTC), series.Samples[0].Time)

		assert.Equal(t, 1, excl.EmptyAngleList)
		assert.Equal(t, 1, excl.Malformed)
		assert.Equal(t, 1, excl.BadTimestamp)
		assert.Equal(t, 3, excl.Total())
	})

	t.Run("empty list rows never reach geometry", func(t *testing.T) {
		// A row with empty lists and a dsun that would make geometry fail.
		table := PointTable{
			EventID: "id02",
			Records: []ObservationRecord{
				{File: fsiFile("20220317T030000"), LonRaw: "[]", LatRaw: "[]", DsunM: -1},
				record("20220317T040000", "[1, 2, 3]", "[1, 2, 3]"),
			},
		}

		series, excl, err := BuildEventSeries(table)
		require.NoError(t, err)
		assert.Len(t, series.Samples, 1)
		assert.Equal(t, 1, excl.EmptyAngleList)
	})

	t.Run("no usable rows", func(t *testing.T) {
		table := PointTable{
			EventID: "id03",
			Records: []ObservationRecord{
				record("20220317T030000", "[]", "[]"),
				record("20220317T040000", "[ ]", "[ ]"),
			},
		}

		_, excl, err := BuildEventSeries(table)
		var ee *EmptyEventError
		require.ErrorAs(t, err, &ee)
		assert.Equal(t, "id03", ee.EventID)
		assert.Equal(t, 2, excl.EmptyAngleList)
	})

	t.Run("geometry failure aborts the event", func(t *testing.T) {
		table := PointTable{
			EventID: "id04",
			Records: []ObservationRecord{
				{File: fsiFile("20220317T030000"), LonRaw: "[1, 2, 3]", LatRaw: "[1, 2, 3]", DsunM: 0},
			},
		}

		_, _, err := BuildEventSeries(table)
		var ge *GeometryError
		require.ErrorAs(t, err, &ge)
	})

	t.Run("timestamp ties keep file order", func(t *testing.T) {
		table := PointTable{
			EventID: "id05",
			Records: []ObservationRecord{
				record("20220317T030000", "[0, 5, 1]", "[1, 0, 1]"),
				record("20220317T030000", "[0, 7, 1]", "[1, 0, 1]"),
			},
		}

		series, _, err := BuildEventSeries(table)
		require.NoError(t, err)
		require.Len(t, series.Samples, 2)
		// The first record has the smaller center radius, so it keeps slot 0.
		assert.Less(t, series.Samples[0].HeightRs, series.Samples[1].HeightRs)
	})
}
