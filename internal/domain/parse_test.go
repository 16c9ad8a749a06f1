package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAngleTriple(t *testing.T) {
	t.Run("plain bracketed list", func(t *testing.T) {
		triple, err := ParseAngleTriple("[512.1, 300.4, -88.0]")
		require.NoError(t, err)
		assert.Equal(t, AngleTriple{512.1, 300.4, -88.0}, triple)
	})

	t.Run("stringified list with extra quoting", func(t *testing.T) {
		triple, err := ParseAngleTriple(`"[512.1,300.4,-88.0]"`)
		require.NoError(t, err)
		assert.Equal(t, AngleTriple{512.1, 300.4, -88.0}, triple)
	})

	t.Run("extraneous whitespace", func(t *testing.T) {
		triple, err := ParseAngleTriple("[  1.5 ,\t2.5 , 3.5  ]")
		require.NoError(t, err)
		assert.Equal(t, AngleTriple{1.5, 2.5, 3.5}, triple)
	})

	t.Run("extra values beyond the third are ignored", func(t *testing.T) {
		triple, err := ParseAngleTriple("[1, 2, 3, 4]")
		require.NoError(t, err)
		assert.Equal(t, AngleTriple{1, 2, 3}, triple)
	})

	t.Run("too few values", func(t *testing.T) {
		_, err := ParseAngleTriple("[1.0, 2.0]")
		var mce *MalformedCoordinateError
		require.ErrorAs(t, err, &mce)
		assert.Contains(t, mce.Error(), "need 3 values")
	})

	t.Run("non-numeric value", func(t *testing.T) {
		_, err := ParseAngleTriple("[1.0, oops, 3.0]")
		var mce *MalformedCoordinateError
		require.ErrorAs(t, err, &mce)
	})

	t.Run("non-finite value", func(t *testing.T) {
		_, err := ParseAngleTriple("[1.0, NaN, 3.0]")
		var mce *MalformedCoordinateError
		require.ErrorAs(t, err, &mce)
	})

	t.Run("empty list", func(t *testing.T) {
		_, err := ParseAngleTriple("[]")
		var mce *MalformedCoordinateError
		require.ErrorAs(t, err, &mce)
	})
}

func TestIsEmptyAngleList(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		empty bool
	}{
		{"empty brackets", "[]", true},
		{"brackets with space", "[ ]", true},
		{"blank cell", "   ", true},
		{"populated list", "[1.0, 2.0, 3.0]", false},
		{"quoted populated list", `"[1.0, 2.0, 3.0]"`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.empty, IsEmptyAngleList(tt.raw))
		})
	}
}

func TestParseFileTimestamp(t *testing.T) {
	t.Run("fsi filename", func(t *testing.T) {
		ts, err := ParseFileTimestamp("solo_L2_eui-fsi304-image_20220317T032015123_V01.fits")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2022, 3, 17, 3, 20, 15, 0, time.UTC), ts)
	})

	t.Run("token without subseconds", func(t *testing.T) {
		ts, err := ParseFileTimestamp("img_20220317T032015_V01.fits")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2022, 3, 17, 3, 20, 15, 0, time.UTC), ts)
	})

	t.Run("no underscore segments", func(t *testing.T) {
		_, err := ParseFileTimestamp("image.fits")
		require.Error(t, err)
	})

	t.Run("segment too short", func(t *testing.T) {
		_, err := ParseFileTimestamp("img_2022_V01.fits")
		require.Error(t, err)
	})

	t.Run("segment not a date", func(t *testing.T) {
		_, err := ParseFileTimestamp("img_notadatetoken99_V01.fits")
		require.Error(t, err)
	})
}
