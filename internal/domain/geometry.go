package domain

import (
	"fmt"
	"math"
)

const radPerArcsec = math.Pi / (180 * 3600)

// ResolveGeometry converts one observation's decoded angle triples into
// the angular width between the two edge points and the heliocentric
// height of the center point.
//
// Each point gets a polar angle atan2(lat, lon). When the two edge angles
// share a sign the width is their plain separation. When they straddle
// the reference direction the sum of magnitudes is taken, wrapping back
// through 2π if it exceeds π so the short way around is always reported.
// Height is the center-point radius in radians projected to dsun and
// expressed in solar radii.
func ResolveGeometry(lon, lat AngleTriple, dsunM float64) (awDeg, heightRs float64, err error) {
	if dsunM <= 0 {
		return 0, 0, &GeometryError{Reason: fmt.Sprintf("non-physical dsun %g m", dsunM)}
	}

	phi0 := math.Atan2(lat[0], lon[0])
	phi2 := math.Atan2(lat[2], lon[2])

	var awRad float64
	if (phi0 >= 0) == (phi2 >= 0) {
		awRad = math.Abs(phi0 - phi2)
	} else {
		s := math.Abs(phi0) + math.Abs(phi2)
		if s > math.Pi {
			awRad = math.Abs(s - 2*math.Pi)
		} else {
			awRad = s
		}
	}
	awDeg = awRad * 180 / math.Pi

	// Invariant: widths outside [0, 180] indicate corrupted input, not a
	// representable geometry. Fail loudly rather than clamp.
	if awDeg < 0 || awDeg > 180 {
		return 0, 0, &GeometryError{Reason: fmt.Sprintf("angular width %g deg outside [0, 180]", awDeg)}
	}

	r1 := math.Hypot(lat[1], lon[1])
	heightRs = r1 * radPerArcsec * dsunM / SolarRadiusM
	return awDeg, heightRs, nil
}
