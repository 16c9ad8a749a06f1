package domain

import "fmt"

// SpeedSeries differentiates an event's height series over time, giving
// the instantaneous radial expansion speed in km/s per consecutive pair.
// Heights are converted to kilometers and divided by the elapsed whole
// seconds between samples (sub-second remainders are truncated). The
// result has length n-1 for n samples; fewer than two samples is an
// *InsufficientDataError.
func SpeedSeries(s EventSeries) ([]float64, error) {
	if len(s.Samples) < 2 {
		return nil, &InsufficientDataError{
			EventID:  s.EventID,
			Quantity: "speed",
			Points:   len(s.Samples),
		}
	}

	speeds := make([]float64, len(s.Samples)-1)
	for i := range speeds {
		a, b := s.Samples[i], s.Samples[i+1]
		dt := b.Time.Unix() - a.Time.Unix()
		if dt <= 0 {
			return nil, &GeometryError{
				Reason: fmt.Sprintf("event %s: non-increasing timestamps at sample %d", s.EventID, i+1),
			}
		}
		dhKm := (b.HeightRs - a.HeightRs) * SolarRadiusM / 1000
		speeds[i] = dhKm / float64(dt)
	}
	return speeds, nil
}

// ExpansionRateSeries differentiates angular width over height, giving
// the local expansion-rate derivative d(aw)/dh per consecutive pair in
// deg/Rs. The series is a raw discrete derivative and is expected to be
// noisy; no smoothing is applied. Length is n-1; fewer than two samples
// is an *InsufficientDataError and a repeated height is a *GeometryError,
// since a 0/0 or infinite rate must not reach any mean.
func ExpansionRateSeries(s EventSeries) ([]float64, error) {
	if len(s.Samples) < 2 {
		return nil, &InsufficientDataError{
			EventID:  s.EventID,
			Quantity: "expansion rate",
			Points:   len(s.Samples),
		}
	}

	rates := make([]float64, len(s.Samples)-1)
	for i := range rates {
		a, b := s.Samples[i], s.Samples[i+1]
		dh := b.HeightRs - a.HeightRs
		if dh == 0 {
			return nil, &GeometryError{
				Reason: fmt.Sprintf("event %s: zero height increment at sample %d", s.EventID, i+1),
			}
		}
		rates[i] = (b.AngularWidthDeg - a.AngularWidthDeg) / dh
	}
	return rates, nil
}
