// Package domain derives CME bubble-front kinematics from manually
// digitized image points.
//
// # Data Source
//
// Point tables are produced by the interactive digitization tool, which
// displays difference images from the Solar Orbiter EUI/FSI 304 telescope
// and records three clicked points per image: the leading edge, the
// center, and the trailing edge of the bubble front. One CSV table is
// written per tracked event, with columns:
//
//	file          source image filename
//	lon [arcsec]  bracketed list of 3 longitudes, e.g. "[512.1, 300.4, -88.0]"
//	lat [arcsec]  bracketed list of 3 latitudes
//	dsun [m]      observer-Sun distance at observation time, meters
//
// A skipped observation is recorded with empty lists ("[]") and must be
// dropped before any geometry computation.
//
// # Filename Conventions
//
// Image filenames embed the observation time as the second-to-last
// underscore-delimited segment, whose first 15 characters form a
// YYYYMMDDTHHMMSS token:
//
//	solo_L2_eui-fsi304-image_20220317T032015123_V01.fits
//	                         ^^^^^^^^^^^^^^^ -> 2022-03-17 03:20:15 UTC
//
// The token is used purely as a sort and spacing key; times are read as
// UTC for consistency. Event identifiers come from the table's own
// filename, trailing underscore token of the base name:
// "selected_points_id02.csv" -> "id02".
//
// # Derived Quantities
//
// Angular width is the angular separation of the two edge points as seen
// from the observer, computed from per-point polar angles atan2(lat, lon)
// with a wraparound correction at the ±180° branch cut. Height is the
// center-point radius converted from arcseconds to heliocentric distance
// using dsun, expressed in solar radii (Rsun = 6.957e8 m).
//
// Speed is the raw finite difference of height over elapsed whole seconds,
// in km/s. The local expansion rate is the raw finite difference of
// angular width over height. Neither series is smoothed or resampled;
// both are length n-1 for an n-sample series and require n >= 2.
//
// # Exclusion Policy
//
// Rows are dropped, and counted by reason, when the angle lists are empty,
// when a list is malformed, or when the filename carries no parseable
// timestamp. Dropped rows never reach geometry resolution and never
// affect a mean or fit. An event with zero usable rows, or with too few
// samples for a derived quantity, fails summarization with a typed error
// and is excluded from cross-event aggregation; it is never zero-filled.
package domain
