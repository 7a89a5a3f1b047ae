// Package analysis runs the decoding analyses end to end.
//
// Both analyses share one preparation path:
//
//	baseline normalization -> optional epoch averaging -> trial selection
//
// followed by cross-validated decoding. CrossTemporal produces the full
// train-time x test-time matrix; TimeResolved produces the diagonal and,
// optionally, bootstrap and label-shuffle repeats summarized by percentile
// confidence intervals.
package analysis
