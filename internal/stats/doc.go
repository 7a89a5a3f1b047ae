// Package stats provides the numerical helpers used around decoding scores:
// percentile confidence intervals over repeated score measurements,
// linear-interpolation percentiles, and the resampling primitives
// (bootstrap indices, label permutations) that produce those repeats.
//
// Score matrices are gonum matrices of shape (R, T): R repeated
// measurements (folds, bootstraps, shuffles) by T measurement positions
// (time bins). Nothing in this package mutates its inputs.
package stats
