// Package decode implements time-resolved population decoding.
//
// The pieces compose the way a decoding analysis is usually written:
//
//	clf := New(cfg)                              // scaler + classifier pipeline
//	est := &GeneralizingEstimator{Base: clf, Scorer: scorer}
//	folds, _ := SplitterFor(cv).Split(y)
//	scores, _ := CrossValMultiscore(ctx, est, X, y, folds, jobs)
//	mean := MeanScores(scores)                   // train-time x test-time
//
// Data is indexed [trial][neuron][bin]. A GeneralizingEstimator fits one
// classifier per training bin and scores it on every testing bin; a
// SlidingEstimator scores each classifier on its own bin only.
//
// Cross-validation folds run concurrently, bounded by the worker count.
// Everything inside a fold is sequential and deterministic: the same folds
// and options always give the same scores.
package decode
