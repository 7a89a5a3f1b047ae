// Package figure renders decoding results with gonum/plot.
//
// Matrix draws a cross-temporal score matrix as a heat map with training
// time on the y axis and testing time on the x axis. TimeCourse draws the
// diagonal score against time with an optional confidence band. Both mark
// task epochs with dashed lines.
package figure
