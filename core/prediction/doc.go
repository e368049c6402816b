// Package prediction forecasts road speeds a few slots ahead of a base time.
// Predictors are pluggable behind the Predictor interface and built from
// configuration through a named registry; the moving-average Baseline is the
// only built-in implementation.
package prediction
