// Package series holds pure transformations over road speed series: positive
// filtering, time-window selection, gap interpolation and averaging. Functions
// never modify their input.
package series
