// Package speeddata reads road speed measurements from CSV files stored in a
// single data directory.
//
// Files are discoverable when their name ends in ".csv" and contains the
// configured marker (default "speeddata"). Each file carries rows of
// road_id,day_id,time_id,speed after a header row. The month a file covers is
// derived from a tag in its name (for example "Aug") through a Calendar,
// which also converts (day, slot) pairs into epoch-millisecond timestamps.
//
// Malformed rows are skipped silently. Unreadable files are logged and treated
// as containing no data so callers always receive a (possibly empty) result.
package speeddata
