// Package roadcache keeps loaded road series in memory, bounded by a maximum
// road count with least-recently-used eviction. It is the single read path to
// speed data: views, predictions and dashboards all go through a Cache.
//
// A Cache is an explicit object built with New and shared by reference. Loads
// run outside the cache lock so misses for different roads proceed in parallel,
// and concurrent misses for the same road are coalesced into one load.
package roadcache
