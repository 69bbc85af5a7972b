// Package timeseries provides the Series value type used throughout
// goforecast, along with differencing, integration, chronological
// splitting, and CSV loading.
//
// A Series is immutable by convention: Diff, SeasonalDiff, Slice and the
// split helpers all return new Series values. Integrate is the inverse of
// DiffLag and reconstructs values on the original scale from a seed of
// trailing observations.
package timeseries
