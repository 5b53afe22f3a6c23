// Package analytics implements the day analytics engine: it joins daily
// records with their meals, activities and mood events into per-day feature
// rows, correlates those features with overall mood, derives rule-based
// recommendations and fits a small predictive model.
//
// Everything in this package is a pure, synchronous computation over
// in-memory values. Callers load the data (see repo/services) and serialize
// the results; nothing here performs I/O or logging.
package analytics

import "errors"

var (
	// ErrInsufficientData is returned when an operation's preconditions are not
	// met: no rows, too few numeric columns, or too few complete rows. Callers
	// should surface it as "not enough data yet" rather than as a failure.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrMissingModel is returned by Predict when no model has been fitted in
	// the current process.
	ErrMissingModel = errors.New("model not trained")

	// ErrMalformedTimestamp is returned by ParseTimestamp for values that match
	// none of the accepted layouts.
	ErrMalformedTimestamp = errors.New("malformed timestamp")
)
