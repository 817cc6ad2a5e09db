package trip

import "errors"

var (
	// ErrInvalidTripData flags negative km or waiting hours on a stored trip.
	// Data errors fail loudly instead of being clamped.
	ErrInvalidTripData = errors.New("trip has negative km or waiting hours")
)
