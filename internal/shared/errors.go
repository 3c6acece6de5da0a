package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Gate and token errors
	ErrInvalidToken    = fmt.Errorf("invalid token")
	ErrInvalidPassword = fmt.Errorf("invalid password")

	// Catalog resolution errors
	ErrInvalidSource     = fmt.Errorf("invalid music source")
	ErrTrackLookup       = fmt.Errorf("track lookup failed")
	ErrNoResults         = fmt.Errorf("no results found")
	ErrPaidContent       = fmt.Errorf("track is paid or unavailable")
	ErrEmptyLink         = fmt.Errorf("upstream returned an empty link")
	ErrLyricsUnavailable = fmt.Errorf("lyrics unavailable")
	ErrUpstream          = fmt.Errorf("upstream request failed")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
