package storefront

import (
	"errors"
	"fmt"

	"hannas-kitchen/internal/apiclient"
)

// NetworkError is returned when a call to the kitchen API fails.
type NetworkError = apiclient.NetworkError

// ErrGeolocationUnsupported is wrapped in a GeolocationError when the session
// has no way to read the device position.
var ErrGeolocationUnsupported = errors.New("geolocation is not supported")

// GeolocationError means the device position could not be read, e.g. the
// user denied the permission.
type GeolocationError struct {
	Err error
}

func (e *GeolocationError) Error() string {
	return fmt.Sprintf("failed to get your location: %v", e.Err)
}

func (e *GeolocationError) Unwrap() error { return e.Err }

// GeocodeError means coordinates could not be turned into an address.
type GeocodeError struct {
	Status string
	Err    error
}

func (e *GeocodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to reverse geocode location: %v", e.Err)
	}
	return fmt.Sprintf("could not fetch address from location (status %s)", e.Status)
}

func (e *GeocodeError) Unwrap() error { return e.Err }
