// Package profile estimates wind speed at arbitrary heights from a
// reference-height measurement using the Hellman power-law profile.
package profile

import (
	"errors"
	"math"
)

// ErrInvalidHeight is returned for non-positive reference or target heights.
// This is a caller bug, not a recoverable runtime condition.
var ErrInvalidHeight = errors.New("height must be positive")

// DefaultAlpha is the Hellman exponent for open terrain.
const DefaultAlpha = 1.0 / 7.0

// Extrapolate estimates the wind speed at targetHeight given the speed
// measured at referenceHeight, using u(z) = u_r * (z/z_r)^alpha.
// A zero referenceSpeed is valid and yields zero.
func Extrapolate(referenceSpeed, referenceHeight, targetHeight, alpha float64) (float64, error) {
	if referenceHeight <= 0 || targetHeight <= 0 {
		return 0, ErrInvalidHeight
	}
	return referenceSpeed * math.Pow(targetHeight/referenceHeight, alpha), nil
}
