package validation

import (
	"errors"
	"regexp"
	"strconv"
)

// Error messages are shown verbatim in the UI, so they read as user
// prose rather than Go error convention.
var (
	ErrCoordinatesRequired = errors.New("Please enter coordinates or get current location")
	ErrLatitudeRange       = errors.New("Latitude must be between -90 and 90")
	ErrLongitudeRange      = errors.New("Longitude must be between -180 and 180")
)

// partialDecimal matches an optionally signed decimal with at most two
// fractional digits, including incomplete states like "12." or "-".
var partialDecimal = regexp.MustCompile(`^-?\d*\.?\d{0,2}$`)

// IsPartialDecimal reports whether s is an acceptable intermediate
// state for a coordinate field: empty, a lone minus sign, or a partial
// signed decimal. It gates every keystroke so a field can never reach
// an invalid shape; range is checked at submit time, not here.
func IsPartialDecimal(s string) bool {
	if s == "" || s == "-" {
		return true
	}
	return partialDecimal.MatchString(s)
}

// NormalizeTwoDecimals re-renders a coordinate with exactly two
// fractional digits. Unparseable input, including a lone minus sign,
// produces the empty string. Applied on field blur; idempotent for
// already-normalized values.
func NormalizeTwoDecimals(s string) string {
	if s == "" {
		return ""
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return ""
	}
	return strconv.FormatFloat(n, 'f', 2, 64)
}

// ValidateLatitude enforces the submit-time range check for latitude.
func ValidateLatitude(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < -90 || v > 90 {
		return ErrLatitudeRange
	}
	return nil
}

// ValidateLongitude enforces the submit-time range check for longitude.
func ValidateLongitude(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < -180 || v > 180 {
		return ErrLongitudeRange
	}
	return nil
}

// ValidateCoordinates runs the full submit-time check for a coordinate
// pair: both present, both in range. Latitude is reported first.
func ValidateCoordinates(lat, lon string) error {
	if lat == "" || lon == "" {
		return ErrCoordinatesRequired
	}
	if err := ValidateLatitude(lat); err != nil {
		return err
	}
	return ValidateLongitude(lon)
}
