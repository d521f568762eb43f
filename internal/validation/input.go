package validation

import (
	"errors"
	"fmt"
	"regexp"

	v "github.com/go-ozzo/ozzo-validation/v4"
)

// MaxSegmentLength bounds IDs, names and emails used as path segments.
const MaxSegmentLength = 256

// ErrInvalid is wrapped by every validation failure in this package.
var ErrInvalid = errors.New("invalid")

var segmentPattern = regexp.MustCompile(`^[^/\\?#\s]+$`)

var segmentRules = []v.Rule{
	v.Required.Error("cannot be empty"),
	v.Length(1, MaxSegmentLength),
	v.Match(segmentPattern).Error("must not contain '/', '\\', '?', '#' or whitespace"),
	v.NotIn(".", "..").Error("must not be a dot segment"),
}

// ValidatePathSegment checks a value that will be placed into a URL path,
// such as a team ID, a username or "me". An empty ID would otherwise turn
// "GET /teams/{id}" into a different endpoint.
func ValidatePathSegment(name, value string) error {
	if err := v.Validate(value, segmentRules...); err != nil {
		return fmt.Errorf("%w %s: %w", ErrInvalid, name, err)
	}
	return nil
}

// ValidatePathSegments validates name/value pairs in order and returns the
// first failure.
func ValidatePathSegments(pairs ...string) error {
	if len(pairs)%2 != 0 {
		return fmt.Errorf("ValidatePathSegments: odd number of arguments")
	}
	for i := 0; i < len(pairs); i += 2 {
		if err := ValidatePathSegment(pairs[i], pairs[i+1]); err != nil {
			return err
		}
	}
	return nil
}
