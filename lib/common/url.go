package common

import (
	"strings"

	"maatnet.io/maat/lib/errors"
)

var (
	TrueQueryStringValue  = []string{"true", "yes", "1"}
	FalseQueryStringValue = []string{"false", "no", "0"}
)

// ParseBoolQueryString parses a boolean query value; 'true', '1', 'yes' are
// `true` and 'false', '0', 'no' are `false`. Anything else is
// `errors.InvalidQueryString`.
func ParseBoolQueryString(v string) (bool, error) {
	lowered := strings.ToLower(v)
	if _, ok := InStringArray(TrueQueryStringValue, lowered); ok {
		return true, nil
	}
	if _, ok := InStringArray(FalseQueryStringValue, lowered); ok {
		return false, nil
	}

	return false, errors.InvalidQueryString
}
