package dealtype

import (
	"strconv"
	"strings"
)

// ParseAmount parses a monetary figure mined from a coupon description.
// The feed writes amounts with digit-group separators in both Vietnamese
// style ("150.000") and western style ("150,000"); separators are stripped
// before parsing. Malformed values report ok=false rather than an error:
// an unparseable amount is simply no evidence, never a failure.
func ParseAmount(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	cleaned := strings.NewReplacer(".", "", ",", "").Replace(s)
	value, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
