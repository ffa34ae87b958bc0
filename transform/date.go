package transform

import (
	"fmt"
	"time"

	"github.com/spf13/cast"

	"github.com/reoring/dataobj/internal/attrs"
)

// Date parses values into time.Time. Empty values become nil; unparsable
// values fail the fill.
type Date struct {
	// Location applies to inputs without a zone. Defaults to UTC.
	Location *time.Location
}

// Transform parses value into a time.Time in d.Location.
func (d Date) Transform(value any, field, _ string) (any, error) {
	if attrs.IsEmpty(value) {
		return nil, nil
	}
	t, err := ParseTime(value, d.Location)
	if err != nil {
		return nil, fmt.Errorf("transform: field %s: %w", field, err)
	}
	return t, nil
}

// ParseTime accepts time.Time, RFC3339 (with or without fractional seconds),
// the common layouts understood by spf13/cast and unix timestamps.
func ParseTime(value any, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if s, ok := value.(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t, nil
		}
	}
	return cast.ToTimeInDefaultLocationE(value, loc)
}
