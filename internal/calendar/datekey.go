package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/taskcal/internal/model"
)

var ErrInvalidDateKey = errors.New("calendar: invalid date key")

// CanonicalDateKey formats t as YYYY-MM-DD using t's own location fields.
// Callers convert to the display location first (t.In(loc)); the value is never
// routed through UTC, which would shift dates near midnight.
func CanonicalDateKey(t time.Time) string {
	return t.Format(model.DateLayout)
}

// ParseDateKey returns local midnight of key in loc.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(model.DateLayout, strings.TrimSpace(key), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateKey, key)
	}
	return t, nil
}

// ToStoreDate converts a local date key into the store's UTC-normalized form:
// the RFC3339 instant of local midnight.
func ToStoreDate(key string, loc *time.Location) (string, error) {
	t, err := ParseDateKey(key, loc)
	if err != nil {
		return "", err
	}
	return t.UTC().Format(time.RFC3339), nil
}

// FromStoreDate inverts ToStoreDate. Values already in YYYY-MM-DD form are
// validated and returned unchanged.
func FromStoreDate(stored string, loc *time.Location) (string, error) {
	if loc == nil {
		loc = time.Local
	}
	stored = strings.TrimSpace(stored)
	if len(stored) == len(model.DateLayout) {
		if _, err := ParseDateKey(stored, loc); err != nil {
			return "", err
		}
		return stored, nil
	}
	t, err := time.Parse(time.RFC3339, stored)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDateKey, stored)
	}
	return CanonicalDateKey(t.In(loc)), nil
}
