package recurrence

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidFrequency is returned for a frequency outside the supported set.
// Callers processing a batch should skip the offending template, not abort.
var ErrInvalidFrequency = errors.New("invalid recurring frequency")

type Frequency int

const (
	Daily Frequency = iota
	Weekly
	Monthly
	Quarterly
	Yearly
)

var frequencyNames = map[Frequency]string{
	Daily:     "daily",
	Weekly:    "weekly",
	Monthly:   "monthly",
	Quarterly: "quarterly",
	Yearly:    "yearly",
}

var frequencyFromName = map[string]Frequency{
	"daily":     Daily,
	"weekly":    Weekly,
	"monthly":   Monthly,
	"quarterly": Quarterly,
	"yearly":    Yearly,
}

func (f Frequency) String() string {
	if name, ok := frequencyNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Frequency(%d)", int(f))
}

// Parse converts a stored frequency string into a Frequency.
// Matching is case-insensitive.
func Parse(s string) (Frequency, error) {
	f, ok := frequencyFromName[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFrequency, s)
	}
	return f, nil
}

// Advance returns the next occurrence after d:
//
//	daily      +1 day
//	weekly     +7 days
//	monthly    +1 calendar month, day-of-month clamped to shorter months
//	quarterly  +3 calendar months, same clamping
//	yearly     +1 year, Feb 29 clamped to Feb 28 in non-leap years
//
// The time-of-day and location of d are preserved.
func Advance(f Frequency, d time.Time) (time.Time, error) {
	switch f {
	case Daily:
		return d.AddDate(0, 0, 1), nil
	case Weekly:
		return d.AddDate(0, 0, 7), nil
	case Monthly:
		return addMonthsClamped(d, 1), nil
	case Quarterly:
		return addMonthsClamped(d, 3), nil
	case Yearly:
		return addMonthsClamped(d, 12), nil
	}
	return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidFrequency, f)
}

// AdvanceString parses freq and advances d in one step.
func AdvanceString(freq string, d time.Time) (time.Time, error) {
	f, err := Parse(freq)
	if err != nil {
		return time.Time{}, err
	}
	return Advance(f, d)
}

// addMonthsClamped adds months without the normalization time.AddDate does
// (Jan 31 + 1 month must be Feb 28/29, not Mar 2/3).
func addMonthsClamped(d time.Time, months int) time.Time {
	year, month, day := d.Date()
	m := int(month) - 1 + months
	year += m / 12
	month = time.Month(m%12 + 1)

	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, d.Hour(), d.Minute(), d.Second(), d.Nanosecond(), d.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
