package hours

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownWeekday is returned when a weekday name cannot be mapped to a day index.
var ErrUnknownWeekday = errors.New("unknown weekday")

// DayLabels are the Monday-first abbreviations used in labels and the hours table.
var DayLabels = [7]string{"Mo", "Di", "Mi", "Do", "Fr", "Sa", "So"}

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the host clock.
var SystemClock Clock = ClockFunc(time.Now)

// Moment is the evaluator's view of "now" in the store timezone.
type Moment struct {
	Minutes int // 0..1439
	Day     int // 0=Monday .. 6=Sunday
}

// MomentAt projects t into loc. The host timezone is never consulted.
func MomentAt(t time.Time, loc *time.Location) Moment {
	if loc != nil {
		t = t.In(loc)
	}
	return Moment{
		Minutes: t.Hour()*60 + t.Minute(),
		Day:     DayIndex(t.Weekday()),
	}
}

// DayIndex converts Go's Sunday-first weekday into a Monday-first index.
func DayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// String renders the moment as "Mo 08:20".
func (m Moment) String() string {
	day := "?"
	if m.Day >= 0 && m.Day < len(DayLabels) {
		day = DayLabels[m.Day]
	}
	return fmt.Sprintf("%s %s", day, FormatMinutes(m.Minutes))
}

var weekdayNames = map[string]int{
	"mo": 0, "mon": 0, "monday": 0, "montag": 0,
	"di": 1, "tu": 1, "tue": 1, "tues": 1, "tuesday": 1, "dienstag": 1,
	"mi": 2, "we": 2, "wed": 2, "wednesday": 2, "mittwoch": 2,
	"do": 3, "th": 3, "thu": 3, "thur": 3, "thursday": 3, "donnerstag": 3,
	"fr": 4, "fri": 4, "friday": 4, "freitag": 4,
	"sa": 5, "sat": 5, "saturday": 5, "samstag": 5, "sonnabend": 5,
	"so": 6, "su": 6, "sun": 6, "sunday": 6, "sonntag": 6,
}

// ParseWeekday maps a German or English weekday name or abbreviation to a Monday-first index.
// Unrecognised names yield ErrUnknownWeekday rather than a default day.
func ParseWeekday(name string) (int, error) {
	key := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(name), "."))
	if idx, ok := weekdayNames[key]; ok {
		return idx, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWeekday, name)
}
