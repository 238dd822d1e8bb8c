package hours

import (
	"strings"
	"time"
)

const closedText = "geschlossen"

// Evaluator answers open/closed questions for an immutable weekly schedule.
// It keeps no state between calls and is safe for concurrent use.
type Evaluator struct {
	schedule WeeklySchedule
	loc      *time.Location
	clock    Clock
}

// NewEvaluator builds an evaluator. A nil location means UTC, a nil clock the system clock.
func NewEvaluator(schedule WeeklySchedule, loc *time.Location, clock Clock) *Evaluator {
	if loc == nil {
		loc = time.UTC
	}
	if clock == nil {
		clock = SystemClock
	}
	return &Evaluator{schedule: schedule.Clone(), loc: loc, clock: clock}
}

// Schedule returns a copy of the evaluated schedule.
func (e *Evaluator) Schedule() WeeklySchedule { return e.schedule.Clone() }

// Location returns the store timezone.
func (e *Evaluator) Location() *time.Location { return e.loc }

// Now resolves the current moment in the store timezone.
func (e *Evaluator) Now() Moment {
	return MomentAt(e.clock.Now(), e.loc)
}

// Time reads the clock once and returns it in the store timezone.
func (e *Evaluator) Time() time.Time {
	return e.clock.Now().In(e.loc)
}

// IsOpenNow reports whether the store is open at the current moment.
func (e *Evaluator) IsOpenNow() bool {
	return e.IsOpenAt(e.Now())
}

// NextChangeLabel returns the label of the next status change from the current moment.
func (e *Evaluator) NextChangeLabel() (string, bool) {
	return e.NextChangeAt(e.Now())
}

// IsOpenAt reports whether some interval of m's day contains m.
func (e *Evaluator) IsOpenAt(m Moment) bool {
	if m.Day < 0 || m.Day > 6 {
		return false
	}
	for _, iv := range e.schedule[m.Day] {
		s, end, ok := iv.Bounds()
		if !ok {
			continue
		}
		if s <= m.Minutes && m.Minutes < end {
			return true
		}
	}
	return false
}

type candidate struct {
	offset  int
	minutes int
	label   string
}

func (c candidate) before(o candidate) bool {
	if c.offset != o.offset {
		return c.offset < o.offset
	}
	return c.minutes < o.minutes
}

// NextChangeAt finds the nearest boundary after m, looking up to a full week ahead.
// The label is "<day> <raw bound>", e.g. "Sa 00:00" for a midnight close.
func (e *Evaluator) NextChangeAt(m Moment) (string, bool) {
	if m.Day < 0 || m.Day > 6 {
		return "", false
	}

	var best *candidate
	consider := func(c candidate) {
		// strict comparison keeps the first candidate on ties
		if best == nil || c.before(*best) {
			best = &c
		}
	}

	for offset := 0; offset <= 7; offset++ {
		day := (m.Day + offset) % 7
		for _, iv := range e.schedule[day] {
			s, end, ok := iv.Bounds()
			if !ok {
				continue
			}
			if offset > 0 || m.Minutes < s {
				consider(candidate{offset: offset, minutes: s, label: label(day, iv.Start)})
			}
			if offset > 0 || m.Minutes < end {
				consider(candidate{offset: offset, minutes: end, label: label(day, iv.End)})
			}
		}
	}

	if best == nil {
		return "", false
	}
	return best.label, true
}

// Row is one line of the weekly hours table.
type Row struct {
	Day   string `json:"day"`
	Text  string `json:"text"`
	Today bool   `json:"today"`
}

// Table renders the seven days, marking today.
func (e *Evaluator) Table(today int) []Row {
	rows := make([]Row, 0, len(e.schedule))
	for i, day := range e.schedule {
		valid := day.Valid()
		text := closedText
		if len(valid) > 0 {
			parts := make([]string, 0, len(valid))
			for _, iv := range valid {
				parts = append(parts, strings.TrimSpace(iv.Start)+" – "+strings.TrimSpace(iv.End))
			}
			text = strings.Join(parts, " · ")
		}
		rows = append(rows, Row{Day: DayLabels[i], Text: text, Today: i == today})
	}
	return rows
}

func label(day int, raw string) string {
	return DayLabels[day] + " " + strings.TrimSpace(raw)
}
