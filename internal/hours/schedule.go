package hours

// Interval is a half-open [Start, End) opening window in raw "HH:MM" form.
type Interval struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// Bounds returns the interval in minutes. Intervals with an unparseable bound
// or a non-positive length report false and are skipped by every caller.
func (iv Interval) Bounds() (start, end int, ok bool) {
	s, ok := ParseTimeToMinutes(iv.Start)
	if !ok {
		return 0, 0, false
	}
	e, ok := NormalizeEnd(iv.Start, iv.End)
	if !ok || e <= s {
		return 0, 0, false
	}
	return s, e, true
}

// DaySchedule lists the intervals of one day in display order.
type DaySchedule []Interval

// Valid returns only the intervals that take part in evaluation.
func (d DaySchedule) Valid() DaySchedule {
	var out DaySchedule
	for _, iv := range d {
		if _, _, ok := iv.Bounds(); ok {
			out = append(out, iv)
		}
	}
	return out
}

// WeeklySchedule holds seven days, 0=Monday .. 6=Sunday.
type WeeklySchedule [7]DaySchedule

// Clone returns a deep copy so callers cannot mutate an evaluator's schedule.
func (w WeeklySchedule) Clone() WeeklySchedule {
	var out WeeklySchedule
	for i, day := range w {
		if day == nil {
			continue
		}
		out[i] = append(DaySchedule(nil), day...)
	}
	return out
}

// IsEmpty reports whether no day has a single valid interval.
func (w WeeklySchedule) IsEmpty() bool {
	for _, day := range w {
		if len(day.Valid()) > 0 {
			return false
		}
	}
	return true
}
