package reservation

import "evcharge/internal/domain"

// Interval is a half-open [Start, End) time range in minutes since midnight.
type Interval struct {
	Start int
	End   int
}

// Conflicts reports whether two half-open intervals overlap. Symmetric.
func (a Interval) Conflicts(b Interval) bool {
	return !(a.End <= b.Start || a.Start >= b.End)
}

func conflictsAny(candidate Interval, existing []Interval) bool {
	for _, iv := range existing {
		if candidate.Conflicts(iv) {
			return true
		}
	}
	return false
}

// activeIntervals extracts the occupied intervals of non-cancelled
// reservations. Stored times are always well-formed; rows that fail to parse
// are skipped rather than poisoning the whole partition.
func activeIntervals(records []domain.Reservation) []Interval {
	intervals := make([]Interval, 0, len(records))
	for i := range records {
		if !records[i].Active() {
			continue
		}
		start, err := clockToMinutes(records[i].StartTime)
		if err != nil {
			continue
		}
		end, err := clockToMinutes(records[i].EndTime)
		if err != nil {
			continue
		}
		intervals = append(intervals, Interval{Start: start, End: end})
	}
	return intervals
}

// AvailableStarts lists every slot where a booking of durationMin fits
// against the existing intervals without leaving the operating window.
// Order follows EnumerateSlots.
func AvailableStarts(existing []Interval, durationMin int) []string {
	available := make([]string, 0)
	for _, slot := range EnumerateSlots() {
		start, err := clockToMinutes(slot)
		if err != nil {
			continue
		}
		end := start + durationMin
		if end > operatingEndMinutes {
			continue
		}
		if conflictsAny(Interval{Start: start, End: end}, existing) {
			continue
		}
		available = append(available, slot)
	}
	return available
}
