package models

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeSlot is a half-open time-of-day interval [Start, End) expressed
// as "HH:MM" clock strings.
type TimeSlot struct {
	Start string `json:"start" db:"start_time"`
	End   string `json:"end" db:"end_time"`
}

// String renders the slot as "HH:MM-HH:MM".
func (s TimeSlot) String() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// Overlaps reports whether two slots collide. Ranges that intersect
// under strict comparison conflict, and so does any shared boundary:
// slots beginning or ending at the same instant are never co-assigned.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	if clockBefore(s.Start, other.End) && clockBefore(other.Start, s.End) {
		return true
	}
	return s.Start == other.Start || s.End == other.End
}

// Contains reports whether the slot fully covers other. A bound that
// fails to parse contains nothing, so a malformed declared window can
// never admit a placement.
func (s TimeSlot) Contains(other TimeSlot) bool {
	start, ok := clockMinutes(s.Start)
	if !ok {
		return false
	}
	end, ok := clockMinutes(s.End)
	if !ok {
		return false
	}
	otherStart, ok := clockMinutes(other.Start)
	if !ok {
		return false
	}
	otherEnd, ok := clockMinutes(other.End)
	if !ok {
		return false
	}
	return start <= otherStart && otherEnd <= end
}

// clockBefore compares two "HH:MM" strings on the clock. Unparseable
// values never compare earlier.
func clockBefore(a, b string) bool {
	am, ok := clockMinutes(a)
	if !ok {
		return false
	}
	bm, ok := clockMinutes(b)
	if !ok {
		return false
	}
	return am < bm
}

func clockMinutes(value string) (int, bool) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	return hour*60 + minute, true
}
