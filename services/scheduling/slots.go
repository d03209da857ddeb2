package scheduling

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Defaults for the hospital's hourly booking windows: twelve 5-minute
// sub-slots per hour.
const (
	DefaultIncrementMinutes = 5
	DefaultHourlyCapacity   = 12
)

// ErrInvalidArgument reports a caller contract violation (negative count,
// negative increment or capacity). Never silently clamped.
var ErrInvalidArgument = errors.New("scheduling: invalid argument")

// SlotQuery asks for the next bookable sub-slot of an hourly window.
// BookedCount comes from the backend's availability tally; this package
// never stores or mutates it. Zero IncrementMinutes/HourlyCapacity mean
// "use the default"; negative values are rejected.
type SlotQuery struct {
	Window           string // e.g. "9:00 AM - 10:00 AM"
	BookedCount      int
	IncrementMinutes int
	HourlyCapacity   int
}

// EffectiveSlot is the computed offer for a window. StartTime/EndTime are
// empty when the window label could not be parsed (see ParseWindowStart).
type EffectiveSlot struct {
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	IsFull         bool   `json:"isFull"`
	AvailableCount int    `json:"availableCount"`
}

// Accepts "9", "9:00", "9:00:00", each optionally suffixed with AM/PM.
var windowStartRe = regexp.MustCompile(`(?i)^(\d{1,2})(?::(\d{2}))?(?::\d{2})?\s*(am|pm)?$`)

// ParseWindowStart extracts the starting hour and minute from a window label
// of the shape "<start> - <end>". Only the start matters; the end is
// redundant with the capacity/increment math. A label without the " - "
// separator or with an unparseable start yields ok=false rather than an
// error, so a schedule grid keeps rendering around malformed cells.
func ParseWindowStart(window string) (hour, minute int, ok bool) {
	start, _, found := strings.Cut(window, " - ")
	if !found {
		return 0, 0, false
	}

	m := windowStartRe.FindStringSubmatch(strings.TrimSpace(start))
	if m == nil {
		return 0, 0, false
	}

	hour, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	if m[2] != "" {
		minute, err = strconv.Atoi(m[2])
		if err != nil {
			return 0, 0, false
		}
	}

	switch strings.ToUpper(m[3]) {
	case "PM":
		if hour < 12 {
			hour += 12
		}
	case "AM":
		if hour == 12 {
			hour = 0
		}
	default:
		// Bare hour is already 24-hour; reduce defensively.
		hour %= 24
	}

	return hour, minute, true
}

// ComputeEffectiveSlot turns a window plus its running booking count into
// the next sub-slot to offer. Pure arithmetic: the caller owns the count's
// freshness, the backend owns whether the slot is actually still free.
func ComputeEffectiveSlot(q SlotQuery) (EffectiveSlot, error) {
	if q.BookedCount < 0 {
		return EffectiveSlot{}, fmt.Errorf("%w: booked count %d", ErrInvalidArgument, q.BookedCount)
	}
	if q.IncrementMinutes < 0 {
		return EffectiveSlot{}, fmt.Errorf("%w: increment %d minutes", ErrInvalidArgument, q.IncrementMinutes)
	}
	if q.HourlyCapacity < 0 {
		return EffectiveSlot{}, fmt.Errorf("%w: hourly capacity %d", ErrInvalidArgument, q.HourlyCapacity)
	}

	increment := q.IncrementMinutes
	if increment == 0 {
		increment = DefaultIncrementMinutes
	}
	capacity := q.HourlyCapacity
	if capacity == 0 {
		capacity = DefaultHourlyCapacity
	}

	available := capacity - q.BookedCount
	if available < 0 {
		available = 0
	}
	slot := EffectiveSlot{
		IsFull:         q.BookedCount >= capacity,
		AvailableCount: available,
	}

	hour, minute, ok := ParseWindowStart(q.Window)
	if !ok {
		// Unparseable window degrades to empty times; the grid still renders.
		return slot, nil
	}

	const minutesPerDay = 24 * 60
	start := (hour*60 + minute + q.BookedCount*increment) % minutesPerDay
	end := (start + increment) % minutesPerDay
	slot.StartTime = formatClock(start)
	slot.EndTime = formatClock(end)
	return slot, nil
}

// formatClock renders minutes-from-midnight as a 12-hour clock string with
// zero-padded minutes and an uppercase suffix; hours 0 and 12 both render "12".
func formatClock(totalMinutes int) string {
	hour := totalMinutes / 60
	minute := totalMinutes % 60

	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, suffix)
}
