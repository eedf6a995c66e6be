package schedule

import (
	"fmt"
	"time"
)

// The meeting-time label is a contract: labels produced here are embedded in
// client emails and later handed back to ParseLabel when a slot is confirmed.
// Generator and parser live in this package so the grammar cannot drift.
//
// Label shape: "<DayName>, <dayOfMonth>. <monthName> u <HH:MM>"
// e.g. "Ponedeljak, 2. decembar u 10:00"

// SlotCount is the number of meeting times proposed per inquiry. Confirmation
// links address slots by position, so the sequence length and order are fixed
// at generation time.
const SlotCount = 3

// MeetingDuration is the fixed length of every booked meeting.
const MeetingDuration = time.Hour

// DefaultTimeZone is the calendar timezone for generated and parsed times.
const DefaultTimeZone = "Europe/Belgrade"

// maxLookaheadDays bounds the forward walk so slot generation terminates even
// if the clock list were exhausted.
const maxLookaheadDays = 15

// clockTimes are paired positionally with surviving weekdays. Order matters:
// slot index N always gets clockTimes[N].
var clockTimes = []string{"10:00", "14:00", "11:00"}

// dayNames is indexed by time.Weekday (Sunday = 0).
var dayNames = [7]string{"Nedelja", "Ponedeljak", "Utorak", "Sreda", "Četvrtak", "Petak", "Subota"}

// monthNames is indexed by time.Month - 1.
var monthNames = [12]string{
	"januar", "februar", "mart", "april", "maj", "jun",
	"jul", "avgust", "septembar", "oktobar", "novembar", "decembar",
}

// ProposeMeetingTimes returns SlotCount human-readable meeting-time labels
// starting from now, skipping Saturdays and Sundays. The walk is day-by-day
// and deterministic for a given now.
func ProposeMeetingTimes(now time.Time) []string {
	labels := make([]string, 0, SlotCount)
	for daysAdded := 0; len(labels) < SlotCount && daysAdded < maxLookaheadDays; daysAdded++ {
		d := now.AddDate(0, 0, daysAdded)
		wd := d.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			continue
		}
		labels = append(labels, formatLabel(d, clockTimes[len(labels)]))
	}
	return labels
}

func formatLabel(d time.Time, clock string) string {
	return fmt.Sprintf("%s, %d. %s u %s", dayNames[d.Weekday()], d.Day(), monthNames[d.Month()-1], clock)
}
