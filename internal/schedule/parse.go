package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// labelRe extracts "<day>. <month> u <HH>:<MM>" from a label. The leading day
// name is decorative and ignored by the parser.
var labelRe = regexp.MustCompile(`(\d{1,2})\.\s*([\p{L}]+)\s+u\s+(\d{1,2}):(\d{2})`)

var monthByName = func() map[string]time.Month {
	m := make(map[string]time.Month, len(monthNames))
	for i, name := range monthNames {
		m[name] = time.Month(i + 1)
	}
	return m
}()

// ParseLabel re-derives a concrete timestamp from a meeting-time label
// produced by ProposeMeetingTimes. The label carries no year: if the
// month/day already passed relative to now, the date rolls forward one year.
func ParseLabel(label string, now time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	m := labelRe.FindStringSubmatch(label)
	if m == nil {
		return time.Time{}, fmt.Errorf("schedule: unparseable meeting time %q", label)
	}

	day, _ := strconv.Atoi(m[1])
	month, ok := monthByName[strings.ToLower(m[2])]
	if !ok {
		return time.Time{}, fmt.Errorf("schedule: unknown month %q", m[2])
	}
	hour, _ := strconv.Atoi(m[3])
	minute, _ := strconv.Atoi(m[4])
	if hour > 23 || minute > 59 {
		return time.Time{}, fmt.Errorf("schedule: invalid clock time in %q", label)
	}

	year := now.Year()
	if month < now.Month() || (month == now.Month() && day < now.Day()) {
		year++
	}

	t := time.Date(year, month, day, hour, minute, 0, 0, loc)
	if t.Day() != day || t.Month() != month {
		// time.Date normalizes overflow (e.g. 31. februar); reject it.
		return time.Time{}, fmt.Errorf("schedule: no such date in %q", label)
	}
	return t, nil
}

// Location resolves the calendar timezone, falling back to UTC if the
// tzdata lookup fails.
func Location(name string) *time.Location {
	if name == "" {
		name = DefaultTimeZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
