package render

import (
	"strconv"
	"strings"
	"time"
)

// OpenStatus reports whether the business is open at a point in time. A nil
// *OpenStatus means "can't tell" (blank or unparseable input), which is
// distinct from a definite closed.
type OpenStatus struct {
	Open bool
}

// hoursSegment is one comma-separated clause of the business-hours text.
// Days are indexed 0=Mon .. 6=Sun. Start/end are minutes since midnight; end
// may exceed 24h for ranges that cross midnight.
type hoursSegment struct {
	days   [7]bool
	closed bool
	start  int
	end    int
}

var dayIndex = map[string]int{
	"mon": 0, "tue": 1, "wed": 2, "thu": 3, "fri": 4, "sat": 5, "sun": 6,
}

// IsOpenNow evaluates free-text business hours in the given IANA timezone at
// the supplied instant. It returns nil when either input is blank, the
// timezone is unknown, or no segment of the text parses.
func IsOpenNow(timezone, hoursText string, now time.Time) *OpenStatus {
	timezone = strings.TrimSpace(timezone)
	if timezone == "" || strings.TrimSpace(hoursText) == "" {
		return nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil
	}

	segments := parseHoursText(hoursText)
	if len(segments) == 0 {
		return nil
	}

	local := now.In(loc)
	day := mondayIndex(local.Weekday())
	minutes := local.Hour()*60 + local.Minute()

	// A closed clause for today wins over any range clause.
	for _, seg := range segments {
		if seg.closed && seg.days[day] {
			return &OpenStatus{Open: false}
		}
	}
	for _, seg := range segments {
		if seg.closed || !seg.days[day] {
			continue
		}
		if minutes >= seg.start && minutes < seg.end {
			return &OpenStatus{Open: true}
		}
	}
	// No clause covers the current time: default closed, not unknown.
	return &OpenStatus{Open: false}
}

func parseHoursText(text string) []hoursSegment {
	var segments []hoursSegment
	for _, raw := range strings.Split(text, ",") {
		if seg, ok := parseHoursSegment(raw); ok {
			segments = append(segments, seg)
		}
	}
	return segments
}

// parseHoursSegment parses one clause: "<Day>[–<Day>] closed" or
// "<Day>[–<Day>] <h>[:mm]–<h>[:mm]". Hyphen and en-dash both separate ranges.
func parseHoursSegment(raw string) (hoursSegment, bool) {
	normalized := strings.ReplaceAll(raw, "–", "-")
	fields := strings.Fields(normalized)
	if len(fields) < 2 {
		return hoursSegment{}, false
	}

	days, ok := parseDayRange(fields[0])
	if !ok {
		return hoursSegment{}, false
	}

	rest := strings.Join(fields[1:], " ")
	if strings.EqualFold(strings.TrimSpace(rest), "closed") {
		return hoursSegment{days: days, closed: true}, true
	}

	parts := strings.Split(rest, "-")
	if len(parts) != 2 {
		return hoursSegment{}, false
	}
	start, ok := parseClock(parts[0])
	if !ok {
		return hoursSegment{}, false
	}
	end, ok := parseClock(parts[1])
	if !ok {
		return hoursSegment{}, false
	}
	if end <= start {
		// "18-2" style overnight hours run past midnight.
		end += 24 * 60
	}
	return hoursSegment{days: days, start: start, end: end}, true
}

func parseDayRange(raw string) ([7]bool, bool) {
	var days [7]bool
	parts := strings.Split(raw, "-")
	switch len(parts) {
	case 1:
		idx, ok := parseDay(parts[0])
		if !ok {
			return days, false
		}
		days[idx] = true
		return days, true
	case 2:
		from, ok := parseDay(parts[0])
		if !ok {
			return days, false
		}
		to, ok := parseDay(parts[1])
		if !ok {
			return days, false
		}
		// Day ranges expand circularly, so "Fri-Mon" covers Fri, Sat, Sun, Mon.
		for i := from; ; i = (i + 1) % 7 {
			days[i] = true
			if i == to {
				break
			}
		}
		return days, true
	default:
		return days, false
	}
}

func parseDay(raw string) (int, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	if len(cleaned) < 3 {
		return 0, false
	}
	idx, ok := dayIndex[cleaned[:3]]
	return idx, ok
}

func parseClock(raw string) (int, bool) {
	cleaned := strings.TrimSpace(raw)
	hourPart := cleaned
	minutePart := ""
	if colon := strings.Index(cleaned, ":"); colon >= 0 {
		hourPart = cleaned[:colon]
		minutePart = cleaned[colon+1:]
	}
	hour, err := strconv.Atoi(strings.TrimSpace(hourPart))
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minutes := 0
	if minutePart != "" {
		minutes, err = strconv.Atoi(strings.TrimSpace(minutePart))
		if err != nil || minutes < 0 || minutes > 59 {
			return 0, false
		}
	}
	return hour*60 + minutes, true
}

func mondayIndex(day time.Weekday) int {
	// time.Weekday counts Sunday as 0; the segment table counts Monday as 0.
	return (int(day) + 6) % 7
}
