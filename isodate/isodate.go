// Package isodate parses and formats the ISO-8601 date/time subset used by
// well log headers and datetime curves.
//
// Parsing is lenient. Accepted date forms:
//   - century:      "20"
//   - year:         "2018"
//   - year-month:   "2018-10", "201810"
//   - full date:    "2018-10-10", "20181010"
//   - ordinal date: "2018-283", "2018283"
//   - week date:    "2018-W41", "2018-W41-3", "2018W413"
//
// The optional time part follows a 'T' (or a space) as hh, hh:mm or hh:mm:ss,
// each with an optional fraction introduced by '.' or ','. The fraction of the
// last given unit carries into the smaller units. The zone is 'Z', ±hh, ±hhmm
// or ±hh:mm. Text without a zone is taken as UTC, never as the local zone, so
// results are the same on every machine.
package isodate

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/arloliu/jwlf/errs"
)

// Layout is the canonical output layout: UTC with millisecond precision when present.
const Layout = "2006-01-02T15:04:05.999Z07:00"

// Format returns the canonical ISO-8601 text of t in UTC.
func Format(t time.Time) string {
	return t.UTC().Format(Layout)
}

// Parse parses text as an ISO-8601 date/time.
//
// Returns an error wrapping errs.ErrInvalidDate that carries the offending text.
func Parse(text string) (time.Time, error) {
	upper := strings.ToUpper(strings.TrimSpace(text))
	if upper == "" {
		return time.Time{}, invalid(text)
	}

	p := strings.IndexByte(upper, 'T')
	if p == -1 {
		p = strings.IndexByte(upper, ' ')
	}

	dateText, rest := upper, ""
	if p != -1 {
		dateText, rest = upper[:p], upper[p+1:]
	}

	p = strings.IndexByte(rest, 'Z')
	if p == -1 {
		p = strings.IndexByte(rest, '+')
	}
	if p == -1 {
		p = strings.IndexByte(rest, '-')
	}

	timeText, zoneText := rest, ""
	if p != -1 {
		timeText, zoneText = rest[:p], rest[p:]
	}

	year, month, day, err := parseDate(dateText)
	if err != nil {
		return time.Time{}, invalid(text)
	}

	offset, err := parseTime(timeText)
	if err != nil {
		return time.Time{}, invalid(text)
	}

	loc, err := parseZone(zoneText)
	if err != nil {
		return time.Time{}, invalid(text)
	}

	// time.Date normalizes day overflow the same way a lenient calendar does.
	t := time.Date(year, month, day, 0, 0, 0, 0, loc).Add(offset)

	return t.UTC(), nil
}

func invalid(text string) error {
	return fmt.Errorf("%w: %q", errs.ErrInvalidDate, text)
}

// parseDate returns year, month and day; day may exceed the month length
// for ordinal and week dates.
func parseDate(text string) (int, time.Month, int, error) {
	basic := strings.ReplaceAll(text, "-", "")
	n := len(basic)

	switch {
	case strings.IndexByte(basic, 'W') != -1:
		if n < 7 || basic[4] != 'W' {
			return 0, 0, 0, errs.ErrInvalidDate
		}
		year, err := digits(basic[:4])
		if err != nil {
			return 0, 0, 0, err
		}
		week, err := digits(basic[5:7])
		if err != nil {
			return 0, 0, 0, err
		}
		weekday := 1
		if n > 7 {
			if weekday, err = digits(basic[7:]); err != nil {
				return 0, 0, 0, err
			}
		}

		return year, time.January, weekDateDay(year, week, weekday), nil

	case n == 7:
		year, err := digits(basic[:4])
		if err != nil {
			return 0, 0, 0, err
		}
		day, err := digits(basic[4:])
		if err != nil {
			return 0, 0, 0, err
		}

		return year, time.January, day, nil

	case n == 2:
		century, err := digits(basic)
		if err != nil {
			return 0, 0, 0, err
		}

		return century * 100, time.January, 1, nil

	case n == 4:
		year, err := digits(basic)
		if err != nil {
			return 0, 0, 0, err
		}

		return year, time.January, 1, nil

	case n == 6 || n == 8:
		year, err := digits(basic[:4])
		if err != nil {
			return 0, 0, 0, err
		}
		month, err := digits(basic[4:6])
		if err != nil {
			return 0, 0, 0, err
		}
		day := 1
		if n == 8 {
			if day, err = digits(basic[6:]); err != nil {
				return 0, 0, 0, err
			}
		}

		return year, time.Month(month), day, nil

	default:
		return 0, 0, 0, errs.ErrInvalidDate
	}
}

// weekDateDay returns the day of year of the given ISO week date.
// Week 1 is the week holding January 4th and weeks start on Monday.
func weekDateDay(year, week, weekday int) int {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	isoWeekday := int(jan4.Weekday())
	if isoWeekday == 0 {
		isoWeekday = 7
	}
	mondayOfWeek1 := 4 - (isoWeekday - 1)

	return mondayOfWeek1 + (week-1)*7 + (weekday - 1)
}

// parseTime returns the time of day as a duration.
func parseTime(text string) (time.Duration, error) {
	if text == "" {
		return 0, nil
	}

	basic := strings.ReplaceAll(text, ":", "")
	basic = strings.ReplaceAll(basic, ",", ".")

	whole, fraction := basic, ""
	if p := strings.IndexByte(basic, '.'); p != -1 {
		whole, fraction = basic[:p], basic[p+1:]
	}

	switch len(whole) {
	case 2, 4, 6:
	default:
		return 0, errs.ErrInvalidDate
	}

	var d time.Duration
	unit := time.Hour

	for i, u := range []time.Duration{time.Hour, time.Minute, time.Second} {
		if len(whole) < 2*(i+1) {
			break
		}
		n, err := digits(whole[2*i : 2*i+2])
		if err != nil {
			return 0, err
		}
		d += time.Duration(n) * u
		unit = u
	}

	if fraction != "" {
		f, err := strconv.ParseFloat("0."+fraction, 64)
		if err != nil {
			return 0, errs.ErrInvalidDate
		}
		ms := math.Round(f * float64(unit/time.Millisecond))
		d += time.Duration(ms) * time.Millisecond
	}

	return d, nil
}

func parseZone(text string) (*time.Location, error) {
	if text == "" || text[0] == 'Z' {
		return time.UTC, nil
	}

	sign := 1
	switch text[0] {
	case '+':
	case '-':
		sign = -1
	default:
		return nil, errs.ErrInvalidDate
	}

	basic := strings.ReplaceAll(text[1:], ":", "")
	if len(basic) != 2 && len(basic) != 4 {
		return nil, errs.ErrInvalidDate
	}

	hours, err := digits(basic[:2])
	if err != nil {
		return nil, err
	}
	minutes := 0
	if len(basic) == 4 {
		if minutes, err = digits(basic[2:]); err != nil {
			return nil, err
		}
	}

	return time.FixedZone(text, sign*(hours*3600+minutes*60)), nil
}

func digits(s string) (int, error) {
	if s == "" {
		return 0, errs.ErrInvalidDate
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, errs.ErrInvalidDate
		}
	}

	return strconv.Atoi(s)
}
