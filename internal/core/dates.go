package core

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// SaleTimeLayout is the creation-timestamp format stored on every
// sale: day-month-year, 24h clock.
const SaleTimeLayout = "02-01-2006 15:04:05"

// ErrBadTimestamp is returned for timestamps in neither supported
// date order.
var ErrBadTimestamp = errors.New("unrecognized timestamp format")

// FormatSaleTime renders a creation timestamp in the stored format.
func FormatSaleTime(t time.Time) string {
	return t.Format(SaleTimeLayout)
}

// ParseSaleTime parses a stored sale timestamp. Existing records carry
// two date orders, dd-mm-yyyy and yyyy-mm-dd, both with an optional
// hh:mm:ss part; this is the single place that knows about both.
// A four-digit first component selects year-first order.
func ParseSaleTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrBadTimestamp
	}

	datePart := s
	timePart := ""
	if i := strings.IndexByte(s, ' '); i >= 0 {
		datePart, timePart = s[:i], strings.TrimSpace(s[i+1:])
	}

	fields := strings.Split(datePart, "-")
	if len(fields) != 3 {
		return time.Time{}, ErrBadTimestamp
	}

	var year, month, day int
	var err error
	if len(fields[0]) == 4 {
		year, month, day, err = atoi3(fields[0], fields[1], fields[2])
	} else {
		day, month, year, err = atoi3(fields[0], fields[1], fields[2])
	}
	if err != nil || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, ErrBadTimestamp
	}

	var hour, minute, sec int
	if timePart != "" {
		hms := strings.Split(timePart, ":")
		if len(hms) != 3 {
			return time.Time{}, ErrBadTimestamp
		}
		hour, minute, sec, err = atoi3(hms[0], hms[1], hms[2])
		if err != nil || hour > 23 || minute > 59 || sec > 59 {
			return time.Time{}, ErrBadTimestamp
		}
	}

	return time.Date(year, time.Month(month), day, hour, minute, sec, 0, time.Local), nil
}

// SaleYearMonth extracts the calendar year and month from a stored
// timestamp, tolerating both date orders. ok is false for timestamps
// that cannot be parsed, which aggregation silently skips.
func SaleYearMonth(s string) (year, month int, ok bool) {
	t, err := ParseSaleTime(s)
	if err != nil {
		return 0, 0, false
	}
	return t.Year(), int(t.Month()), true
}

func atoi3(a, b, c string) (int, int, int, error) {
	va, err := strconv.Atoi(a)
	if err != nil {
		return 0, 0, 0, err
	}
	vb, err := strconv.Atoi(b)
	if err != nil {
		return 0, 0, 0, err
	}
	vc, err := strconv.Atoi(c)
	if err != nil {
		return 0, 0, 0, err
	}
	return va, vb, vc, nil
}
