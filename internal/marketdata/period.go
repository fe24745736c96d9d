package marketdata

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidPeriod is returned for period strings that cannot be resolved
var ErrInvalidPeriod = errors.New("invalid period")

// DefaultPeriods are the lookback options offered by the analyzer
var DefaultPeriods = []string{"1y", "2y", "5y", "10y", "ytd"}

// DateRange is a closed [From, To] calendar interval
type DateRange struct {
	From time.Time
	To   time.Time
}

// ResolvePeriod turns a lookback string into a date range ending at now.
// Accepted forms: ytd, <n>d, <n>mo, <n>y
func ResolvePeriod(period string, now time.Time) (DateRange, error) {
	p := strings.ToLower(strings.TrimSpace(period))
	to := truncateDay(now)

	if p == "ytd" {
		return DateRange{From: time.Date(to.Year(), time.January, 1, 0, 0, 0, 0, to.Location()), To: to}, nil
	}

	var unit string
	switch {
	case strings.HasSuffix(p, "mo"):
		unit = "mo"
	case strings.HasSuffix(p, "y"):
		unit = "y"
	case strings.HasSuffix(p, "d"):
		unit = "d"
	default:
		return DateRange{}, fmt.Errorf("%w: %q (expected ytd, <n>d, <n>mo or <n>y)", ErrInvalidPeriod, period)
	}

	n, err := strconv.Atoi(strings.TrimSuffix(p, unit))
	if err != nil || n <= 0 {
		return DateRange{}, fmt.Errorf("%w: %q (count must be a positive integer)", ErrInvalidPeriod, period)
	}

	var from time.Time
	switch unit {
	case "d":
		from = to.AddDate(0, 0, -n)
	case "mo":
		from = to.AddDate(0, -n, 0)
	case "y":
		from = to.AddDate(-n, 0, 0)
	}

	return DateRange{From: from, To: to}, nil
}

// ValidPeriod reports whether ResolvePeriod accepts period
func ValidPeriod(period string) bool {
	_, err := ResolvePeriod(period, time.Now())
	return err == nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
