package services

import (
	"errors"
	"sort"
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

var ErrInvalidPeriodDay = errors.New("invalid period day")

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

func ParseDay(raw string, location *time.Location) (time.Time, error) {
	if location == nil {
		location = time.UTC
	}
	parsed, err := time.ParseInLocation(dayLayout, strings.TrimSpace(raw), location)
	if err != nil {
		return time.Time{}, ErrInvalidPeriodDay
	}
	return parsed, nil
}

func FormatDay(value time.Time) string {
	return value.Format(dayLayout)
}

// NormalizePeriodDays parses ISO dates, drops duplicates and sorts them
// ascending. The result satisfies the ordering precondition of
// ComputeCycleEvents.
func NormalizePeriodDays(raw []string, location *time.Location) ([]time.Time, error) {
	seen := make(map[string]struct{}, len(raw))
	days := make([]time.Time, 0, len(raw))
	for _, value := range raw {
		day, err := ParseDay(value, location)
		if err != nil {
			return nil, err
		}
		key := FormatDay(day)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		days = append(days, day)
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].Before(days[j])
	})
	return days, nil
}

func FormatPeriodDays(days []time.Time) []string {
	formatted := make([]string, 0, len(days))
	for _, day := range days {
		formatted = append(formatted, FormatDay(day))
	}
	return formatted
}

// ParseStoredPeriodDays reads period days that were normalized on write.
func ParseStoredPeriodDays(raw []string, location *time.Location) ([]time.Time, error) {
	days := make([]time.Time, 0, len(raw))
	for _, value := range raw {
		day, err := ParseDay(value, location)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}

func calendarDaysBetween(from time.Time, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
