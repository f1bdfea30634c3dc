package services

import (
	"time"

	"github.com/terraincognita07/cyclekit/internal/models"
)

const (
	ovulationOffsetDays    = 14
	fertileWindowLeadDays  = 5
	fertileWindowTrailDays = 1
)

type CycleEvents struct {
	FirstPeriodDay     time.Time `json:"first_period_day"`
	OvulationDate      time.Time `json:"ovulation_date"`
	FertileWindowStart time.Time `json:"fertile_window_start"`
	FertileWindowEnd   time.Time `json:"fertile_window_end"`
	NextPeriodDate     time.Time `json:"next_period_date"`
	PeriodEndDate      time.Time `json:"period_end_date"`
}

// ComputeCycleEvents derives the cycle timeline from observed period days.
// periodDays must be sorted chronologically: the first element is taken as
// the cycle start and the last as the period end. It returns nil when no
// period day is given. A cycleLengthDays of zero or less falls back to
// models.DefaultCycleLength. The fertile window ends strictly before the next
// period only for cycle lengths above 15.
func ComputeCycleEvents(periodDays []time.Time, cycleLengthDays int) *CycleEvents {
	if len(periodDays) == 0 {
		return nil
	}
	if cycleLengthDays <= 0 {
		cycleLengthDays = models.DefaultCycleLength
	}

	first := periodDays[0]
	ovulation := first.AddDate(0, 0, ovulationOffsetDays)

	return &CycleEvents{
		FirstPeriodDay:     first,
		OvulationDate:      ovulation,
		FertileWindowStart: ovulation.AddDate(0, 0, -fertileWindowLeadDays),
		FertileWindowEnd:   ovulation.AddDate(0, 0, fertileWindowTrailDays),
		NextPeriodDate:     first.AddDate(0, 0, cycleLengthDays),
		PeriodEndDate:      periodDays[len(periodDays)-1],
	}
}

func IsValidCycleLength(value int) bool {
	return value >= models.MinCycleLength && value <= models.MaxCycleLength
}
