package models

import "time"

const (
	DefaultCycleLength = 28
	MinCycleLength     = 16
	MaxCycleLength     = 90
)

type Cycle struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	CustomerID  string    `gorm:"not null;index" json:"customer_id"`
	PeriodDays  []string  `gorm:"serializer:json" json:"period_days"`
	CycleLength int       `gorm:"not null;default:28" json:"cycle_length"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
