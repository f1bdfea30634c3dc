package models

import (
	"strings"
	"time"
)

type ReminderType string

const (
	ReminderPeriod    ReminderType = "period"
	ReminderOvulation ReminderType = "ovulation"
	ReminderPill      ReminderType = "pill"
)

// CycleReminderTypes lists every type derived from a cycle. Regeneration and
// cycle deletion clear exactly this set.
func CycleReminderTypes() []ReminderType {
	return []ReminderType{ReminderPeriod, ReminderOvulation, ReminderPill}
}

func ParseReminderType(raw string) (ReminderType, bool) {
	switch ReminderType(strings.ToLower(strings.TrimSpace(raw))) {
	case ReminderPeriod:
		return ReminderPeriod, true
	case ReminderOvulation:
		return ReminderOvulation, true
	case ReminderPill:
		return ReminderPill, true
	default:
		return "", false
	}
}

type Reminder struct {
	ID         string       `gorm:"primaryKey" json:"id"`
	CustomerID string       `gorm:"not null;index:idx_reminders_customer_type" json:"customer_id"`
	Type       ReminderType `gorm:"not null;index:idx_reminders_customer_type" json:"type"`
	Date       time.Time    `gorm:"not null;index" json:"date"`
	Message    string       `gorm:"not null" json:"message"`
	IsSent     bool         `gorm:"not null;default:false" json:"is_sent"`
	CreatedAt  time.Time    `json:"created_at"`
}
