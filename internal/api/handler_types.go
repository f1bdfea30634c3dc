package api

import (
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/cyclekit/internal/i18n"
	"github.com/terraincognita07/cyclekit/internal/metrics"
	"github.com/terraincognita07/cyclekit/internal/services"
)

type Handler struct {
	cycles            *services.CycleService
	reminders         *services.ReminderService
	i18n              *i18n.Manager
	metrics           *metrics.Metrics
	logger            logrus.FieldLogger
	accessLog         io.Writer
	secretKey         []byte
	now               func() time.Time
	calendarProductID string
}

type createCyclePayload struct {
	CustomerID  string   `json:"customer_id"`
	PeriodDays  []string `json:"period_days"`
	CycleLength int      `json:"cycle_length"`
	Notes       string   `json:"notes"`
}

// updateCyclePayload distinguishes absent fields from zero values. An absent
// or null period_days leaves reminders alone; an empty list clears them.
type updateCyclePayload struct {
	PeriodDays  *[]string `json:"period_days"`
	CycleLength *int      `json:"cycle_length"`
	Notes       *string   `json:"notes"`
}

type previewPayload struct {
	PeriodDays  []string   `json:"period_days"`
	CycleLength int        `json:"cycle_length"`
	Now         *time.Time `json:"now"`
}

const (
	defaultTokenTTL = 30 * 24 * time.Hour
	tokenIssuer     = "cyclekit"
)

type authClaims struct {
	jwt.RegisteredClaims
}
