package api

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/terraincognita07/cyclekit/internal/models"
)

type reminderListPayload struct {
	Reminders []models.Reminder `json:"reminders"`
}

func TestListRemindersFiltersByType(t *testing.T) {
	ta := newTestApp(t, "")
	createTestCycle(t, ta, `{"customer_id":"customer-1","period_days":["2024-12-01"]}`)

	response := ta.do(t, testRequest{method: http.MethodGet, path: "/api/customers/customer-1/reminders?type=period,ovulation"})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", response.StatusCode)
	}
	payload := reminderListPayload{}
	decodeJSON(t, response.Body, &payload)
	if len(payload.Reminders) != 2 {
		t.Fatalf("expected period and ovulation reminders, got %d", len(payload.Reminders))
	}
	if payload.Reminders[0].Type != models.ReminderOvulation || payload.Reminders[1].Type != models.ReminderPeriod {
		t.Fatalf("expected reminders ordered by date, got %s then %s", payload.Reminders[0].Type, payload.Reminders[1].Type)
	}

	response = ta.do(t, testRequest{method: http.MethodGet, path: "/api/customers/customer-1/reminders?type=birthday"})
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400 for unknown type, got %d", response.StatusCode)
	}
}

func TestExportReminderCalendar(t *testing.T) {
	ta := newTestApp(t, "")

	response := ta.do(t, testRequest{method: http.MethodGet, path: "/api/customers/customer-1/reminders.ics"})
	if response.StatusCode != http.StatusNoContent {
		t.Fatalf("expected status 204 without reminders, got %d", response.StatusCode)
	}

	createTestCycle(t, ta, `{"customer_id":"customer-1","period_days":["2024-12-01"]}`)

	response = ta.do(t, testRequest{method: http.MethodGet, path: "/api/customers/customer-1/reminders.ics?type=pill"})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", response.StatusCode)
	}
	if contentType := response.Header.Get("Content-Type"); !strings.HasPrefix(contentType, "text/calendar") {
		t.Fatalf("expected text/calendar, got %q", contentType)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	feed := string(body)
	if !strings.Contains(feed, "BEGIN:VCALENDAR") {
		t.Fatalf("expected calendar feed, got %q", feed)
	}
	if count := strings.Count(feed, "BEGIN:VEVENT"); count != 3 {
		t.Fatalf("expected 3 pill events, got %d", count)
	}
}

func TestMarkReminderSent(t *testing.T) {
	ta := newTestApp(t, "")
	created := createTestCycle(t, ta, `{"customer_id":"customer-1","period_days":["2024-12-01"]}`)
	reminderID := created.Reminders[0].ID

	for attempt := 0; attempt < 2; attempt++ {
		response := ta.do(t, testRequest{method: http.MethodPost, path: "/api/reminders/" + reminderID + "/sent"})
		if response.StatusCode != http.StatusOK {
			t.Fatalf("attempt %d: expected status 200, got %d", attempt, response.StatusCode)
		}
		reminder := models.Reminder{}
		decodeJSON(t, response.Body, &reminder)
		if !reminder.IsSent {
			t.Fatalf("attempt %d: expected reminder to be sent", attempt)
		}
	}

	response := ta.do(t, testRequest{method: http.MethodPost, path: "/api/reminders/missing/sent"})
	if response.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", response.StatusCode)
	}
}

func TestMetricsEndpointCountsCycleOperations(t *testing.T) {
	ta := newTestApp(t, "")
	createTestCycle(t, ta, `{"customer_id":"customer-1","period_days":["2024-12-01"]}`)

	response := ta.do(t, testRequest{method: http.MethodGet, path: "/metrics"})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", response.StatusCode)
	}
	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	for _, metric := range []string{
		`cyclekit_cycles_operations_total{operation="create",result="ok"} 1`,
		`cyclekit_reminders_created_total{type="pill"} 3`,
	} {
		if !strings.Contains(string(body), metric) {
			t.Fatalf("expected %q in metrics output", metric)
		}
	}
}
