package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/cyclekit/internal/db"
	"github.com/terraincognita07/cyclekit/internal/i18n"
	"github.com/terraincognita07/cyclekit/internal/metrics"
	"github.com/terraincognita07/cyclekit/internal/services"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

var testNow = time.Date(2024, time.December, 2, 8, 0, 0, 0, time.UTC)

type testApp struct {
	app     *fiber.App
	repos   *db.Repositories
	metrics *metrics.Metrics
}

func newTestApp(t *testing.T, secretKey string) *testApp {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "cyclekit-api.db"), logger)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	manager, err := i18n.NewEmbeddedManager(i18n.LangEN)
	if err != nil {
		t.Fatalf("load locales: %v", err)
	}

	repos := db.NewRepositories(database)
	clock := func() time.Time { return testNow }
	m := metrics.New()

	handler, err := NewHandler(Dependencies{
		Cycles: services.NewCycleService(
			repos.Cycles,
			repos.Reminders,
			services.WithTransactor(repos),
			services.WithClock(clock),
			services.WithLogger(logger),
		),
		Reminders: services.NewReminderService(repos.Reminders),
		I18n:      manager,
		Metrics:   m,
		Logger:    logger,
		SecretKey: []byte(secretKey),
		Now:       clock,
	})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}

	return &testApp{app: NewApp(handler), repos: repos, metrics: m}
}

type testRequest struct {
	method   string
	path     string
	body     string
	token    string
	language string
}

func (ta *testApp) do(t *testing.T, request testRequest) *http.Response {
	t.Helper()

	var body io.Reader
	if request.body != "" {
		body = strings.NewReader(request.body)
	}
	httpRequest := httptest.NewRequest(request.method, request.path, body)
	if request.body != "" {
		httpRequest.Header.Set("Content-Type", "application/json")
	}
	if request.token != "" {
		httpRequest.Header.Set("Authorization", "Bearer "+request.token)
	}
	if request.language != "" {
		httpRequest.Header.Set("Accept-Language", request.language)
	}

	response, err := ta.app.Test(httpRequest, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", request.method, request.path, err)
	}
	t.Cleanup(func() { _ = response.Body.Close() })
	return response
}

func mustIssueToken(t *testing.T, customerID string) string {
	t.Helper()
	token, err := IssueToken([]byte(testSecretKey), customerID, time.Hour, testNow)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}
