package handlers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/dimitrije/wicket-api/internal/middleware"
	"github.com/dimitrije/wicket-api/internal/rollover"
	"github.com/dimitrije/wicket-api/pkg/dto"
	"github.com/dimitrije/wicket-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupAdminTest(t *testing.T, now time.Time) (*testutil.MockRollover, http.Handler) {
	t.Helper()
	runner := new(testutil.MockRollover)
	handler := NewAdminHandler(runner)
	handler.now = func() time.Time { return now }

	app := drift.New()
	admin := app.Group("/admin")
	admin.Use(middleware.Auth(testutil.TestJWTService()))
	admin.Use(middleware.RequireSuperAdmin())
	admin.Post("/rollover", handler.RunRollover)

	return runner, app
}

func TestAdminHandler_RunRollover(t *testing.T) {
	now := time.Date(2024, 6, 9, 23, 59, 0, 0, ist)
	runner, app := setupAdminTest(t, now)
	failed := uuid.New()

	runner.On("RunOnce", mock.Anything, sameTime(now)).Return(rollover.Report{
		SourceWeek: time.Date(2024, 6, 3, 0, 0, 0, 0, ist),
		TargetWeek: time.Date(2024, 6, 10, 0, 0, 0, 0, ist),
		Cloned:     3,
		Skipped:    1,
		Failures:   []rollover.Failure{{GroundID: failed, Name: "Cross Maidan", Err: errors.New("connection reset")}},
	}, nil)

	rec := doRequest(t, app, http.MethodPost, "/admin/rollover", testutil.GenerateAdminToken(t, uuid.New()), nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var got dto.RolloverReportResponse
	testutil.ParseJSON(t, rec, &got)
	assert.Equal(t, "2024-06-03", got.SourceWeek)
	assert.Equal(t, "2024-06-10", got.TargetWeek)
	assert.Equal(t, 3, got.Cloned)
	assert.Equal(t, 1, got.Skipped)
	require.Len(t, got.Failures, 1)
	assert.Equal(t, failed, got.Failures[0].GroundID)
	assert.Equal(t, "connection reset", got.Failures[0].Error)
}

func TestAdminHandler_RunRollover_NoFailures(t *testing.T) {
	now := time.Date(2024, 6, 9, 23, 59, 0, 0, ist)
	runner, app := setupAdminTest(t, now)

	runner.On("RunOnce", mock.Anything, mock.Anything).Return(rollover.Report{Cloned: 2}, nil)

	rec := doRequest(t, app, http.MethodPost, "/admin/rollover", testutil.GenerateAdminToken(t, uuid.New()), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"failures":[]`)
}

func TestAdminHandler_RunRollover_ListFails(t *testing.T) {
	runner, app := setupAdminTest(t, time.Now())

	runner.On("RunOnce", mock.Anything, mock.Anything).Return(rollover.Report{}, errors.New("list grounds: connection refused"))

	rec := doRequest(t, app, http.MethodPost, "/admin/rollover", testutil.GenerateAdminToken(t, uuid.New()), nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAdminHandler_RunRollover_RequiresSuperAdmin(t *testing.T) {
	runner, app := setupAdminTest(t, time.Now())

	rec := doRequest(t, app, http.MethodPost, "/admin/rollover", testutil.GenerateTestToken(t, uuid.New(), "captain@example.com"), nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	runner.AssertNotCalled(t, "RunOnce", mock.Anything, mock.Anything)
}
