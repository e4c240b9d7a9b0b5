package triggersweep

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"remindbot/internal/core/domain/logging"
	"remindbot/internal/core/domain/sweep"
	service "remindbot/internal/core/services/send_due_reminders"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubService struct {
	summary sweep.Summary
	err     error
	calls   int
	ctxErr  error
}

func (s *stubService) Run(ctx context.Context, input service.Input) (result service.Result, err error) {
	s.calls++
	s.ctxErr = ctx.Err()
	if s.err != nil {
		return result, s.err
	}
	result.Summary = s.summary
	return result, nil
}

func TestTriggerSweep(t *testing.T) {
	// Setup ---
	stub := &stubService{summary: sweep.Summary{
		StartedAt:            time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		FinishedAt:           time.Date(2024, 5, 1, 9, 0, 1, 0, time.UTC),
		Total:                5,
		Processed:            4,
		Skipped:              1,
		Delivered:            3,
		DeliveryFailures:     1,
		StatusUpdateFailures: 0,
		Errored:              1,
	}}
	handler := New(logging.NewFakeLogger(), stub)
	rw := httptest.NewRecorder()

	// Exercise ---
	handler.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/trigger/send-reminders", nil))

	// Verify ---
	require.Equal(t, http.StatusOK, rw.Code)
	require.JSONEq(t, `{
		"message": "Trigger processed",
		"startedAt": "2024-05-01T09:00:00Z",
		"finishedAt": "2024-05-01T09:00:01Z",
		"total": 5,
		"processed": 4,
		"errors": 1,
		"skipped": 1,
		"delivered": 3,
		"deliveryFailures": 1,
		"statusUpdateFailures": 0
	}`, rw.Body.String())
	require.Equal(t, 1, stub.calls)
}

func TestTriggerSweepFailure(t *testing.T) {
	stub := &stubService{err: errors.New("db is down")}
	handler := New(logging.NewFakeLogger(), stub)
	rw := httptest.NewRecorder()

	handler.ServeHTTP(rw, httptest.NewRequest(http.MethodPost, "/trigger/send-reminders", nil))

	require.Equal(t, http.StatusInternalServerError, rw.Code)
}

func TestTriggerSweepOutlivesRequest(t *testing.T) {
	// Setup ---
	stub := &stubService{}
	handler := New(logging.NewFakeLogger(), stub)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/trigger/send-reminders", nil).WithContext(ctx)

	// Exercise ---
	handler.ServeHTTP(httptest.NewRecorder(), req)

	// Verify ---
	require.Equal(t, 1, stub.calls)
	require.Nil(t, stub.ctxErr)
}
