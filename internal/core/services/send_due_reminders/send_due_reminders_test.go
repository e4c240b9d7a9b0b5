package sendduereminders

import (
	"context"
	"errors"
	"fmt"
	"remindbot/internal/core/domain/logging"
	"remindbot/internal/core/domain/reminder"
	"remindbot/internal/core/domain/reply"
	"remindbot/internal/core/domain/sweep"
	"remindbot/internal/core/services"
	calltimeout "remindbot/internal/implementations/call_timeout"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

var Now = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

type testSuite struct {
	suite.Suite
	logger    *logging.FakeLogger
	repo      *reminder.FakeRepository
	messenger *reminder.FakeMessenger
	observer  *sweep.FakeObserver
	service   services.Service[Input, Result]
}

func (suite *testSuite) SetupTest() {
	suite.logger = logging.NewFakeLogger()
	suite.repo = reminder.NewFakeRepository(
		reminder.Reminder{ID: 1, UserID: "u1", TaskDescription: "r1", At: Now.Add(-3 * time.Minute), Status: reminder.StatusPending},
		reminder.Reminder{ID: 2, UserID: "u2", TaskDescription: "r2", At: Now.Add(-2 * time.Minute), Status: reminder.StatusPending},
		reminder.Reminder{ID: 3, UserID: "u3", TaskDescription: "r3", At: Now, Status: reminder.StatusPending},
		reminder.Reminder{ID: 4, UserID: "u1", TaskDescription: "future", At: Now.Add(time.Minute), Status: reminder.StatusPending},
		reminder.Reminder{ID: 5, UserID: "u1", TaskDescription: "old", At: Now.Add(-time.Hour), Status: reminder.StatusSent},
		reminder.Reminder{ID: 6, UserID: "u1", TaskDescription: "broken", At: Now.Add(-time.Hour), Status: reminder.StatusFailed},
	)
	suite.messenger = reminder.NewFakeMessenger()
	suite.observer = sweep.NewFakeObserver()
	suite.service = suite.newService(suite.messenger, 2)
}

func (suite *testSuite) newService(messenger reminder.Messenger, concurrency int) services.Service[Input, Result] {
	return New(
		suite.logger,
		suite.repo,
		messenger,
		reply.NewFakeComposer(),
		suite.observer,
		concurrency,
		func() time.Time { return Now },
	)
}

func (suite *testSuite) status(id reminder.ID) reminder.Status {
	rem, ok := suite.repo.Get(id)
	suite.Require().True(ok)
	return rem.Status
}

// cancellingRepository honours context cancellation the way a real store
// does.
type cancellingRepository struct {
	*reminder.FakeRepository
}

func (r cancellingRepository) Update(ctx context.Context, input reminder.UpdateInput) (reminder.Reminder, error) {
	if err := ctx.Err(); err != nil {
		return reminder.Reminder{}, err
	}
	return r.FakeRepository.Update(ctx, input)
}

// cancellingMessenger cancels the sweep context after a successful delivery.
type cancellingMessenger struct {
	*reminder.FakeMessenger
	cancel context.CancelFunc
}

func (m cancellingMessenger) Deliver(ctx context.Context, userID reminder.UserID, text string) error {
	err := m.FakeMessenger.Deliver(ctx, userID, text)
	m.cancel()
	return err
}

func TestSendDueRemindersService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestAllDelivered() {
	// Exercise ---
	result, err := s.service.Run(context.Background(), Input{})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Equal(3, result.Summary.Total)
	assert.Equal(3, result.Summary.Processed)
	assert.Equal(3, result.Summary.Delivered)
	assert.Equal(0, result.Summary.Errored)
	assert.ElementsMatch(
		[]string{"Notification:r1", "Notification:r2", "Notification:r3"},
		s.messenger.Texts(),
	)
	assert.Equal(reminder.StatusSent, s.status(1))
	assert.Equal(reminder.StatusSent, s.status(2))
	assert.Equal(reminder.StatusSent, s.status(3))
	assert.Equal(reminder.StatusPending, s.status(4))
	assert.Equal(reminder.StatusSent, s.status(5))
	assert.Equal(reminder.StatusFailed, s.status(6))
}

func (s *testSuite) TestPartialDeliveryFailure() {
	// Setup ---
	s.messenger.ErrorFunc = func(userID reminder.UserID, text string) error {
		if userID == "u2" {
			return errors.New("bridge unavailable")
		}
		return nil
	}

	// Exercise ---
	result, err := s.service.Run(context.Background(), Input{})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Equal(3, result.Summary.Total)
	assert.Equal(3, result.Summary.Processed)
	assert.Equal(2, result.Summary.Delivered)
	assert.Equal(1, result.Summary.DeliveryFailures)
	assert.Equal(1, result.Summary.Errored)
	assert.Equal(reminder.StatusSent, s.status(1))
	assert.Equal(reminder.StatusFailed, s.status(2))
	assert.Equal(reminder.StatusSent, s.status(3))
}

func (s *testSuite) TestSweepIsIdempotent() {
	// Exercise ---
	first, err1 := s.service.Run(context.Background(), Input{})
	second, err2 := s.service.Run(context.Background(), Input{})

	// Verify ---
	assert := s.Require()
	assert.Nil(err1)
	assert.Nil(err2)
	assert.Equal(3, first.Summary.Total)
	assert.Equal(0, second.Summary.Total)
	assert.Len(s.messenger.Delivered, 3)
}

func (s *testSuite) TestSendingMarkFailureStillDelivers() {
	// Setup ---
	s.repo.UpdateErrorFunc = func(input reminder.UpdateInput) error {
		if input.Status == reminder.StatusSending {
			return errors.New("lock timeout")
		}
		return nil
	}

	// Exercise ---
	result, err := s.service.Run(context.Background(), Input{})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Equal(3, result.Summary.Delivered)
	assert.Equal(0, result.Summary.Errored)
	assert.Equal(reminder.StatusSent, s.status(1))
	assert.Equal(reminder.StatusSent, s.status(2))
	assert.Equal(reminder.StatusSent, s.status(3))
	assert.Len(s.logger.Records(logging.WARNING), 3)
}

func (s *testSuite) TestFinalStatusWriteFailureIsCountedSeparately() {
	// Setup ---
	s.repo.UpdateErrorFunc = func(input reminder.UpdateInput) error {
		if input.ID == 3 && input.Status == reminder.StatusSent {
			return errors.New("connection reset")
		}
		return nil
	}

	// Exercise ---
	result, err := s.service.Run(context.Background(), Input{})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Equal(3, result.Summary.Processed)
	assert.Equal(3, result.Summary.Delivered)
	assert.Equal(0, result.Summary.DeliveryFailures)
	assert.Equal(1, result.Summary.StatusUpdateFailures)
	assert.Equal(1, result.Summary.Errored)
	assert.Equal(reminder.StatusSending, s.status(3))
}

func (s *testSuite) TestReminderClaimedElsewhereIsSkipped() {
	// Setup ---
	s.repo.UpdateErrorFunc = func(input reminder.UpdateInput) error {
		if input.ID == 1 && input.StatusEquals.IsPresent {
			return reminder.ErrReminderDoesNotExist
		}
		return nil
	}

	// Exercise ---
	result, err := s.service.Run(context.Background(), Input{})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Equal(3, result.Summary.Total)
	assert.Equal(1, result.Summary.Skipped)
	assert.Equal(2, result.Summary.Processed)
	assert.NotContains(s.messenger.Texts(), "Notification:r1")
	assert.Equal(reminder.StatusPending, s.status(1))
}

func (s *testSuite) TestDeliveryTimeoutCountsAsFailure() {
	// Setup ---
	s.messenger.Delay = time.Second
	s.service = s.newService(calltimeout.Messenger(s.messenger, 10*time.Millisecond), 3)

	// Exercise ---
	result, err := s.service.Run(context.Background(), Input{})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Equal(3, result.Summary.DeliveryFailures)
	assert.Equal(3, result.Summary.Errored)
	assert.Equal(reminder.StatusFailed, s.status(1))
	assert.Equal(reminder.StatusFailed, s.status(2))
	assert.Equal(reminder.StatusFailed, s.status(3))
}

func (s *testSuite) TestListingFailure() {
	// Setup ---
	s.repo.ReadError = errors.New("db is down")

	// Exercise ---
	_, err := s.service.Run(context.Background(), Input{})

	// Verify ---
	assert := s.Require()
	assert.ErrorIs(err, s.repo.ReadError)
	assert.Empty(s.messenger.Attempted)
	assert.Empty(s.observer.Observed)
}

func (s *testSuite) TestObserverIsNotified() {
	// Setup ---
	s.observer.Error = errors.New("sse is closed")

	// Exercise ---
	result, err := s.service.Run(context.Background(), Input{})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Len(s.observer.Observed, 1)
	assert.Equal(result.Summary, s.observer.Observed[0])
	assert.Equal(Now, result.Summary.StartedAt)
}

func (s *testSuite) TestManyRemindersWithBoundedConcurrency() {
	// Setup ---
	s.repo = reminder.NewFakeRepository()
	for i := 1; i <= 25; i++ {
		s.repo.Reminders = append(s.repo.Reminders, reminder.Reminder{
			ID:              reminder.ID(i),
			UserID:          reminder.UserID(fmt.Sprintf("u%d", i)),
			TaskDescription: fmt.Sprintf("task %d", i),
			At:              Now.Add(-time.Duration(i) * time.Second),
			Status:          reminder.StatusPending,
		})
	}
	s.service = s.newService(s.messenger, 3)

	// Exercise ---
	result, err := s.service.Run(context.Background(), Input{})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Equal(25, result.Summary.Total)
	assert.Equal(25, result.Summary.Delivered)
	assert.Len(s.messenger.Delivered, 25)
}

func (s *testSuite) TestPanickingDeliveryIsFailure() {
	// Setup ---
	s.messenger.ErrorFunc = func(userID reminder.UserID, text string) error {
		if userID == "u2" {
			panic("boom")
		}
		return nil
	}

	// Exercise ---
	result, err := s.service.Run(context.Background(), Input{})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Equal(3, result.Summary.Processed)
	assert.Equal(2, result.Summary.Delivered)
	assert.Equal(1, result.Summary.DeliveryFailures)
	assert.Equal(1, result.Summary.Errored)
	assert.Equal(reminder.StatusSent, s.status(1))
	assert.Equal(reminder.StatusFailed, s.status(2))
	assert.Equal(reminder.StatusSent, s.status(3))
	assert.Len(s.observer.Observed, 1)
}

func (s *testSuite) TestFinalStatusIsWrittenAfterCallerCancels() {
	// Setup ---
	s.repo = reminder.NewFakeRepository(
		reminder.Reminder{ID: 1, UserID: "u1", TaskDescription: "r1", At: Now.Add(-time.Minute), Status: reminder.StatusPending},
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	service := New(
		s.logger,
		cancellingRepository{s.repo},
		cancellingMessenger{FakeMessenger: s.messenger, cancel: cancel},
		reply.NewFakeComposer(),
		s.observer,
		1,
		func() time.Time { return Now },
	)

	// Exercise ---
	result, err := service.Run(ctx, Input{})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Equal(1, result.Summary.Delivered)
	assert.Equal(0, result.Summary.StatusUpdateFailures)
	assert.Equal(0, result.Summary.Errored)
	assert.Equal(reminder.StatusSent, s.status(1))
}
