package editreminder

import (
	"context"
	"errors"
	c "remindbot/internal/core/domain/common"
	"remindbot/internal/core/domain/logging"
	"remindbot/internal/core/domain/reminder"
	"remindbot/internal/core/services"
	findtargets "remindbot/internal/core/services/find_targets"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

var (
	Now        = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	MeetingAt  = Now.Add(26 * time.Hour)
	TomorrowAt = time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
)

type testSuite struct {
	suite.Suite
	repo     *reminder.FakeRepository
	resolver *reminder.FakeTimeResolver
	service  services.Service[Input, Result]
}

func (suite *testSuite) SetupTest() {
	log := logging.NewFakeLogger()
	suite.repo = reminder.NewFakeRepository(
		reminder.Reminder{ID: 1, UserID: "u1", TaskDescription: "meeting", At: MeetingAt, Status: reminder.StatusPending},
		reminder.Reminder{ID: 2, UserID: "u1", TaskDescription: "call mom", At: Now.Add(2 * time.Hour), Status: reminder.StatusPending},
		reminder.Reminder{ID: 3, UserID: "u1", TaskDescription: "call dad", At: Now.Add(time.Hour), Status: reminder.StatusPending},
	)
	suite.resolver = reminder.NewFakeTimeResolver(map[string]time.Time{"tomorrow 10am": TomorrowAt})
	suite.service = New(
		log,
		suite.repo,
		suite.resolver,
		findtargets.New(log, suite.repo),
		func() time.Time { return Now },
	)
}

func TestEditReminderService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestEditTimeOnly() {
	// Exercise ---
	result, err := s.service.Run(context.Background(), Input{
		UserID:  "u1",
		Target:  c.NewOptional("meeting", true),
		NewTime: c.NewOptional("tomorrow 10am", true),
	})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Equal("meeting", result.Reminder.TaskDescription)
	assert.Equal(TomorrowAt, result.Reminder.At)
	assert.Equal(reminder.StatusPending, result.Reminder.Status)
	stored, _ := s.repo.Get(1)
	assert.Equal(TomorrowAt, stored.At)
	assert.Equal("meeting", stored.TaskDescription)
}

func (s *testSuite) TestEditTaskOnly() {
	// Exercise ---
	result, err := s.service.Run(context.Background(), Input{
		UserID:  "u1",
		Target:  c.NewOptional("meeting", true),
		NewTask: c.NewOptional("important meeting", true),
	})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Equal("important meeting", result.Reminder.TaskDescription)
	assert.Equal(MeetingAt, result.Reminder.At)
	assert.Empty(s.resolver.Calls)
	assert.False(s.repo.Updated[0].DoAtUpdate)
}

func (s *testSuite) TestEditBoth() {
	// Exercise ---
	result, err := s.service.Run(context.Background(), Input{
		UserID:  "u1",
		Target:  c.NewOptional("meeting", true),
		NewTask: c.NewOptional("board meeting", true),
		NewTime: c.NewOptional("tomorrow 10am", true),
	})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Equal("board meeting", result.Reminder.TaskDescription)
	assert.Equal(TomorrowAt, result.Reminder.At)
}

func (s *testSuite) TestValidation() {
	cases := []struct {
		id       string
		input    Input
		expected error
	}{
		{
			id:       "no target",
			input:    Input{UserID: "u1", NewTask: c.NewOptional("x", true)},
			expected: reminder.ErrTargetRequired,
		},
		{
			id:       "no updates",
			input:    Input{UserID: "u1", Target: c.NewOptional("meeting", true)},
			expected: reminder.ErrUpdatesRequired,
		},
	}
	for _, testcase := range cases {
		s.Run(testcase.id, func() {
			_, err := s.service.Run(context.Background(), testcase.input)

			assert := s.Require()
			assert.ErrorIs(err, testcase.expected)
			assert.Empty(s.repo.ReadWith)
			assert.Empty(s.repo.Updated)
		})
	}
}

func (s *testSuite) TestUnresolvedTimeLeavesReminderUnchanged() {
	// Setup ---
	before, _ := s.repo.Get(1)

	// Exercise ---
	_, err := s.service.Run(context.Background(), Input{
		UserID:  "u1",
		Target:  c.NewOptional("meeting", true),
		NewTask: c.NewOptional("renamed", true),
		NewTime: c.NewOptional("when pigs fly", true),
	})

	// Verify ---
	assert := s.Require()
	assert.ErrorIs(err, reminder.ErrTimeNotResolved)
	assert.Empty(s.repo.Updated)
	after, _ := s.repo.Get(1)
	assert.Equal(before, after)
}

func (s *testSuite) TestNoMatchAndAmbiguousDoNotMutate() {
	assert := s.Require()

	_, err := s.service.Run(context.Background(), Input{
		UserID:  "u1",
		Target:  c.NewOptional("gym", true),
		NewTask: c.NewOptional("x", true),
	})
	assert.ErrorIs(err, reminder.ErrNoMatchingReminder)

	_, err = s.service.Run(context.Background(), Input{
		UserID:  "u1",
		Target:  c.NewOptional("call", true),
		NewTask: c.NewOptional("x", true),
	})
	var ambiguous *reminder.AmbiguousTargetError
	assert.ErrorAs(err, &ambiguous)
	assert.Len(ambiguous.Candidates, 2)

	assert.Empty(s.repo.Updated)
}

func (s *testSuite) TestQueryFailure() {
	// Setup ---
	s.repo.ReadError = errors.New("db is down")

	// Exercise ---
	_, err := s.service.Run(context.Background(), Input{
		UserID:  "u1",
		Target:  c.NewOptional("meeting", true),
		NewTask: c.NewOptional("x", true),
	})

	// Verify ---
	assert := s.Require()
	assert.ErrorIs(err, reminder.ErrTargetQueryFailed)
	assert.Empty(s.repo.Updated)
}

func (s *testSuite) TestUpdateIsGuardedByPendingStatus() {
	// Setup ---
	s.repo.UpdateErrorFunc = func(input reminder.UpdateInput) error {
		return reminder.ErrReminderDoesNotExist
	}

	// Exercise ---
	_, err := s.service.Run(context.Background(), Input{
		UserID:  "u1",
		Target:  c.NewOptional("meeting", true),
		NewTask: c.NewOptional("x", true),
	})

	// Verify ---
	assert := s.Require()
	assert.ErrorIs(err, reminder.ErrNoMatchingReminder)
	assert.Equal(c.NewOptional(reminder.StatusPending, true), s.repo.Updated[0].StatusEquals)
}

func (s *testSuite) TestUpdateFailure() {
	// Setup ---
	s.repo.UpdateError = errors.New("db is down")

	// Exercise ---
	_, err := s.service.Run(context.Background(), Input{
		UserID:  "u1",
		Target:  c.NewOptional("meeting", true),
		NewTask: c.NewOptional("x", true),
	})

	// Verify ---
	assert := s.Require()
	assert.ErrorIs(err, s.repo.UpdateError)
}
