package createreminder

import (
	"context"
	"errors"
	c "remindbot/internal/core/domain/common"
	"remindbot/internal/core/domain/logging"
	"remindbot/internal/core/domain/reminder"
	"remindbot/internal/core/services"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

const USER_ID = reminder.UserID("6281234567890@c.us")

var (
	Now        = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	InTwoHours = Now.Add(2 * time.Hour)
)

type testSuite struct {
	suite.Suite
	logger   *logging.FakeLogger
	repo     *reminder.FakeRepository
	resolver *reminder.FakeTimeResolver
	service  services.Service[Input, Result]
}

func (suite *testSuite) SetupTest() {
	suite.logger = logging.NewFakeLogger()
	suite.repo = reminder.NewFakeRepository()
	suite.resolver = reminder.NewFakeTimeResolver(map[string]time.Time{"in 2 hours": InTwoHours})
	suite.service = New(
		suite.logger,
		suite.repo,
		suite.resolver,
		func() time.Time { return Now },
	)
}

func TestCreateReminderService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestCreateSuccess() {
	// Exercise ---
	result, err := s.service.Run(context.Background(), Input{
		UserID: USER_ID,
		Task:   c.NewOptional("call mom", true),
		Time:   c.NewOptional("in 2 hours", true),
	})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Equal(USER_ID, result.Reminder.UserID)
	assert.Equal("call mom", result.Reminder.TaskDescription)
	assert.Equal(InTwoHours, result.Reminder.At)
	assert.Equal(reminder.StatusPending, result.Reminder.Status)
	assert.Equal(Now, result.Reminder.CreatedAt)

	stored, ok := s.repo.Get(result.Reminder.ID)
	assert.True(ok)
	assert.Equal(result.Reminder, stored)
	assert.Equal([]string{"in 2 hours"}, s.resolver.Calls)
}

func (s *testSuite) TestMissingFields() {
	cases := []struct {
		id       string
		input    Input
		expected error
	}{
		{
			id:       "no task",
			input:    Input{UserID: USER_ID, Time: c.NewOptional("in 2 hours", true)},
			expected: reminder.ErrTaskRequired,
		},
		{
			id:       "no time",
			input:    Input{UserID: USER_ID, Task: c.NewOptional("call mom", true)},
			expected: reminder.ErrTimeRequired,
		},
		{
			id:       "nothing",
			input:    Input{UserID: USER_ID},
			expected: reminder.ErrTaskRequired,
		},
	}
	for _, testcase := range cases {
		s.Run(testcase.id, func() {
			_, err := s.service.Run(context.Background(), testcase.input)

			assert := s.Require()
			assert.ErrorIs(err, testcase.expected)
			assert.Empty(s.repo.Created)
			assert.Empty(s.resolver.Calls)
		})
	}
}

func (s *testSuite) TestTimeNotResolved() {
	// Exercise ---
	_, err := s.service.Run(context.Background(), Input{
		UserID: USER_ID,
		Task:   c.NewOptional("call mom", true),
		Time:   c.NewOptional("someday", true),
	})

	// Verify ---
	assert := s.Require()
	assert.ErrorIs(err, reminder.ErrTimeNotResolved)
	assert.Empty(s.repo.Created)
	assert.Empty(s.repo.Reminders)
}

func (s *testSuite) TestStoreFailure() {
	// Setup ---
	s.repo.CreateError = errors.New("connection refused")

	// Exercise ---
	_, err := s.service.Run(context.Background(), Input{
		UserID: USER_ID,
		Task:   c.NewOptional("call mom", true),
		Time:   c.NewOptional("in 2 hours", true),
	})

	// Verify ---
	assert := s.Require()
	assert.ErrorIs(err, reminder.ErrCouldNotSave)
	assert.ErrorIs(err, s.repo.CreateError)
	assert.Empty(s.repo.Reminders)
	assert.Len(s.logger.Records(logging.ERROR), 1)
}
