package findtargets

import (
	"context"
	"errors"
	"remindbot/internal/core/domain/logging"
	"remindbot/internal/core/domain/reminder"
	"remindbot/internal/core/services"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

var Now = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

type testSuite struct {
	suite.Suite
	repo    *reminder.FakeRepository
	service services.Service[Input, Result]
}

func (suite *testSuite) SetupTest() {
	suite.repo = reminder.NewFakeRepository(
		reminder.Reminder{ID: 1, UserID: "u1", TaskDescription: "Call mom", At: Now.Add(2 * time.Hour), Status: reminder.StatusPending},
		reminder.Reminder{ID: 2, UserID: "u1", TaskDescription: "call dad", At: Now.Add(time.Hour), Status: reminder.StatusPending},
		reminder.Reminder{ID: 3, UserID: "u1", TaskDescription: "dentist", At: Now.Add(time.Hour), Status: reminder.StatusPending},
		reminder.Reminder{ID: 4, UserID: "u1", TaskDescription: "dentist again", At: Now, Status: reminder.StatusSent},
		reminder.Reminder{ID: 5, UserID: "u2", TaskDescription: "dentist", At: Now, Status: reminder.StatusPending},
		reminder.Reminder{ID: 6, UserID: "u1", TaskDescription: "100% done", At: Now, Status: reminder.StatusPending},
	)
	suite.service = New(logging.NewFakeLogger(), suite.repo)
}

func TestFindTargetsService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestOutcomes() {
	cases := []struct {
		id       string
		fragment string
		outcome  Outcome
		ids      []reminder.ID
	}{
		{id: "one", fragment: "dentist", outcome: MatchOne, ids: []reminder.ID{3}},
		{id: "one ignoring case", fragment: "MOM", outcome: MatchOne, ids: []reminder.ID{1}},
		{id: "many ordered by time", fragment: "call", outcome: MatchMany, ids: []reminder.ID{2, 1}},
		{id: "none", fragment: "gym", outcome: MatchNone, ids: []reminder.ID{}},
		{id: "trimmed", fragment: "  dad ", outcome: MatchOne, ids: []reminder.ID{2}},
		{id: "literal percent", fragment: "100%", outcome: MatchOne, ids: []reminder.ID{6}},
	}
	for _, testcase := range cases {
		s.Run(testcase.id, func() {
			result, err := s.service.Run(context.Background(), Input{UserID: "u1", Fragment: testcase.fragment})

			assert := s.Require()
			assert.Nil(err)
			assert.Equal(testcase.outcome, result.Outcome())
			ids := make([]reminder.ID, 0)
			for _, candidate := range result.Candidates {
				ids = append(ids, candidate.ID)
			}
			assert.Equal(testcase.ids, ids)
		})
	}
}

func (s *testSuite) TestBlankFragmentIsRejected() {
	for _, fragment := range []string{"", "   "} {
		_, err := s.service.Run(context.Background(), Input{UserID: "u1", Fragment: fragment})

		assert := s.Require()
		assert.ErrorIs(err, reminder.ErrTargetRequired)
		assert.Empty(s.repo.ReadWith)
	}
}

func (s *testSuite) TestQueryFailure() {
	// Setup ---
	s.repo.ReadError = errors.New("db is down")

	// Exercise ---
	result, err := s.service.Run(context.Background(), Input{UserID: "u1", Fragment: "call"})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Equal(MatchQueryFailed, result.Outcome())
	assert.Empty(result.Candidates)

	_, err = result.Single()
	assert.ErrorIs(err, reminder.ErrTargetQueryFailed)
	assert.ErrorIs(err, s.repo.ReadError)
	assert.NotErrorIs(err, reminder.ErrNoMatchingReminder)
}

func (s *testSuite) TestSingle() {
	assert := s.Require()

	one := Result{Fragment: "x", Candidates: []reminder.Reminder{{ID: 1}}}
	rem, err := one.Single()
	assert.Nil(err)
	assert.Equal(reminder.ID(1), rem.ID)

	_, err = Result{Fragment: "x"}.Single()
	assert.ErrorIs(err, reminder.ErrNoMatchingReminder)

	many := Result{Fragment: "x", Candidates: []reminder.Reminder{{ID: 1}, {ID: 2}}}
	_, err = many.Single()
	var ambiguous *reminder.AmbiguousTargetError
	assert.ErrorAs(err, &ambiguous)
	assert.Equal("x", ambiguous.Target)
	assert.Len(ambiguous.Candidates, 2)
}
