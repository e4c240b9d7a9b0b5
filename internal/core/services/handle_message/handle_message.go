package handlemessage

import (
	"context"
	e "remindbot/internal/core/domain/errors"
	"remindbot/internal/core/domain/inbound"
	"remindbot/internal/core/domain/intent"
	"remindbot/internal/core/domain/logging"
	"remindbot/internal/core/services"
	handleintent "remindbot/internal/core/services/handle_intent"
)

type Input struct {
	Message inbound.Message
}

func (i Input) RateLimitKey() string {
	return "inbound::" + string(i.Message.UserID)
}

type Result struct {
	Intent intent.Intent
	Reply  string
}

type service struct {
	log          logging.Logger
	classifier   intent.Classifier
	handleIntent services.Service[handleintent.Input, handleintent.Result]
}

func New(
	log logging.Logger,
	classifier intent.Classifier,
	handleIntent services.Service[handleintent.Input, handleintent.Result],
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if classifier == nil {
		panic(e.NewNilArgumentError("classifier"))
	}
	if handleIntent == nil {
		panic(e.NewNilArgumentError("handleIntent"))
	}
	return &service{log: log, classifier: classifier, handleIntent: handleIntent}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	m := input.Message
	classified, err := s.classifier.Classify(ctx, m.Text)
	if err != nil {
		s.log.Warning(
			ctx,
			"Could not classify message.",
			logging.Entry("messageID", m.ID),
			logging.Entry("userID", m.UserID),
			logging.Entry("err", err),
		)
		classified = intent.Unknown{Err: err}
	}
	if classified == nil {
		classified = intent.Unknown{}
	}
	s.log.Info(
		ctx,
		"Message classified.",
		logging.Entry("messageID", m.ID),
		logging.Entry("userID", m.UserID),
		logging.Entry("intent", classified.Kind()),
	)
	result.Intent = classified

	handled, err := s.handleIntent.Run(ctx, handleintent.Input{UserID: m.UserID, Intent: classified})
	result.Reply = handled.Reply
	return result, err
}
