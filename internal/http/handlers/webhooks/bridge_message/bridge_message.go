package bridgemessage

import (
	"encoding/json"
	"io"
	"net/http"
	e "remindbot/internal/core/domain/errors"
	"remindbot/internal/core/domain/inbound"
	"remindbot/internal/core/domain/logging"
	"remindbot/internal/core/domain/reminder"
	"remindbot/internal/http/handlers/response"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

const MAX_MESSAGE_LEN = 4096

// Handler accepts messages forwarded by the WhatsApp bridge. The message is
// only handed over to the dispatcher, the reply is sent later.
type Handler struct {
	log        logging.Logger
	dispatcher inbound.Dispatcher
	now        func() time.Time
}

func New(log logging.Logger, dispatcher inbound.Dispatcher, now func() time.Time) *Handler {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if dispatcher == nil {
		panic(e.NewNilArgumentError("dispatcher"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &Handler{log: log, dispatcher: dispatcher, now: now}
}

type Input struct {
	UserID      string `json:"userId"`
	MessageText string `json:"messageText"`
}

type Result struct {
	Status string `json:"status"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.UserID, validation.Required, validation.Length(0, 256)),
		validation.Field(&i.MessageText, validation.Required, validation.Length(0, MAX_MESSAGE_LEN)),
	)
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderBadRequest(rw)
		return
	}
	if err := input.Validate(); err != nil {
		response.RenderValidationError(rw, err)
		return
	}

	h.log.Info(r.Context(), "Got message from the bridge.", logging.Entry("userID", input.UserID))
	err := h.dispatcher.Dispatch(r.Context(), inbound.Message{
		UserID:     reminder.UserID(input.UserID),
		Text:       input.MessageText,
		ReceivedAt: h.now(),
	})
	if err != nil {
		logging.Error(r.Context(), h.log, err, logging.Entry("userID", input.UserID))
		response.RenderServiceUnavailable(rw)
		return
	}
	response.Render(rw, Result{Status: "received"}, http.StatusOK)
}
