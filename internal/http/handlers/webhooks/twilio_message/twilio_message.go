package twiliomessage

import (
	"net/http"
	e "remindbot/internal/core/domain/errors"
	"remindbot/internal/core/domain/inbound"
	"remindbot/internal/core/domain/logging"
	twiliomessenger "remindbot/internal/implementations/twilio_messenger"
	"remindbot/internal/http/handlers/response"
	"strings"
	"time"
)

const (
	SIGNATURE_HEADER = "X-Twilio-Signature"
	emptyTwiML       = `<?xml version="1.0" encoding="UTF-8"?><Response></Response>`
)

type SignatureValidator interface {
	ValidateSignature(url string, params map[string]string, signature string) bool
}

// Handler accepts WhatsApp messages posted by Twilio. Replies are sent
// through the REST API later, so the TwiML answer is always empty.
type Handler struct {
	log        logging.Logger
	dispatcher inbound.Dispatcher
	validator  SignatureValidator
	webhookURL string
	now        func() time.Time
}

// New creates the handler. With a nil validator signatures are not checked.
func New(
	log logging.Logger,
	dispatcher inbound.Dispatcher,
	validator SignatureValidator,
	webhookURL string,
	now func() time.Time,
) *Handler {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if dispatcher == nil {
		panic(e.NewNilArgumentError("dispatcher"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &Handler{log: log, dispatcher: dispatcher, validator: validator, webhookURL: webhookURL, now: now}
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		response.RenderBadRequest(rw)
		return
	}
	params := make(map[string]string, len(r.PostForm))
	for k := range r.PostForm {
		params[k] = r.PostForm.Get(k)
	}

	if h.validator != nil && !h.validator.ValidateSignature(h.webhookURL, params, r.Header.Get(SIGNATURE_HEADER)) {
		h.log.Warning(r.Context(), "Invalid Twilio signature.", logging.Entry("from", params["From"]))
		response.RenderForbidden(rw, "invalid signature")
		return
	}

	from := strings.TrimSpace(params["From"])
	body := strings.TrimSpace(params["Body"])
	if from == "" || body == "" {
		h.log.Info(r.Context(), "Skip Twilio message without sender or body.", logging.Entry("messageSid", params["MessageSid"]))
		renderTwiML(rw)
		return
	}

	err := h.dispatcher.Dispatch(r.Context(), inbound.Message{
		ID:         params["MessageSid"],
		UserID:     twiliomessenger.UserIDFromAddress(from),
		Text:       body,
		ReceivedAt: h.now(),
	})
	if err != nil {
		logging.Error(r.Context(), h.log, err, logging.Entry("from", from))
		response.RenderServiceUnavailable(rw)
		return
	}
	renderTwiML(rw)
}

func renderTwiML(rw http.ResponseWriter) {
	response.RenderRaw(rw, "text/xml", []byte(emptyTwiML), http.StatusOK)
}
