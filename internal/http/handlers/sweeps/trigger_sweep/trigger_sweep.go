package triggersweep

import (
	"context"
	"net/http"
	e "remindbot/internal/core/domain/errors"
	"remindbot/internal/core/domain/logging"
	"remindbot/internal/core/services"
	service "remindbot/internal/core/services/send_due_reminders"
	"remindbot/internal/http/handlers/response"
)

const SWEEP_MESSAGE = "Trigger processed"

// Handler runs one delivery sweep per request and reports its counters.
// Repeated calls are safe. A sweep runs to the end even if the client
// disconnects.
type Handler struct {
	log     logging.Logger
	service services.Service[service.Input, service.Result]
}

func New(log logging.Logger, service services.Service[service.Input, service.Result]) *Handler {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	result, err := h.service.Run(context.WithoutCancel(r.Context()), service.Input{})
	if err != nil {
		logging.Error(r.Context(), h.log, err)
		response.RenderInternalError(rw)
		return
	}

	res := response.Sweep{Message: SWEEP_MESSAGE}
	res.FromDomainType(result.Summary)
	response.Render(rw, res, http.StatusOK)
}
