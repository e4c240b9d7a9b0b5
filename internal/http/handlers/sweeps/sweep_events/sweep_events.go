package sweepevents

import (
	"net/http"
	e "remindbot/internal/core/domain/errors"
	"remindbot/internal/core/domain/logging"
	sweepobserver "remindbot/internal/implementations/sweep_observer"

	"github.com/r3labs/sse/v2"
)

// Handler streams sweep summaries to an EventSource client.
type Handler struct {
	log       logging.Logger
	sseServer *sse.Server
}

func New(log logging.Logger, sseServer *sse.Server) *Handler {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if sseServer == nil {
		panic(e.NewNilArgumentError("sseServer"))
	}
	return &Handler{log: log, sseServer: sseServer}
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	query.Set("stream", sweepobserver.SweepStream)
	r.URL.RawQuery = query.Encode()

	h.log.Info(r.Context(), "Subscribed to sweep events.")
	h.sseServer.ServeHTTP(rw, r)
	h.log.Info(r.Context(), "Unsubscribed from sweep events.")
}
