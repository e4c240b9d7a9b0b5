package health

import (
	"net/http"
	"remindbot/internal/http/handlers/response"
)

const TEXT = "Backend Bot Pengingat berjalan."

func Handler(rw http.ResponseWriter, r *http.Request) {
	response.RenderRaw(rw, "text/plain; charset=utf-8", []byte(TEXT), http.StatusOK)
}
