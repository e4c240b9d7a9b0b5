package http

import (
	"net/http"
	"remindbot/internal/http/handlers/auth"
	"remindbot/internal/http/handlers/health"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type Routes struct {
	AllowedOrigins []string
	TokenValidator auth.TokenValidator

	BridgeWebhook http.Handler
	// Optional, mounted only with the twilio transport.
	TwilioWebhook http.Handler
	TriggerSweep  http.Handler
	SweepEvents   http.Handler
}

func NewRouter(routes Routes) http.Handler {
	webhookRouter := chi.NewRouter()
	webhookRouter.Method(http.MethodPost, "/whatsapp", routes.BridgeWebhook)
	if routes.TwilioWebhook != nil {
		webhookRouter.Method(http.MethodPost, "/twilio", routes.TwilioWebhook)
	}

	triggerRouter := chi.NewRouter()
	triggerRouter.Use(auth.RequireToken(routes.TokenValidator))
	triggerRouter.Method(http.MethodGet, "/send-reminders", routes.TriggerSweep)
	triggerRouter.Method(http.MethodPost, "/send-reminders", routes.TriggerSweep)

	eventsRouter := chi.NewRouter()
	eventsRouter.Use(auth.RequireToken(routes.TokenValidator))
	eventsRouter.Method(http.MethodGet, "/", routes.SweepEvents)

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   routes.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	router.Get("/", health.Handler)
	router.Mount("/webhook", webhookRouter)
	router.Mount("/trigger", triggerRouter)
	router.Mount("/events", eventsRouter)
	return router
}
