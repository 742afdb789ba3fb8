package api

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"GuestFlow/internal/config"
	captureh "GuestFlow/internal/http-server/handlers/capture"
	"GuestFlow/internal/http-server/handlers/errors"
	rsvph "GuestFlow/internal/http-server/handlers/rsvp"
	travelh "GuestFlow/internal/http-server/handlers/travel"
	whatsapph "GuestFlow/internal/http-server/handlers/whatsapp"
	"GuestFlow/internal/http-server/middleware/authenticate"
	"GuestFlow/internal/http-server/middleware/timeout"
	"GuestFlow/internal/lib/sl"
	"GuestFlow/internal/ws"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	travelh.Core
	rsvph.Core
	whatsapph.Core
	captureh.Core
}

func New(conf *config.Config, log *slog.Logger, handler Handler, hub *ws.Hub) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	router := chi.NewRouter()
	router.Use(timeout.Timeout(15))
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(render.SetContentType(render.ContentTypeJSON))

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	// Webhooks are authenticated by the Graph API signature (raw) or by the
	// trusted upstream normalizer; no bearer token here.
	router.Route("/webhook", func(r chi.Router) {
		r.Get("/whatsapp", whatsapph.Verify(conf, log))
		r.Post("/whatsapp", whatsapph.Webhook(conf, log, handler))
		r.Post("/travel", travelh.Webhook(log, handler))
		r.Post("/rsvp", rsvph.Webhook(log, handler))
	})

	router.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(authenticate.New(log, handler))
		v1.Route("/capture", func(r chi.Router) {
			r.Post("/start", captureh.Start(log, handler))
			r.Get("/status", captureh.Status(log, handler))
			r.Post("/invite", captureh.Invite(log, handler))
		})
	})

	if hub != nil {
		router.Get("/ws/progress", func(w http.ResponseWriter, r *http.Request) {
			ws.ServeWs(hub, handler, log, w, r)
		})
	}

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:  router,
		ErrorLog: httpLog,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}
