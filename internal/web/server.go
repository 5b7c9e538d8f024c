// Package web serves a session to browsers.
//
// The browser only renders what the server sends. A small script posts
// every click, input and submit to /ui/events along with the data-ref of
// the node it happened on; the session dispatches it on its document and
// the response carries the re-rendered page. Renders that happen later,
// such as API completions, arrive over /ws.
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ivanmalyshevv/weblarek/internal/app"
)

//go:embed assets
var assets embed.FS

// RevisionHeader carries the revision of the returned document.
const RevisionHeader = "X-Document-Revision"

// Options configures the handler.
type Options struct {
	// Logger defaults to app.NullLogger.
	Logger *app.Logger

	// MetricsPath mounts the session registry. Empty disables it.
	MetricsPath string

	// RequestTimeout bounds plain HTTP requests. The websocket is exempt.
	// Defaults to 30s.
	RequestTimeout time.Duration

	// PingInterval is how often idle websockets are pinged. Defaults to 30s.
	PingInterval time.Duration
}

// Server routes browser traffic to one session.
type Server struct {
	session  *app.Session
	log      *app.Logger
	opts     Options
	validate *validator.Validate
	upgrader websocket.Upgrader
	router   chi.Router
}

// New builds the router for session.
func New(session *app.Session, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = app.NullLogger
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	if opts.PingInterval <= 0 {
		opts.PingInterval = 30 * time.Second
	}

	s := &Server{
		session:  session,
		log:      opts.Logger.WithComponent("web"),
		opts:     opts,
		validate: validator.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
		},
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	static, err := fs.Sub(assets, "assets")
	if err != nil {
		panic(err) // embedded directory is fixed at build time
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(s.opts.RequestTimeout))

		r.Get("/", s.handleDocument)
		r.Post("/ui/events", s.handleEvent)
		r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(static))))
		r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			_, _ = w.Write([]byte("ok"))
		})
		if s.opts.MetricsPath != "" {
			r.Handle(s.opts.MetricsPath, promhttp.HandlerFor(s.session.Metrics().Registry(), promhttp.HandlerOpts{}))
		}
	})

	r.Get("/ws", s.handleSocket)
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleDocument(w http.ResponseWriter, _ *http.Request) {
	snap := s.session.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set(RevisionHeader, strconv.FormatUint(snap.Revision, 10))
	_, _ = w.Write(snap.HTML)
}
