package linkshort

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/xerrors"
)

// Route names as recorded by the request counter.
const (
	RouteShorten = "shorten"
	RouteOpen    = "open"
	RouteMetrics = "metrics"
)

// longest URL accepted by POST /shorten
const maxURLLength = 8 << 10

type Server struct {
	index    Index
	counter  *Counter
	logger   zerolog.Logger
	baseURL  string
	registry *prometheus.Registry
}

type ServerOption func(*Server)

// WithBaseURL fixes the scheme and host used in returned short links,
// e.g. 'https://sho.rt'. By default they are taken from the request.
func WithBaseURL(base string) ServerOption {
	return func(s *Server) { s.baseURL = strings.TrimSuffix(base, "/") }
}

// WithLogger sets the logger used for request logs.
func WithLogger(l zerolog.Logger) ServerOption {
	return func(s *Server) { s.logger = l }
}

// NewServer returns a new Server using index i and counting requests in c.
// If no logger is set, logs are written to os.Stderr.
func NewServer(i Index, c *Counter, opts ...ServerOption) *Server {
	s := &Server{
		index:    i,
		counter:  c,
		logger:   zerolog.New(os.Stderr).With().Timestamp().Logger(),
		registry: prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}

	var links LinkCounter
	if l, ok := i.(LinkCounter); ok {
		links = l
	}
	s.registry.MustRegister(NewCollector(c, links))

	return s
}

// SetupRoutes registers the shorten, open and metrics handlers on the router.
// r must not have any routes yet.
func (s *Server) SetupRoutes(r chi.Router) {
	r.Use(middleware.RequestID, middleware.Recoverer)

	r.Post("/shorten", s.shortenBody)
	r.Get("/http://*", s.shortenPath)
	r.Get("/https://*", s.shortenPath)
	r.Get("/open/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.open(w, r, chi.URLParam(r, "id"))
	})
	r.Get("/metrics", s.metrics)
	r.Handle("/metrics/prometheus", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		ErrorLog:      &promLogger{s.logger},
		ErrorHandling: promhttp.ContinueOnError,
	}))
}

// promLogger adapts the server logger for promhttp.
type promLogger struct{ zerolog.Logger }

func (l *promLogger) Println(v ...interface{}) {
	l.Error().Msg(fmt.Sprint(v...))
}

// writeShortLink writes a short link as an absolute URL to the client.
func (s *Server) writeShortLink(w http.ResponseWriter, r *http.Request, id uint64) {
	base := s.baseURL
	if base == "" {
		scheme := "https"
		if r.TLS == nil {
			scheme = "http"
		}
		base = scheme + "://" + r.Host
	}
	fmt.Fprintf(w, "%s/open/%s\n", base, FormatID(id))
}

// writeError writes a printf-formatted response using the specified certain status code to the client.
func writeError(w http.ResponseWriter, status int, format string, args ...interface{}) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, format+"\n", args...)
}

// shortenBody handles POST requests carrying the URL to shorten as request body.
func (s *Server) shortenBody(w http.ResponseWriter, r *http.Request) {
	defer s.counter.Increment(RouteShorten)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxURLLength))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid URL")
		return
	}
	s.shorten(w, r, string(body))
}

// shortenPath handles requests with an absolute URL as request path.
func (s *Server) shortenPath(w http.ResponseWriter, r *http.Request) {
	defer s.counter.Increment(RouteShorten)

	urlToShorten := r.URL.RequestURI() // r.URL.RequestURI() is e.g. /http://example.com/
	urlToShorten = urlToShorten[1:]    // cut off leading slash
	s.shorten(w, r, urlToShorten)
}

// shorten adds the URL to the index, then responds to the client with an
// absolute short URL which the client can use instead in the future.
func (s *Server) shorten(w http.ResponseWriter, r *http.Request, urlToShorten string) {
	log := s.logger.With().Str("req_id", middleware.GetReqID(r.Context())).Logger()

	longURL, err := NormalizeURL(urlToShorten)
	if err != nil {
		log.Debug().Err(err).Str("url", urlToShorten).Msg("rejected URL")
		writeError(w, http.StatusBadRequest, "Invalid URL")
		return
	}

	shortID, err := s.index.AddURL(r.Context(), longURL)
	if err != nil {
		log.Error().Err(err).Str("url", longURL).Msg("error adding URL to index")
		writeError(w, http.StatusInternalServerError, "error adding URL to index")
		return
	}

	log.Debug().Str("url", longURL).Str("id", FormatID(shortID)).Msg("shortened")

	s.writeShortLink(w, r, shortID)
}

// open parses the shortID from the request path and uses it to look for a URL
// mapped to it in the index. If successful, the request is redirected to that URL.
func (s *Server) open(w http.ResponseWriter, r *http.Request, shortID string) {
	defer s.counter.Increment(RouteOpen)

	log := s.logger.With().Str("req_id", middleware.GetReqID(r.Context())).Logger()

	id, err := ParseID(shortID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Given link doesn't exist")
		return
	}

	longURL, err := s.index.LookupID(r.Context(), id)
	if err != nil {
		if xerrors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "Given link doesn't exist")
			return
		}
		log.Error().Err(err).Str("id", shortID).Msg("error resolving link")
		writeError(w, http.StatusInternalServerError, "error resolving link")
		return
	}

	log.Debug().Str("id", shortID).Str("url", longURL).Msg("resolved")

	http.Redirect(w, r, longURL, http.StatusFound)
}

// metrics responds with the number of handled requests per route as JSON.
func (s *Server) metrics(w http.ResponseWriter, r *http.Request) {
	defer s.counter.Increment(RouteMetrics)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.counter.Snapshot()); err != nil {
		s.logger.Error().Err(err).Msg("error writing metrics")
	}
}
