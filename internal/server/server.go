// ABOUTME: HTTP API server: upload intake plus dashboard read endpoints.
// ABOUTME: Routes with net/http ServeMux; every response uses the envelope.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	vmetrics "github.com/VictoriaMetrics/metrics"
	"github.com/charmbracelet/log"

	"github.com/harperreed/ringd/internal/ingest"
	"github.com/harperreed/ringd/internal/models"
	"github.com/harperreed/ringd/internal/query"
	"github.com/harperreed/ringd/internal/storage"
)

// Server wires the ingestion gateway and query engine to HTTP.
type Server struct {
	gateway *ingest.Gateway
	engine  *query.Engine
	backend storage.Backend
	logger  *log.Logger

	version string
	addr    string
	origins string
}

// Options configures a Server.
type Options struct {
	Version string
	Addr    string
	Origins string
}

// New returns a server exposing gw and eng over HTTP.
func New(gw *ingest.Gateway, eng *query.Engine, backend storage.Backend, logger *log.Logger, opts Options) *Server {
	return &Server{
		gateway: gw,
		engine:  eng,
		backend: backend,
		logger:  logger,
		version: opts.Version,
		addr:    opts.Addr,
		origins: opts.Origins,
	}
}

// windowRoutes maps read endpoints to their collections.
var windowRoutes = map[string]models.RecordType{
	"/api/heartrate":           models.TypeHeartRate,
	"/api/hrv":                 models.TypeHRV,
	"/api/stress":              models.TypeStress,
	"/api/blood-oxygen":        models.TypeBloodOxygen,
	"/api/daily-activity":      models.TypeActivity,
	"/api/sleep":               models.TypeSleep,
	"/api/exercise":            models.TypeExercise,
	"/api/sport-plus":          models.TypeSportPlus,
	"/api/sedentary":           models.TypeSedentary,
	"/api/manual-measurements": models.TypeManual,
}

// Handler builds the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("POST /api/upload", s.handleUpload)
	mux.HandleFunc("GET /api/user-info", s.handleSingleton(models.TypeUserInfo))
	mux.HandleFunc("GET /api/target-info", s.handleSingleton(models.TypeTargetInfo))
	for path, rt := range windowRoutes {
		mux.HandleFunc("GET "+path, s.handleWindow(rt))
	}
	mux.HandleFunc("GET /metrics", func(w http.ResponseWriter, r *http.Request) {
		vmetrics.WritePrometheus(w, true)
	})

	return corsMiddleware(s.origins, logMiddleware(s.logger, mux))
}

// ListenAndServe blocks serving the API.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("listening", "addr", s.addr)
	return srv.ListenAndServe()
}

// uploadRequest is the companion app's batch payload.
type uploadRequest struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "No data provided")
		return
	}
	if req.Type == "" {
		respondError(w, http.StatusBadRequest, "Missing data type")
		return
	}
	if len(req.Data) == 0 {
		respondError(w, http.StatusBadRequest, "Missing data")
		return
	}

	report, err := s.gateway.Ingest(req.Type, req.Data)
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrValidation), errors.Is(err, ingest.ErrUnknownType):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			// Persistence failure: the records are in memory and a later
			// flush will catch disk up, but the uploader needs to know.
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	respondData(w, report)
}

func (s *Server) handleWindow(rt models.RecordType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		opts := query.Options{
			Hours:       query.SpanHours(q.Get("hours")),
			Days:        query.SpanDays(q.Get("days")),
			IncludeZero: !strings.EqualFold(q.Get("include_zero"), "false"),
			Measurement: q.Get("type"),
		}

		recs, err := s.engine.Window(rt, opts)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondList(w, recs, len(recs))
	}
}

func (s *Server) handleSingleton(rt models.RecordType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc := s.engine.Singleton(rt)
		if doc == nil {
			respondData(w, nil)
			return
		}
		respondData(w, doc)
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	respondData(w, s.engine.Stats())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	payload := map[string]any{
		"status":  "ok",
		"version": s.version,
		"state":   s.backend.Location(),
	}
	// The snapshot backend can say whether its file exists yet; the
	// database backends create their stores on open.
	if ex, ok := s.backend.(interface{ Exists() bool }); ok {
		payload["state_exists"] = ex.Exists()
	}
	respondData(w, payload)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	endpoints := map[string]string{
		"health": "/api/health",
		"upload": "/api/upload",
		"stats":  "/api/stats",
	}
	for path := range windowRoutes {
		endpoints[path[len("/api/"):]] = path
	}
	respondData(w, map[string]any{
		"service":   "ringd",
		"version":   s.version,
		"status":    "running",
		"endpoints": endpoints,
	})
}
