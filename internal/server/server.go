// Package server exposes the dashboard views over HTTP and a websocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/theirongolddev/budgetdash/internal/model"
	"github.com/theirongolddev/budgetdash/internal/pipeline"
	"github.com/theirongolddev/budgetdash/internal/view"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultAddr is used when Config.Addr is empty.
const DefaultAddr = "127.0.0.1:8501"

const (
	shutdownTimeout = 5 * time.Second
	maxMessageSize  = 4096
	pongWait        = 60 * time.Second
	writeWait       = 10 * time.Second
)

// Config controls the HTTP service.
type Config struct {
	Addr string
}

// Status is served at /v1/status.
type Status struct {
	StartedAt      time.Time     `json:"started_at"`
	Source         string        `json:"source"`
	Records        int           `json:"records"`
	Columns        []string      `json:"columns"`
	NumericColumns []string      `json:"numeric_columns"`
	MissingColumns []string      `json:"missing_columns,omitempty"`
	Issues         []model.Issue `json:"issues,omitempty"`
	Requests       int64         `json:"requests"`
	LiveSessions   int64         `json:"live_sessions"`
}

// Service serves one loaded dataset. The dataset is shared read-only by
// every request and websocket session.
type Service struct {
	cfg       Config
	ds        *model.Dataset
	log       zerolog.Logger
	startedAt time.Time

	requests atomic.Int64
	sessions atomic.Int64

	upgrader websocket.Upgrader
}

// New returns a service for ds.
func New(ds *model.Dataset, cfg Config, logger zerolog.Logger) *Service {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	return &Service{
		cfg:       cfg,
		ds:        ds,
		log:       logger,
		startedAt: time.Now(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// Handler returns the routed HTTP handler.
func (s *Service) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.accessLog)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/v1/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/v1/columns", s.handleColumns).Methods(http.MethodGet)
	r.HandleFunc("/v1/live", s.handleLive)
	r.HandleFunc("/v1/{view:overview|insights|visualizations|dynamic}", s.handleView).Methods(http.MethodGet)

	// mux skips middleware when no route matches.
	r.NotFoundHandler = s.accessLog(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, errors.New("not found"))
	}))
	r.MethodNotAllowedHandler = s.accessLog(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
	}))
	return r
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Service) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Service) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info().Str("addr", ln.Addr().String()).Str("source", s.ds.Source()).Msg("serving")
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Info().Msg("shutting down")
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Service) status() Status {
	return Status{
		StartedAt:      s.startedAt,
		Source:         s.ds.Source(),
		Records:        s.ds.Len(),
		Columns:        s.ds.Columns(),
		NumericColumns: s.ds.NumericColumns(),
		MissingColumns: s.ds.MissingColumns(),
		Issues:         s.ds.Issues(),
		Requests:       s.requests.Load(),
		LiveSessions:   s.sessions.Load(),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.status())
}

func (s *Service) handleColumns(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"columns": s.ds.Columns(),
		"numeric": pipeline.NumericColumns(s.ds),
		"missing": s.ds.MissingColumns(),
	})
}

func (s *Service) handleView(w http.ResponseWriter, r *http.Request) {
	p, err := paramsFromQuery(view.Name(mux.Vars(r)["view"]), r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	payload, err := view.Build(s.ds, p)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

// paramsFromQuery reads n, category, x and y. Absent values are left for
// view.Build to default.
func paramsFromQuery(name view.Name, r *http.Request) (view.Params, error) {
	q := r.URL.Query()
	p := view.Params{
		View:   name,
		XField: q.Get("x"),
		YField: q.Get("y"),
	}
	if raw := q.Get("n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return view.Params{}, fmt.Errorf("invalid n %q: want a positive integer", raw)
		}
		p.TopN = n
	}
	if raw := q.Get("category"); raw != "" {
		c, ok := model.ParseCategory(raw)
		if !ok {
			return view.Params{}, fmt.Errorf("unknown category %q", raw)
		}
		p.Category = c
	}
	return p, nil
}

// liveReply is one websocket response frame.
type liveReply struct {
	Type    string        `json:"type"` // "payload" or "error"
	Payload *view.Payload `json:"payload,omitempty"`
	Error   *apiError     `json:"error,omitempty"`
}

// handleLive rebuilds and sends one payload per params message received.
func (s *Service) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer func() { _ = conn.Close() }()

	id := s.sessions.Add(1)
	defer s.sessions.Add(-1)
	logger := s.log.With().Str("remote", r.RemoteAddr).Logger()
	logger.Info().Int64("live_sessions", id).Msg("live session opened")

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn().Err(err).Msg("live session read")
			}
			break
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		reply := s.liveBuild(data)
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(reply); err != nil {
			logger.Warn().Err(err).Msg("live session write")
			break
		}
	}
	logger.Info().Msg("live session closed")
}

func (s *Service) liveBuild(data []byte) liveReply {
	var p view.Params
	if err := json.Unmarshal(data, &p); err != nil {
		return liveReply{Type: "error", Error: toAPIError(fmt.Errorf("decoding params: %w", err))}
	}
	if c, ok := model.ParseCategory(string(p.Category)); ok {
		p.Category = c
	}
	if p.TopN < 0 {
		return liveReply{Type: "error", Error: toAPIError(fmt.Errorf("invalid top_n %d: want a positive integer", p.TopN))}
	}
	payload, err := view.Build(s.ds, p)
	if err != nil {
		return liveReply{Type: "error", Error: toAPIError(err)}
	}
	return liveReply{Type: "payload", Payload: &payload}
}
