package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-http-utils/etag"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sardine-ai/go-watchface-config/schema"
	"github.com/sardine-ai/go-watchface-config/settings"
	"github.com/sardine-ai/go-watchface-config/source"
	"github.com/sirupsen/logrus"
)

const (
	minRefreshInterval = 5 * time.Second
	maxSubmitBytes     = 64 << 10
	contentTypeCBOR    = "application/cbor"
)

// reserved paths cannot be used as repository names.
var reserved = map[string]bool{"health": true, "ready": true, "status": true, "metrics": true}

// RepositoryStatus reports the refresh state of one repository.
type RepositoryStatus struct {
	Name        string    `json:"name"`
	Healthy     bool      `json:"healthy"`
	Loaded      bool      `json:"loaded"`
	LastRefresh time.Time `json:"last_refresh"`
	LastError   string    `json:"last_error,omitempty"`
}

type Server struct {
	Repositories    []source.Repository
	RefreshInterval time.Duration
	AuthKey         string
	cancel          context.CancelFunc

	mu     sync.RWMutex
	status map[string]*RepositoryStatus
}

// NewServer refreshes every repository once and then keeps them fresh in
// the background until Stop is called.
func NewServer(ctx context.Context, repository []source.Repository, refreshInterval time.Duration) *Server {
	if refreshInterval < minRefreshInterval {
		logrus.Warn("refresh interval too low, setting it to 5 seconds")
		refreshInterval = minRefreshInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	server := &Server{
		Repositories:    repository,
		RefreshInterval: refreshInterval,
		cancel:          cancel,
		status:          make(map[string]*RepositoryStatus),
	}
	for _, repo := range server.Repositories {
		server.refreshOnce(repo)
	}
	for _, repo := range server.Repositories {
		go server.refresh(ctx, repo)
	}
	return server
}

func (s *Server) refresh(ctx context.Context, repository source.Repository) {
	ticker := time.NewTicker(s.RefreshInterval)
	for {
		select {
		case <-ticker.C:
			s.refreshOnce(repository)
		case <-ctx.Done():
			ticker.Stop()
			return
		}
	}
}

func (s *Server) refreshOnce(repository source.Repository) {
	err := repository.Refresh()
	_, loaded := repository.GetSchema()

	st := &RepositoryStatus{
		Name:        repository.GetName(),
		Healthy:     err == nil,
		Loaded:      loaded,
		LastRefresh: time.Now(),
	}
	if err != nil {
		logrus.WithError(err).WithField("repository", repository.GetName()).Error("error refreshing repository")
		st.LastError = err.Error()
		RefreshTotal.WithLabelValues(repository.GetName(), "error").Inc()
	} else {
		RefreshTotal.WithLabelValues(repository.GetName(), "ok").Inc()
	}

	s.mu.Lock()
	s.status[repository.GetName()] = st
	s.mu.Unlock()
}

func (s *Server) Stop() {
	s.cancel()
}

// IsHealthy reports whether the last refresh of every repository succeeded.
func (s *Server) IsHealthy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, repo := range s.Repositories {
		st, ok := s.status[repo.GetName()]
		if !ok || !st.Healthy {
			return false
		}
	}
	return true
}

// IsReady reports whether every repository has a schema to serve.
func (s *Server) IsReady() bool {
	for _, repo := range s.Repositories {
		if _, ok := repo.GetSchema(); !ok {
			return false
		}
	}
	return true
}

// GetRepositoryStatus returns a snapshot of the refresh state of every
// repository, in configuration order.
func (s *Server) GetRepositoryStatus() []RepositoryStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]RepositoryStatus, 0, len(s.Repositories))
	for _, repo := range s.Repositories {
		if st, ok := s.status[repo.GetName()]; ok {
			out = append(out, *st)
		} else {
			out = append(out, RepositoryStatus{Name: repo.GetName()})
		}
	}
	return out
}

// Handler returns the complete handler chain: routes, ETag and, when an
// AuthKey is set, authentication.
func (s *Server) Handler() http.Handler {
	handler := etag.Handler(s.CreateHandlers(), false)
	if s.AuthKey != "" {
		handler = Auth(handler, s.AuthKey)
	}
	return handler
}

func (s *Server) Start(addr string) error {
	logrus.WithField("addr", addr).Info("Starting server")
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) CreateHandlers() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.Handle("GET /metrics", promhttp.Handler())

	served := make(map[string]bool)
	for _, repo := range s.Repositories {
		name := repo.GetName()
		if !validName(name) {
			logrus.WithField("repository", name).Error("invalid repository name, not serving it")
			continue
		}
		if served[name] {
			logrus.WithField("repository", name).Error("duplicate repository name, not serving it")
			continue
		}
		served[name] = true
		h := &repositoryHandler{repo: repo}
		mux.HandleFunc("GET /"+name, h.document)
		mux.HandleFunc("GET /"+name+"/raw", h.raw)
		mux.HandleFunc("GET /"+name+"/defaults", h.defaults)
		mux.HandleFunc("POST /"+name+"/submit", h.submit)
	}
	return mux
}

// validName reports whether name can be used as a single path segment of a
// route pattern.
func validName(name string) bool {
	if name == "" || name == "." || name == ".." || reserved[name] {
		return false
	}
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.':
		default:
			return false
		}
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.IsHealthy() {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
		return
	}
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.IsReady() {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"healthy":      s.IsHealthy(),
		"ready":        s.IsReady(),
		"repositories": s.GetRepositoryStatus(),
	})
}

type repositoryHandler struct {
	repo source.Repository
}

func (h *repositoryHandler) load(w http.ResponseWriter) (schema.Document, bool) {
	doc, ok := h.repo.GetSchema()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, source.ErrNotLoaded)
	}
	return doc, ok
}

// document serves the schema. Query parameters named after message keys
// pre-populate the controls.
func (h *repositoryHandler) document(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.load(w)
	if !ok {
		return
	}
	prior := make(settings.Message)
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			prior[schema.MessageKey(k)] = v[0]
		}
	}
	SchemaRequestsTotal.WithLabelValues(h.repo.GetName()).Inc()
	writeJSON(w, http.StatusOK, settings.Prepopulate(doc, prior))
}

func (h *repositoryHandler) raw(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.load(w); !ok {
		return
	}
	data := h.repo.GetRawData()
	w.Header().Set("Content-Type", rawContentType(data))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logrus.WithError(err).Error("error writing response")
	}
}

func (h *repositoryHandler) defaults(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.load(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, settings.Defaults(doc))
}

// rawContentType tells JSON documents from YAML ones.
func rawContentType(data []byte) string {
	if json.Valid(data) {
		return "application/json"
	}
	return "application/yaml"
}

type submitResponse struct {
	Settings   settings.Message                  `json:"settings"`
	Dictionary settings.Dictionary               `json:"dictionary"`
	Ignored    []settings.UnrecognizedKeyWarning `json:"ignored"`
}

func (h *repositoryHandler) submit(w http.ResponseWriter, r *http.Request) {
	name := h.repo.GetName()
	doc, ok := h.load(w)
	if !ok {
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSubmitBytes))
	if err != nil {
		SubmissionsTotal.WithLabelValues(name, "bad_request").Inc()
		writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}
	values, err := settings.DecodeJSON(body)
	if err != nil {
		SubmissionsTotal.WithLabelValues(name, "bad_request").Inc()
		writeError(w, http.StatusBadRequest, err)
		return
	}

	sub, err := settings.Submit(doc, values)
	if err != nil {
		SubmissionsTotal.WithLabelValues(name, "invalid").Inc()
		writeError(w, http.StatusBadRequest, err)
		return
	}
	dict, err := settings.Convert(doc, sub.Message)
	if err != nil {
		SubmissionsTotal.WithLabelValues(name, "invalid").Inc()
		writeError(w, http.StatusBadRequest, err)
		return
	}
	SubmissionsTotal.WithLabelValues(name, "ok").Inc()
	IgnoredKeysTotal.WithLabelValues(name).Add(float64(len(sub.Ignored)))

	if strings.Contains(r.Header.Get("Accept"), contentTypeCBOR) {
		data, err := settings.EncodeCBOR(dict)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", contentTypeCBOR)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(data); err != nil {
			logrus.WithError(err).Error("error writing response")
		}
		return
	}

	ignored := sub.Ignored
	if ignored == nil {
		ignored = []settings.UnrecognizedKeyWarning{}
	}
	writeJSON(w, http.StatusOK, submitResponse{Settings: sub.Message, Dictionary: dict, Ignored: ignored})
}

func Auth(next http.Handler, authKey string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// probes and scrapes stay reachable without a key
		switch r.URL.Path {
		case "/health", "/ready", "/metrics":
			next.ServeHTTP(w, r)
			return
		}
		key := r.Header.Get("X-API-KEY")
		if key == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if key != authKey {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logrus.WithError(err).Error("error encoding response")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logrus.WithError(err).Error("error writing response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	var ierr *settings.InvalidValueError
	body := map[string]string{"error": err.Error()}
	if errors.As(err, &ierr) {
		body["key"] = string(ierr.Key)
	}
	writeJSON(w, status, body)
}
