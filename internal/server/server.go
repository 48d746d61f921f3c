// Package server exposes the transaction store as a JSON CRUD API protected
// by HTTP Basic auth.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/TKcodes-bit/Momo-app-code-bit/internal/config"
	"github.com/TKcodes-bit/Momo-app-code-bit/internal/logging"
	"github.com/TKcodes-bit/Momo-app-code-bit/internal/models"
	"github.com/TKcodes-bit/Momo-app-code-bit/internal/store"
)

const authRealm = "Transactions API"

// Server serves the transaction CRUD API over a store.
type Server struct {
	logger   logging.Logger
	store    *store.Store
	addr     string
	username string
	password string
}

type errorResponse struct {
	Error string `json:"error"`
}

// New builds a Server from the configuration.
func New(cfg *config.Config, st *store.Store, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewMockLogger()
	}
	return &Server{
		logger:   logger,
		store:    st,
		addr:     fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		username: cfg.Server.Username,
		password: cfg.Server.Password,
	}
}

// Handler builds the route table. All transaction routes require Basic auth;
// OPTIONS preflights pass through unauthenticated.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("OPTIONS /", s.handlePreflight)
	mux.HandleFunc("GET /transactions", s.requireAuth(s.handleList))
	mux.HandleFunc("POST /transactions", s.requireAuth(s.handleCreate))
	mux.HandleFunc("GET /transactions/{id}", s.requireAuth(s.handleGet))
	mux.HandleFunc("PUT /transactions/{id}", s.requireAuth(s.handleUpdate))
	mux.HandleFunc("DELETE /transactions/{id}", s.requireAuth(s.handleDelete))
	return mux
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", s.addr).Info("API server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		userMatch := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
		passMatch := subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
		if !ok || !userMatch || !passMatch {
			setCORS(w)
			w.Header().Set("WWW-Authenticate", fmt.Sprintf("Basic realm=%q, charset=\"UTF-8\"", authRealm))
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
			return
		}
		next(w, r)
	}
}

func (s *Server) handlePreflight(w http.ResponseWriter, _ *http.Request) {
	setCORS(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	setCORS(w)
	writeJSON(w, http.StatusOK, s.store.List())
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	record, found := s.store.Get(r.PathValue("id"))
	if !found {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Transaction not found"})
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	setCORS(w)

	var record models.TransactionRecord
	if err := decodeBody(r, &record); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	created := s.store.Create(record)
	s.persist()
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	setCORS(w)

	id := r.PathValue("id")
	existing, found := s.store.Get(id)
	if !found {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Transaction not found"})
		return
	}

	// Decoding over the existing record gives merge semantics: fields absent
	// from the payload keep their stored values. The id stays immutable.
	merged := existing
	if err := decodeBody(r, &merged); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	updated, err := s.store.Update(id, merged)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Transaction not found"})
		return
	}
	s.persist()
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	setCORS(w)

	if err := s.store.Delete(r.PathValue("id")); err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Transaction not found"})
		return
	}
	s.persist()
	w.WriteHeader(http.StatusNoContent)
}

// persist writes the store after a mutation. Failures are logged, not
// surfaced to the client; the in-memory state is already updated.
func (s *Server) persist() {
	if err := s.store.Persist(); err != nil {
		s.logger.WithError(err).Error("Failed to persist transaction store")
	}
}

func decodeBody(r *http.Request, v any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	// The status line is already sent; an encode failure cannot be reported.
	_ = json.NewEncoder(w).Encode(payload)
}
