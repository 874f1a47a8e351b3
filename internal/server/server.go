// Package server exposes the ledger over a JSON HTTP API.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hearthshare/ledger/internal/archive"
	"github.com/hearthshare/ledger/internal/auth"
	"github.com/hearthshare/ledger/internal/ledger"
	"github.com/hearthshare/ledger/internal/middleware"
	"github.com/hearthshare/ledger/internal/service"
	"github.com/hearthshare/ledger/internal/storage"
)

// Server wires the ledger service and archive runner into HTTP handlers.
type Server struct {
	svc    *service.LedgerService
	runner *archive.Runner
	jwt    *auth.JWTManager
}

func New(svc *service.LedgerService, runner *archive.Runner, jwtManager *auth.JWTManager) *Server {
	return &Server{svc: svc, runner: runner, jwt: jwtManager}
}

// Handler builds the full route table. Admin routes require a valid
// JWT with the admin claim; everything is wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/groups/{id}/balances", s.handleBalances)
	mux.HandleFunc("GET /v1/groups/{id}/relations", s.handleRelations)
	mux.HandleFunc("GET /v1/groups/{id}/next-payer", s.handleNextPayer)
	mux.HandleFunc("POST /v1/groups/{id}/settlements", s.handleSettle)

	requireAdmin := middleware.RequireAdmin(s.jwt)
	mux.Handle("POST /admin/groups/{id}/reset", requireAdmin(http.HandlerFunc(s.handleResetGroup)))
	mux.Handle("POST /admin/reset-all", requireAdmin(http.HandlerFunc(s.handleResetAll)))

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return middleware.Logging(mux)
}

func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := s.svc.GroupBalances(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"balances": balances})
}

func (s *Server) handleRelations(w http.ResponseWriter, r *http.Request) {
	member := r.URL.Query().Get("member")
	if member == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "member query parameter required"})
		return
	}

	relations, err := s.svc.RelationsFor(r.Context(), r.PathValue("id"), member)
	if err != nil {
		writeError(w, err)
		return
	}
	if relations == nil {
		relations = []ledger.Relation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"member": member, "relations": relations})
}

func (s *Server) handleNextPayer(w http.ResponseWriter, r *http.Request) {
	next, err := s.svc.NextPayer(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"uid": next.UID, "name": next.Name})
}

type settleRequest struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

func (s *Server) handleSettle(w http.ResponseWriter, r *http.Request) {
	var req settleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	debt, err := s.svc.CloseDebt(r.Context(), r.PathValue("id"), req.From, req.To, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, debt)
}

type resetRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// period returns the requested archive period, defaulting to the month
// before now when the body left it unset.
func (req *resetRequest) period(now time.Time) (int, int) {
	if req.Year != 0 && req.Month != 0 {
		return req.Year, req.Month
	}
	prev := now.AddDate(0, 0, -now.Day())
	return prev.Year(), int(prev.Month())
}

func (s *Server) handleResetGroup(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
	}
	year, month := req.period(time.Now())

	result, err := s.runner.RunGroup(r.Context(), r.PathValue("id"), year, month)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, err)
			return
		}
		// Partial progress is reported alongside the failure.
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":  err.Error(),
			"result": result,
		})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleResetAll(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
	}
	year, month := req.period(time.Now())

	report, err := s.runner.RunAll(r.Context(), year, month)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// writeError maps domain errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ledger.ErrInvalidInput), errors.Is(err, ledger.ErrInvalidAmount):
		status = http.StatusBadRequest
	case errors.Is(err, ledger.ErrInsufficientData):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, storage.ErrUnavailable):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
