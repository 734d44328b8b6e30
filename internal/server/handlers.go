package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/lox/bingo/internal/board"
	"github.com/lox/bingo/internal/protocol"
	"github.com/lox/bingo/internal/session"
)

// classify maps an error to a protocol code and HTTP status.
func classify(err error) (string, int) {
	var cfgErr *board.ConfigError
	switch {
	case errors.As(err, &cfgErr):
		return protocol.CodeInvalidConfiguration, http.StatusBadRequest
	case errors.Is(err, ErrGameNotFound):
		return protocol.CodeGameNotFound, http.StatusNotFound
	case errors.Is(err, session.ErrPoolExhausted):
		return protocol.CodePoolExhausted, http.StatusConflict
	default:
		return protocol.CodeInternal, http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) // Ignore write errors
}

func writeError(w http.ResponseWriter, err error) {
	code, status := classify(err)
	writeJSON(w, status, protocol.ErrorData{Code: code, Message: err.Error()})
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req protocol.CreateGameData
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, protocol.ErrorData{
			Code:    protocol.CodeBadRequest,
			Message: "invalid JSON: " + err.Error(),
		})
		return
	}

	g, err := s.games.Create(req)
	if err != nil {
		s.logger.Warn("Rejected game configuration", "error", err)
		writeError(w, err)
		return
	}

	state, err := s.games.Snapshot(g.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, state)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	state, err := s.games.Snapshot(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleDraw(w http.ResponseWriter, r *http.Request) {
	data, err := s.games.Draw(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}
