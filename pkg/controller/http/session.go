package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
	"github.com/secmon-lab/oprisk/pkg/usecase"
	"github.com/secmon-lab/oprisk/pkg/utils/errutil"
)

type sessionResponse struct {
	ID        types.SessionID `json:"id"`
	Seed      uint64          `json:"seed"`
	CreatedAt time.Time       `json:"created_at"`
}

func sessionID(r *http.Request) types.SessionID {
	return types.SessionID(chi.URLParam(r, "sessionID"))
}

func (s *Server) openSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req openSessionRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	session, err := s.uc.Sessions.Open(r.Context(), usecase.OpenOptions{Seed: req.Seed})
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	w.Header().Set("Location", "/api/sessions/"+session.ID.String())
	writeJSON(w, r, http.StatusCreated, sessionResponse{
		ID:        session.ID,
		Seed:      session.Seed,
		CreatedAt: session.CreatedAt,
	})
}

func (s *Server) listSessionsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"sessions": s.uc.Sessions.IDs(),
	})
}

func (s *Server) closeSessionHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Sessions.Close(r.Context(), sessionID(r)); err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
