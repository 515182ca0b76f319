package http

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/usecase"
	"github.com/secmon-lab/oprisk/pkg/utils/errutil"
)

func unitName(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "unit")
	name, err := url.PathUnescape(raw)
	if err != nil {
		return "", goerr.Wrap(model.ErrInvalidArgument, "malformed unit name",
			goerr.V(model.ArgumentKey, "unit_name"),
			goerr.V(model.ValueKey, raw))
	}
	return name, nil
}

func (s *Server) upsertAssessmentHandler(w http.ResponseWriter, r *http.Request) {
	name, err := unitName(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	var req upsertAssessmentRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	input := usecase.UpsertInput{
		UnitName:             name,
		InherentRisk:         req.InherentRisk,
		ControlEffectiveness: req.ControlEffectiveness,
	}
	if req.Controls != nil {
		input.Controls = req.Controls
	}

	stored, err := s.uc.Assessment.Upsert(r.Context(), sessionID(r), input)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stored)
}

func (s *Server) getAssessmentHandler(w http.ResponseWriter, r *http.Request) {
	name, err := unitName(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	a, err := s.uc.Assessment.Get(r.Context(), sessionID(r), name)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, a)
}

func (s *Server) listAssessmentsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := s.uc.Assessment.List(r.Context(), sessionID(r))
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"assessments": list})
}

func (s *Server) assessmentSummaryHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := s.uc.Assessment.Summary(r.Context(), sessionID(r))
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, summary)
}
