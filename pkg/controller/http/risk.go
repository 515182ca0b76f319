package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
	"github.com/secmon-lab/oprisk/pkg/utils/errutil"
)

type residualRiskResponse struct {
	InherentRisk         types.RiskLevel            `json:"inherent_risk"`
	ControlEffectiveness types.ControlEffectiveness `json:"control_effectiveness"`
	Approach             types.Approach             `json:"approach"`
	ResidualRisk         types.RiskLevel            `json:"residual_risk"`
}

// residualRiskHandler evaluates ?inherent_risk=&control_effectiveness=&approach=
// without storing anything. The approach defaults to Simple.
func (s *Server) residualRiskHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	inherent := types.RiskLevel(q.Get("inherent_risk"))
	effectiveness := types.ControlEffectiveness(q.Get("control_effectiveness"))
	approach := types.Approach(q.Get("approach"))
	if approach == "" {
		approach = types.ApproachSimple
	}

	level, err := s.uc.Assessment.Evaluate(inherent, effectiveness, approach)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	writeJSON(w, r, http.StatusOK, residualRiskResponse{
		InherentRisk:         inherent,
		ControlEffectiveness: effectiveness,
		Approach:             approach,
		ResidualRisk:         level,
	})
}

func (s *Server) matrixHandler(w http.ResponseWriter, r *http.Request) {
	grid, err := s.uc.Assessment.Matrix(types.Approach(chi.URLParam(r, "approach")))
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, grid)
}
