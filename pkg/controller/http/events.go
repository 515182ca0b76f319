package http

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/service/tableio"
	"github.com/secmon-lab/oprisk/pkg/usecase"
	"github.com/secmon-lab/oprisk/pkg/utils/errutil"
	"github.com/secmon-lab/oprisk/pkg/utils/safe"
)

type generateEventsResponse struct {
	Count   int      `json:"count"`
	Columns []string `json:"columns"`
}

var contentTypes = map[tableio.Format]string{
	tableio.FormatCSV:  "text/csv",
	tableio.FormatJSON: "application/json",
	tableio.FormatYAML: "application/yaml",
}

func (s *Server) generateEventsHandler(w http.ResponseWriter, r *http.Request) {
	var req generateEventsRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	table, err := s.uc.Simulation.Generate(r.Context(), sessionID(r), usecase.GenerateInput{
		Count:          req.Count,
		Start:          req.Start,
		End:            req.End,
		BusinessUnits:  req.BusinessUnits,
		RiskCategories: req.RiskCategories,
		Basel:          req.Basel,
	})
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, generateEventsResponse{
		Count:   table.Len(),
		Columns: table.ColumnNames(),
	})
}

// listEventsHandler returns the generated table as ?format=json|csv|yaml,
// narrowed by the event filter parameters. ?limit= returns the first rows only.
func (s *Server) listEventsHandler(w http.ResponseWriter, r *http.Request) {
	format := tableio.FormatJSON
	if f := r.URL.Query().Get("format"); f != "" {
		parsed, err := tableio.ParseFormat(f)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}
		format = parsed
	}

	filter, err := eventFilter(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	table, err := s.uc.Simulation.Select(r.Context(), sessionID(r), filter)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	var buf bytes.Buffer
	if err := tableio.Write(&buf, table, format); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to encode events"))
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	safe.Copy(r.Context(), w, &buf)
}

func (s *Server) eventSummaryHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := eventFilter(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	summary, err := s.uc.Simulation.Summarize(r.Context(), sessionID(r), r.URL.Query().Get("category_column"), filter)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, summary)
}

func (s *Server) eventTotalsHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := eventFilter(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	totals, err := s.uc.Simulation.Totals(r.Context(), sessionID(r), r.URL.Query().Get("column"), filter)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"totals": totals})
}

func (s *Server) eventTrendHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := eventFilter(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	trend, err := s.uc.Simulation.Trend(r.Context(), sessionID(r), r.URL.Query().Get("category_column"), filter)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, trend)
}

func (s *Server) eventRelationshipHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := eventFilter(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	rel, err := s.uc.Simulation.Relationship(r.Context(), sessionID(r), filter)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rel)
}

func (s *Server) eventStatsHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := eventFilter(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	stats, err := s.uc.Simulation.Describe(r.Context(), sessionID(r), r.URL.Query().Get("column"), filter)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}

// validateEventsHandler checks the generated table. With ?strict=true the
// first problem is reported as the error.
func (s *Server) validateEventsHandler(w http.ResponseWriter, r *http.Request) {
	strict := false
	if v := r.URL.Query().Get("strict"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(model.ErrInvalidArgument, "strict must be a boolean",
				goerr.V(model.ArgumentKey, "strict"),
				goerr.V(model.ValueKey, v)))
			return
		}
		strict = parsed
	}

	result, err := s.uc.Simulation.Validate(r.Context(), sessionID(r), strict)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}
