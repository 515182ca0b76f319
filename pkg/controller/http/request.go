package http

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
)

type openSessionRequest struct {
	Seed *uint64 `json:"seed"`
}

type generateEventsRequest struct {
	Count          int       `json:"count" validate:"gte=0,lte=1000000"`
	Start          time.Time `json:"start" validate:"required"`
	End            time.Time `json:"end" validate:"required,gtefield=Start"`
	BusinessUnits  []string  `json:"business_units" validate:"omitempty,dive,required"`
	RiskCategories []string  `json:"risk_categories" validate:"omitempty,dive,required"`
	Basel          bool      `json:"basel"`
}

type upsertAssessmentRequest struct {
	InherentRisk         types.RiskLevel            `json:"inherent_risk" validate:"required,risk_level"`
	Controls             []model.Control            `json:"controls" validate:"dive"`
	ControlEffectiveness types.ControlEffectiveness `json:"control_effectiveness" validate:"omitempty,effectiveness"`
}

func newValidator() (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report JSON field names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	validations := map[string]validator.Func{
		"risk_level": func(fl validator.FieldLevel) bool {
			return types.RiskLevel(fl.Field().String()).IsValid()
		},
		"effectiveness": func(fl validator.FieldLevel) bool {
			return types.ControlEffectiveness(fl.Field().String()).IsValid()
		},
		"approach": func(fl validator.FieldLevel) bool {
			return types.Approach(fl.Field().String()).IsValid()
		},
	}
	for tag, fn := range validations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return nil, goerr.Wrap(err, "failed to register validation", goerr.V("tag", tag))
		}
	}

	return v, nil
}

// decodeBody reads a JSON body into dst and validates it. An empty body leaves
// dst untouched.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, s.maxBodySize)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return goerr.Wrap(model.ErrInvalidArgument, "malformed request body",
			goerr.V(model.ArgumentKey, "body"),
			goerr.V("cause", err.Error()))
	}

	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return goerr.Wrap(model.ErrInvalidArgument, "request validation failed",
				goerr.V(model.ArgumentKey, fe.Field()),
				goerr.V("rule", fe.Tag()),
				goerr.V(model.ValueKey, fe.Value()))
		}
		return goerr.Wrap(model.ErrInvalidArgument, "request validation failed",
			goerr.V("cause", err.Error()))
	}

	return nil
}

// eventFilter reads ?category=&from=&to=&min_loss=&max_loss=&limit= into a
// filter. Times are RFC 3339.
func eventFilter(r *http.Request) (model.EventFilter, error) {
	q := r.URL.Query()
	filter := model.EventFilter{Category: q.Get("category")}

	for key, dst := range map[string]*time.Time{"from": &filter.From, "to": &filter.To} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, queryError(key, v, "must be an RFC 3339 time")
		}
		*dst = ts
	}

	for key, dst := range map[string]**float64{"min_loss": &filter.MinLoss, "max_loss": &filter.MaxLoss} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return filter, queryError(key, v, "must be a finite number")
		}
		*dst = &f
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, queryError("limit", v, "must be an integer")
		}
		filter.Limit = n
	}

	if err := filter.Validate(); err != nil {
		return filter, err
	}
	return filter, nil
}

func queryError(key, value, msg string) error {
	return goerr.Wrap(model.ErrInvalidArgument, key+" "+msg,
		goerr.V(model.ArgumentKey, key),
		goerr.V(model.ValueKey, value))
}
