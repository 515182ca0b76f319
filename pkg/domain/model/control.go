package model

import (
	"encoding/json"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
)

// Control is a mitigating control. A plain control name is stored as a Control
// with only Description set.
type Control struct {
	Description   string                     `json:"description" toml:"description" yaml:"description"`
	Type          types.ControlType          `json:"type,omitempty" toml:"type" yaml:"type,omitempty"`
	Effectiveness types.ControlEffectiveness `json:"effectiveness,omitempty" toml:"effectiveness" yaml:"effectiveness,omitempty"`
}

// PlainControl creates a control known only by its name.
func PlainControl(name string) Control {
	return Control{Description: strings.TrimSpace(name)}
}

// IsPlain reports whether the control carries no detail beyond its name.
func (c Control) IsPlain() bool {
	return c.Type == "" && c.Effectiveness == ""
}

// Validate checks the optional detail fields.
func (c Control) Validate() error {
	if !c.Type.IsValid() {
		return goerr.Wrap(ErrInvalidArgument, "invalid control type",
			goerr.V(ArgumentKey, "controls"),
			goerr.V(ValueKey, c.Type))
	}
	if c.Effectiveness != "" && !c.Effectiveness.IsValid() {
		return goerr.Wrap(ErrInvalidArgument, "invalid control effectiveness",
			goerr.V(ArgumentKey, "controls"),
			goerr.V(ValueKey, c.Effectiveness))
	}
	return nil
}

// UnmarshalJSON accepts either a bare string (plain control name) or an object.
func (c *Control) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*c = PlainControl(name)
		return nil
	}

	type detailed Control
	var d detailed
	if err := json.Unmarshal(data, &d); err != nil {
		return goerr.Wrap(ErrInvalidArgument, "control must be a string or an object",
			goerr.V(ArgumentKey, "controls"))
	}
	*c = Control(d)
	return nil
}

// ParseControls normalizes a loosely typed controls value. It accepts a list of
// strings, a list of Control, or a list whose elements are strings or maps with
// description/type/effectiveness keys. A comma separated string is split into
// plain controls. Anything else is an ErrInvalidArgument.
func ParseControls(v any) ([]Control, error) {
	switch controls := v.(type) {
	case nil:
		return []Control{}, nil
	case []Control:
		return controls, nil
	case []string:
		out := make([]Control, 0, len(controls))
		for _, name := range controls {
			out = append(out, PlainControl(name))
		}
		return out, nil
	case string:
		out := []Control{}
		for _, name := range strings.Split(controls, ",") {
			if strings.TrimSpace(name) != "" {
				out = append(out, PlainControl(name))
			}
		}
		return out, nil
	case []any:
		out := make([]Control, 0, len(controls))
		for i, item := range controls {
			c, err := parseControl(item)
			if err != nil {
				return nil, goerr.Wrap(err, "invalid control", goerr.V("index", i))
			}
			out = append(out, c)
		}
		return out, nil
	default:
		return nil, goerr.Wrap(ErrInvalidArgument, "controls must be a list",
			goerr.V(ArgumentKey, "controls"),
			goerr.V(ActualTypeKey, typeName(v)))
	}
}

func parseControl(item any) (Control, error) {
	switch c := item.(type) {
	case string:
		return PlainControl(c), nil
	case Control:
		return c, nil
	case map[string]any:
		desc, _ := c["description"].(string)
		ctype, _ := c["type"].(string)
		eff, _ := c["effectiveness"].(string)
		return Control{
			Description:   desc,
			Type:          types.ControlType(ctype),
			Effectiveness: types.ControlEffectiveness(eff),
		}, nil
	default:
		return Control{}, goerr.Wrap(ErrInvalidArgument, "control must be a string or a map",
			goerr.V(ArgumentKey, "controls"),
			goerr.V(ActualTypeKey, typeName(item)))
	}
}

// WeakestEffectiveness returns the lowest effectiveness declared on any control,
// or "" when no control declares one.
func WeakestEffectiveness(controls []Control) types.ControlEffectiveness {
	var weakest types.ControlEffectiveness
	for _, c := range controls {
		if c.Effectiveness.Strength() == 0 {
			continue
		}
		if weakest == "" || c.Effectiveness.Strength() < weakest.Strength() {
			weakest = c.Effectiveness
		}
	}
	return weakest
}
