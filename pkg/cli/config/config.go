package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
	"github.com/secmon-lab/oprisk/pkg/service/simulation"
	"github.com/secmon-lab/oprisk/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// AppConfig represents the application configuration file.
type AppConfig struct {
	Simulation SimulationConfig `toml:"simulation"`
	Assessment AssessmentConfig `toml:"assessment"`
}

// SimulationConfig configures the event generator of every session.
type SimulationConfig struct {
	BusinessUnits        []string                     `toml:"business_units"`
	RiskCategories       []string                     `toml:"risk_categories"`
	BreachTypes          []string                     `toml:"breach_types"`
	IncludeUnknownBreach bool                         `toml:"include_unknown_breach"`
	Granularity          types.Granularity            `toml:"granularity"`
	MaxEvents            int                          `toml:"max_events"`
	Loss                 *simulation.LossDistribution `toml:"loss"`
}

// Validate checks if the SimulationConfig is valid.
func (s *SimulationConfig) Validate() error {
	if s.Granularity != "" && !s.Granularity.IsValid() {
		return goerr.Wrap(ErrInvalidConfig, "invalid granularity", goerr.V("granularity", s.Granularity))
	}
	if s.Loss != nil {
		if err := s.Loss.Validate(); err != nil {
			return goerr.Wrap(err, "invalid loss distribution")
		}
	}
	if s.MaxEvents < 0 {
		return goerr.Wrap(ErrInvalidConfig, "max_events must not be negative", goerr.V("max_events", s.MaxEvents))
	}
	for _, label := range s.BreachTypes {
		if strings.TrimSpace(label) == "" {
			return goerr.Wrap(ErrInvalidConfig, "breach type label must not be empty")
		}
	}
	return nil
}

// GeneratorOptions converts the configuration into generator options.
func (s *SimulationConfig) GeneratorOptions() []simulation.Option {
	var opts []simulation.Option
	if s.Loss != nil {
		opts = append(opts, simulation.WithLossDistribution(*s.Loss))
	}
	if s.Granularity != "" {
		opts = append(opts, simulation.WithGranularity(s.Granularity))
	}
	if len(s.BreachTypes) > 0 {
		opts = append(opts, simulation.WithBreachTypes(s.BreachTypes))
	}
	if s.IncludeUnknownBreach {
		opts = append(opts, simulation.WithUnknownBreach(true))
	}
	if s.MaxEvents > 0 {
		opts = append(opts, simulation.WithMaxEvents(s.MaxEvents))
	}
	return opts
}

// AssessmentConfig holds assessments entered ahead of time.
type AssessmentConfig struct {
	Units []Unit `toml:"units"`
}

// Unit is one business unit assessment. Controls may mix plain names and
// tables with description, type and effectiveness keys.
type Unit struct {
	Name                 string `toml:"name"`
	InherentRisk         string `toml:"inherent_risk"`
	Controls             []any  `toml:"controls"`
	ControlEffectiveness string `toml:"control_effectiveness"`
}

// UpsertInput converts the unit into a use case input.
func (u *Unit) UpsertInput() usecase.UpsertInput {
	input := usecase.UpsertInput{
		UnitName:             u.Name,
		InherentRisk:         types.RiskLevel(u.InherentRisk),
		ControlEffectiveness: types.ControlEffectiveness(u.ControlEffectiveness),
	}
	if u.Controls != nil {
		input.Controls = u.Controls
	}
	return input
}

// Validate checks if the Unit is valid.
func (u *Unit) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return goerr.Wrap(ErrMissingName, "unit name is required")
	}
	if !types.RiskLevel(u.InherentRisk).IsValid() {
		return goerr.Wrap(ErrInvalidConfig, "invalid inherent risk",
			goerr.V(UnitNameKey, u.Name),
			goerr.V("inherent_risk", u.InherentRisk))
	}
	if u.ControlEffectiveness != "" && !types.ControlEffectiveness(u.ControlEffectiveness).IsValid() {
		return goerr.Wrap(ErrInvalidConfig, "invalid control effectiveness",
			goerr.V(UnitNameKey, u.Name),
			goerr.V("control_effectiveness", u.ControlEffectiveness))
	}

	var controls any
	if u.Controls != nil {
		controls = u.Controls
	}
	parsed, err := model.ParseControls(controls)
	if err != nil {
		return goerr.Wrap(err, "invalid controls", goerr.V(UnitNameKey, u.Name))
	}
	for _, c := range parsed {
		if err := c.Validate(); err != nil {
			return goerr.Wrap(err, "invalid control", goerr.V(UnitNameKey, u.Name))
		}
	}
	return nil
}

// Validate checks if the AppConfig is valid.
func (a *AppConfig) Validate() error {
	if err := a.Simulation.Validate(); err != nil {
		return goerr.Wrap(err, "invalid simulation config")
	}

	names := make(map[string]bool)
	for i, unit := range a.Assessment.Units {
		if err := unit.Validate(); err != nil {
			return goerr.Wrap(err, "invalid unit", goerr.V(UnitIndexKey, i))
		}
		name := unit.Name
		if names[name] {
			return goerr.Wrap(ErrDuplicateUnit, "unit is declared twice",
				goerr.V(UnitNameKey, name),
				goerr.V(UnitIndexKey, i))
		}
		names[name] = true
	}

	return nil
}

// LoadAppConfiguration loads the application configuration from a TOML file.
func LoadAppConfiguration(path string) (*AppConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	return ParseAppConfiguration(data, path)
}

// ParseAppConfiguration parses and validates TOML data. path is only used in errors.
func ParseAppConfiguration(data []byte, path string) (*AppConfig, error) {
	var config AppConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML config",
			goerr.V(ConfigPathKey, path),
			goerr.V("cause", err.Error()))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, path))
	}

	return &config, nil
}

// Config is the --config flag.
type Config struct {
	path string
}

func (x *Config) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to TOML configuration file",
			Category:    "Config",
			TakesFile:   true,
			Destination: &x.path,
			Sources:     cli.EnvVars("OPRISK_CONFIG"),
		},
	}
}

func (x Config) LogValue() slog.Value {
	return slog.StringValue(x.path)
}

// Load reads the configured file, or returns an empty configuration when no
// file is given.
func (x *Config) Load() (*AppConfig, error) {
	if x.path == "" {
		return &AppConfig{}, nil
	}
	return LoadAppConfiguration(x.path)
}
