// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/skims/connector"
	"github.com/katalvlaran/skims/edges"
	"github.com/katalvlaran/skims/skim"
)

// ErrInvalid wraps every decoding or validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Pipeline steps.
const (
	StepPreprocessing = "preprocessing"
	StepConnectors    = "connectors"
	StepGraph         = "graph"
)

// Config is the root of a run configuration.
type Config struct {
	Paths    Paths    `yaml:"paths"`
	Settings Settings `yaml:"settings"`
	Logging  Logging  `yaml:"logging"`
	Steps    []string `yaml:"steps" validate:"required,min=1,dive,oneof=preprocessing connectors graph"`
}

// Paths locate inputs and the output directory.
type Paths struct {
	GTFS         string `yaml:"path_gtfs" validate:"required"`
	Outputs      string `yaml:"path_outputs" validate:"required"`
	Origins      string `yaml:"path_origins" validate:"required"`
	Destinations string `yaml:"path_destinations" validate:"required"`
}

// Settings are the numeric parameters of a run. Times are seconds, speeds
// km/h and distances metres. ReferenceLatitude has no default: planar
// distances are only true near the latitude the projection is scaled for.
type Settings struct {
	CalendarDate          int          `yaml:"calendar_date" validate:"gte=19000101,lte=29991231"`
	StartS                float64      `yaml:"start_s" validate:"gte=0"`
	EndS                  float64      `yaml:"end_s" validate:"gtfield=StartS"`
	WalkDistanceThreshold float64      `yaml:"walk_distance_threshold" validate:"gte=0"`
	WalkSpeed             float64      `yaml:"walk_speed" validate:"gt=0"`
	CrowsFlyFactor        float64      `yaml:"crows_fly_factor" validate:"gte=1"`
	MaxTransferTime       float64      `yaml:"max_transfer_time" validate:"gte=0"`
	MaxWait               float64      `yaml:"max_wait" validate:"gte=0"`
	WeightWalk            float64      `yaml:"weight_walk" validate:"gte=0"`
	WeightWait            float64      `yaml:"weight_wait" validate:"gte=0"`
	PenaltyInterchange    float64      `yaml:"penalty_interchange" validate:"gte=0"`
	BoundingBox           *BoundingBox `yaml:"bounding_box"`
	ReferenceLatitude     *float64     `yaml:"reference_latitude" validate:"required,gte=-85,lte=85"`
	Attribute             string       `yaml:"attribute" validate:"omitempty,oneof=cost time ivt walk wait"`
	Workers               int          `yaml:"workers" validate:"gte=0"`
}

// BoundingBox crops stops in projected coordinates.
type BoundingBox struct {
	XMin float64 `yaml:"xmin"`
	XMax float64 `yaml:"xmax" validate:"gtfield=XMin"`
	YMin float64 `yaml:"ymin"`
	YMax float64 `yaml:"ymax" validate:"gtfield=YMin"`
}

// Logging selects the log level, format and optional file name inside
// path_outputs.
type Logging struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
	File   string `yaml:"file"`
}

const (
	defaultStartS             = 32400
	defaultEndS               = 41400
	defaultWalkThreshold      = 2000
	defaultWalkSpeed          = 4.5
	defaultCrowsFlyFactor     = 1.3
	defaultMaxTransferTime    = 1800
	defaultMaxWait            = 1800
	defaultWeightWalk         = 2
	defaultWeightWait         = 3
	defaultPenaltyInterchange = 600
	defaultLoggingLevel       = "info"
	defaultLoggingFormat      = "text"
)

// Defaults returns the settings used for keys a file leaves out. Paths and
// the calendar date have no default.
func Defaults() Config {
	return Config{
		Settings: Settings{
			StartS:                defaultStartS,
			EndS:                  defaultEndS,
			WalkDistanceThreshold: defaultWalkThreshold,
			WalkSpeed:             defaultWalkSpeed,
			CrowsFlyFactor:        defaultCrowsFlyFactor,
			MaxTransferTime:       defaultMaxTransferTime,
			MaxWait:               defaultMaxWait,
			WeightWalk:            defaultWeightWalk,
			WeightWait:            defaultWeightWait,
			PenaltyInterchange:    defaultPenaltyInterchange,
		},
		Logging: Logging{Level: defaultLoggingLevel, Format: defaultLoggingFormat},
		Steps:   []string{StepPreprocessing, StepConnectors, StepGraph},
	}
}

// Load reads and validates the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Parse decodes data over Defaults, applies environment overrides and
// validates the result. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Defaults()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	cfg.Logging.Level = valueOrDefault("SKIMS_LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = valueOrDefault("SKIMS_LOG_FORMAT", cfg.Logging.Format)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the struct tags of every section.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Has reports whether step is enabled.
func (c *Config) Has(step string) bool {
	for _, s := range c.Steps {
		if s == step {
			return true
		}
	}
	return false
}

// ConnectorParams derives the connector discovery parameters.
func (c *Config) ConnectorParams() connector.Params {
	s := c.Settings
	return connector.Params{
		WalkSpeed:             s.WalkSpeed,
		MaxTransferTime:       s.MaxTransferTime,
		MaxWait:               s.MaxWait,
		WalkDistanceThreshold: s.WalkDistanceThreshold,
		CrowsFlyFactor:        s.CrowsFlyFactor,
		StartS:                s.StartS,
	}
}

// Weights derives the generalised cost weights.
func (c *Config) Weights() edges.Weights {
	return edges.Weights{
		Walk:        c.Settings.WeightWalk,
		Wait:        c.Settings.WeightWait,
		Interchange: c.Settings.PenaltyInterchange,
	}
}

// Cutoff is the journey window end_s − start_s.
func (c *Config) Cutoff() float64 {
	return skim.Cutoff(c.Settings.StartS, c.Settings.EndS)
}

// SkimParams derives the parameters of a full pipeline run.
func (c *Config) SkimParams() skim.Params {
	return skim.Params{
		Connector: c.ConnectorParams(),
		Weights:   c.Weights(),
		Cutoff:    c.Cutoff(),
		Attribute: edges.Attribute(c.Settings.Attribute),
		Workers:   c.Settings.Workers,
	}
}

// TimeToDistance is the walk speed in metres per second.
func (c *Config) TimeToDistance() float64 { return c.ConnectorParams().TimeToDistance() }

// MaxTransferDistance is max_transfer_time in walk-distance units.
func (c *Config) MaxTransferDistance() float64 { return c.ConnectorParams().MaxTransferDistance() }

// Latitude is the projection reference latitude, 0 when unset.
func (c *Config) Latitude() float64 {
	if c.Settings.ReferenceLatitude == nil {
		return 0
	}
	return *c.Settings.ReferenceLatitude
}

// MaxWaitDistance is max_wait in walk-distance units.
func (c *Config) MaxWaitDistance() float64 { return c.ConnectorParams().MaxWaitDistance() }

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
