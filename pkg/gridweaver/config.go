package gridweaver

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned for configurations that fail validation
var ErrInvalidConfig = errors.New("invalid config")

// Config holds configuration for the engine
type Config struct {
	PathfindingType   PathfindingType `yaml:"algorithm"`
	MaxSteps          int             `yaml:"max_steps"`
	CardinalCost      float64         `yaml:"cardinal_cost"`
	DiagonalCost      float64         `yaml:"diagonal_cost"`
	FlowFieldMaxDepth float64         `yaml:"flow_field_max_depth"`
	FlowFieldWorkers  int             `yaml:"flow_field_workers"` // 0 means GOMAXPROCS
	FOVRadius         int             `yaml:"fov_radius"`
}

// PathfindingType defines the type of pathfinding algorithm to use
type PathfindingType int

const (
	PathfindingAStar PathfindingType = iota
	PathfindingJPS
)

func (p PathfindingType) String() string {
	switch p {
	case PathfindingAStar:
		return "astar"
	case PathfindingJPS:
		return "jps"
	default:
		return fmt.Sprintf("PathfindingType(%d)", int(p))
	}
}

// MarshalYAML writes the algorithm by name
func (p PathfindingType) MarshalYAML() (any, error) {
	return p.String(), nil
}

// UnmarshalYAML accepts "astar" or "jps", case-insensitively
func (p *PathfindingType) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "astar", "a*":
		*p = PathfindingAStar
	case "jps":
		*p = PathfindingJPS
	default:
		return fmt.Errorf("line %d: unknown algorithm %q: %w", value.Line, name, ErrInvalidConfig)
	}
	return nil
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		PathfindingType:   PathfindingAStar,
		MaxSteps:          65536,
		CardinalCost:      1.0,
		DiagonalCost:      1.4,
		FlowFieldMaxDepth: 1024,
		FlowFieldWorkers:  0,
		FOVRadius:         8,
	}
}

// Validate reports the first problem with the configuration
func (c *Config) Validate() error {
	switch {
	case c.PathfindingType != PathfindingAStar && c.PathfindingType != PathfindingJPS:
		return fmt.Errorf("algorithm %v: %w", c.PathfindingType, ErrInvalidConfig)
	case c.MaxSteps < 0:
		return fmt.Errorf("max_steps %d is negative: %w", c.MaxSteps, ErrInvalidConfig)
	case c.CardinalCost <= 0 || c.DiagonalCost <= 0:
		return fmt.Errorf("movement costs %v/%v must be positive: %w", c.CardinalCost, c.DiagonalCost, ErrInvalidConfig)
	case c.DiagonalCost >= 2*c.CardinalCost:
		// A diagonal that costs two cardinal steps or more is never taken,
		// and jump point pruning no longer finds optimal paths
		return fmt.Errorf("diagonal_cost %v must be below twice cardinal_cost: %w", c.DiagonalCost, ErrInvalidConfig)
	case c.FlowFieldMaxDepth < 0:
		return fmt.Errorf("flow_field_max_depth %v is negative: %w", c.FlowFieldMaxDepth, ErrInvalidConfig)
	case c.FlowFieldWorkers < 0:
		return fmt.Errorf("flow_field_workers %d is negative: %w", c.FlowFieldWorkers, ErrInvalidConfig)
	case c.FOVRadius < 0:
		return fmt.Errorf("fov_radius %d is negative: %w", c.FOVRadius, ErrInvalidConfig)
	}
	return nil
}

// ParseConfig decodes YAML on top of DefaultConfig and validates the result
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig reads a YAML configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}
