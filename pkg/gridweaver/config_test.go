package gridweaver

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
}

func TestParseConfig(t *testing.T) {
	data := []byte(`
algorithm: jps
max_steps: 500
diagonal_cost: 1.5
flow_field_workers: 3
`)
	cfg, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}

	if cfg.PathfindingType != PathfindingJPS {
		t.Errorf("PathfindingType = %v, want jps", cfg.PathfindingType)
	}
	if cfg.MaxSteps != 500 {
		t.Errorf("MaxSteps = %d, want 500", cfg.MaxSteps)
	}
	if cfg.DiagonalCost != 1.5 {
		t.Errorf("DiagonalCost = %v, want 1.5", cfg.DiagonalCost)
	}
	if cfg.FlowFieldWorkers != 3 {
		t.Errorf("FlowFieldWorkers = %d, want 3", cfg.FlowFieldWorkers)
	}

	// Keys left out keep their defaults
	def := DefaultConfig()
	if cfg.CardinalCost != def.CardinalCost || cfg.FOVRadius != def.FOVRadius {
		t.Errorf("missing keys did not keep defaults: %+v", cfg)
	}
}

func TestParseConfigInvalid(t *testing.T) {
	tests := map[string]string{
		"unknown algorithm":  "algorithm: dfs",
		"negative steps":     "max_steps: -1",
		"zero cost":          "cardinal_cost: 0",
		"expensive diagonal": "cardinal_cost: 1\ndiagonal_cost: 2",
		"negative depth":     "flow_field_max_depth: -5",
		"negative workers":   "flow_field_workers: -2",
		"negative radius":    "fov_radius: -1",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(data))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("ParseConfig error = %v, want ErrInvalidConfig", err)
			}
		})
	}

	if _, err := ParseConfig([]byte("max_steps: [1, 2")); err == nil {
		t.Fatal("malformed YAML should fail")
	}
}

func TestConfigYAMLRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PathfindingType = PathfindingJPS
	cfg.FOVRadius = 12

	data, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatalf("yaml.Marshal: %v", err)
	}
	got, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig: %v\n%s", err, data)
	}
	if *got != *cfg {
		t.Fatalf("round trip = %+v, want %+v", *got, *cfg)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridweaver.yaml")
	if err := os.WriteFile(path, []byte("algorithm: astar\nfov_radius: 4\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.FOVRadius != 4 || cfg.PathfindingType != PathfindingAStar {
		t.Fatalf("LoadConfig = %+v", cfg)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file error = %v, want os.ErrNotExist", err)
	}
}
