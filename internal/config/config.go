// internal/config/config.go
//
// This package handles configuration and the .hireflow directory structure.
// Every project that runs hireflow gets a .hireflow/ folder created in its
// working directory for logs and run-state snapshots.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// HireflowDir is the name of the directory we create per project.
	HireflowDir = ".hireflow"

	defaultRole               = "backend_engineer"
	defaultShortlistThreshold = 0.7
	defaultIterationCap       = 1000
	defaultCallTimeout        = 30 * time.Second
)

const defaultPipelineConfigYAML = `# hireflow pipeline configuration
version: 1

# Role the requisition schedules interviews against. Slot lookup uses this
# key, so it must match an entry under panel_slots.
role: backend_engineer

# Minimum screening score that earns a shortlist.
shortlist_threshold: 0.7

# Hard cap on workflow ticks; the engine aborts if the pipeline has not
# settled by then.
iteration_cap: 1000

# Timeout applied to each external collaborator call.
call_timeout: 30s

# Panel availability per role, in chronological order.
panel_slots:
  backend_engineer:
    - "2025-12-13 10:00"
    - "2025-12-13 11:00"
    - "2025-12-13 15:00"
    - "2025-12-13 16:00"
`

// Duration wraps time.Duration so YAML values like "30s" parse cleanly.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// PipelineConfig models .hireflow/config.yaml.
type PipelineConfig struct {
	Version            int                 `yaml:"version"`
	Role               string              `yaml:"role"`
	ShortlistThreshold float64             `yaml:"shortlist_threshold"`
	IterationCap       int                 `yaml:"iteration_cap"`
	CallTimeout        Duration            `yaml:"call_timeout"`
	PanelSlots         map[string][]string `yaml:"panel_slots"`
}

// Config holds the runtime configuration for hireflow.
type Config struct {
	// ProjectDir is the directory where the user ran `hireflow` from.
	ProjectDir string

	// HireflowProjectDir is ProjectDir/.hireflow.
	HireflowProjectDir string

	Pipeline PipelineConfig
}

// InitHireflowDir creates the .hireflow directory structure in the given
// project directory.
//
// Structure created:
// .hireflow/
// ├── logs/    <- pipeline activity log
// └── runs/    <- persisted engine state per run
func InitHireflowDir(projectDir string) error {
	hireflowDir := filepath.Join(projectDir, HireflowDir)

	dirs := []string{
		filepath.Join(hireflowDir, "logs"),
		filepath.Join(hireflowDir, "runs"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return ensurePipelineConfig(filepath.Join(hireflowDir, "config.yaml"))
}

// NewConfig creates a Config populated from .hireflow/config.yaml, falling
// back to shipped defaults for anything the file leaves unset.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:         projectDir,
		HireflowProjectDir: filepath.Join(projectDir, HireflowDir),
		Pipeline:           defaultPipelineConfig(),
	}
	if err := cfg.loadPipelineConfig(); err != nil {
		return nil, err
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.HireflowProjectDir, "logs")
}

// RunsDir returns the directory holding persisted engine run state.
func (c *Config) RunsDir() string {
	return filepath.Join(c.HireflowProjectDir, "runs")
}

// PipelineConfigPath returns the on-disk location for the config file.
func (c *Config) PipelineConfigPath() string {
	return filepath.Join(c.HireflowProjectDir, "config.yaml")
}

// Role returns the role interviews are scheduled against.
func (c *Config) Role() string {
	return c.Pipeline.Role
}

// ShortlistThreshold returns the screening shortlist cutoff.
func (c *Config) ShortlistThreshold() float64 {
	return c.Pipeline.ShortlistThreshold
}

// IterationCap returns the maximum number of workflow ticks per run.
func (c *Config) IterationCap() int {
	return c.Pipeline.IterationCap
}

// CallTimeout returns the per-call collaborator timeout.
func (c *Config) CallTimeout() time.Duration {
	return time.Duration(c.Pipeline.CallTimeout)
}

// PanelSlots returns the role -> slot availability table.
func (c *Config) PanelSlots() map[string][]string {
	return c.Pipeline.PanelSlots
}

// Validate rejects configurations the engine cannot run with. The role must
// name an entry in the panel table: we refuse to guess a role from the job
// description.
func (c *Config) Validate() error {
	p := c.Pipeline
	if strings.TrimSpace(p.Role) == "" {
		return fmt.Errorf("config: role is required")
	}
	if _, ok := p.PanelSlots[p.Role]; !ok {
		return fmt.Errorf("config: role %q has no panel_slots entry", p.Role)
	}
	if p.ShortlistThreshold < 0 || p.ShortlistThreshold > 1 {
		return fmt.Errorf("config: shortlist_threshold %f outside [0,1]", p.ShortlistThreshold)
	}
	if p.IterationCap <= 0 {
		return fmt.Errorf("config: iteration_cap must be positive")
	}
	if p.CallTimeout <= 0 {
		return fmt.Errorf("config: call_timeout must be positive")
	}
	return nil
}

func defaultPipelineConfig() PipelineConfig {
	var cfg PipelineConfig
	if err := yaml.Unmarshal([]byte(defaultPipelineConfigYAML), &cfg); err != nil {
		panic(fmt.Sprintf("config: default pipeline config is invalid: %v", err))
	}
	return cfg
}

func (c *Config) loadPipelineConfig() error {
	path := c.PipelineConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	parsed := defaultPipelineConfig()
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	c.Pipeline = parsed
	return nil
}

// applyEnvOverrides lets deployment environments override the file without
// editing it. HIREFLOW_ROLE swaps the scheduling role, HIREFLOW_ITERATION_CAP
// tightens the tick guard.
func (c *Config) applyEnvOverrides() error {
	if role := strings.TrimSpace(os.Getenv("HIREFLOW_ROLE")); role != "" {
		c.Pipeline.Role = role
	}
	if cap := strings.TrimSpace(os.Getenv("HIREFLOW_ITERATION_CAP")); cap != "" {
		var parsed int
		if _, err := fmt.Sscanf(cap, "%d", &parsed); err != nil {
			return fmt.Errorf("config: invalid HIREFLOW_ITERATION_CAP %q: %w", cap, err)
		}
		c.Pipeline.IterationCap = parsed
	}
	return nil
}

func ensurePipelineConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(defaultPipelineConfigYAML), 0644); err != nil {
		return fmt.Errorf("config: write default config %s: %w", path, err)
	}
	return nil
}
