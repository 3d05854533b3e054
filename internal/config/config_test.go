package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewConfigDefaultsWhenFileMissing(t *testing.T) {
	projectDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(projectDir, HireflowDir), 0755); err != nil {
		t.Fatal(err)
	}
	c, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if c.Role() != defaultRole {
		t.Fatalf("expected default role %q, got %q", defaultRole, c.Role())
	}
	if c.ShortlistThreshold() != defaultShortlistThreshold {
		t.Fatalf("expected threshold %f, got %f", defaultShortlistThreshold, c.ShortlistThreshold())
	}
	if c.IterationCap() != defaultIterationCap {
		t.Fatalf("expected iteration cap %d, got %d", defaultIterationCap, c.IterationCap())
	}
	if c.CallTimeout() != defaultCallTimeout {
		t.Fatalf("expected call timeout %s, got %s", defaultCallTimeout, c.CallTimeout())
	}
	slots := c.PanelSlots()[c.Role()]
	if len(slots) != 4 {
		t.Fatalf("expected 4 default slots, got %v", slots)
	}
}

func TestNewConfigParsesYaml(t *testing.T) {
	projectDir := t.TempDir()
	hireflowDir := filepath.Join(projectDir, HireflowDir)
	if err := os.MkdirAll(hireflowDir, 0755); err != nil {
		t.Fatal(err)
	}
	configYAML := strings.TrimSpace(`
version: 1
role: data_engineer
shortlist_threshold: 0.5
iteration_cap: 25
call_timeout: 5s
panel_slots:
  data_engineer:
    - "2026-01-05 09:00"
    - "2026-01-05 10:00"
`)
	if err := os.WriteFile(filepath.Join(hireflowDir, "config.yaml"), []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if c.Role() != "data_engineer" {
		t.Fatalf("unexpected role: %s", c.Role())
	}
	if c.IterationCap() != 25 {
		t.Fatalf("unexpected iteration cap: %d", c.IterationCap())
	}
	if c.CallTimeout() != 5*time.Second {
		t.Fatalf("unexpected call timeout: %s", c.CallTimeout())
	}
	if got := c.PanelSlots()["data_engineer"]; len(got) != 2 || got[0] != "2026-01-05 09:00" {
		t.Fatalf("unexpected panel slots: %v", got)
	}
}

func TestNewConfigRejectsRoleWithoutSlots(t *testing.T) {
	projectDir := t.TempDir()
	hireflowDir := filepath.Join(projectDir, HireflowDir)
	if err := os.MkdirAll(hireflowDir, 0755); err != nil {
		t.Fatal(err)
	}
	configYAML := "version: 1\nrole: mystery_role\n"
	if err := os.WriteFile(filepath.Join(hireflowDir, "config.yaml"), []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewConfig(projectDir); err == nil {
		t.Fatalf("expected error for role with no panel_slots entry")
	}
}

func TestEnvOverridesRole(t *testing.T) {
	projectDir := t.TempDir()
	hireflowDir := filepath.Join(projectDir, HireflowDir)
	if err := os.MkdirAll(hireflowDir, 0755); err != nil {
		t.Fatal(err)
	}
	configYAML := strings.TrimSpace(`
version: 1
role: backend_engineer
panel_slots:
  backend_engineer:
    - "2025-12-13 10:00"
  platform_engineer:
    - "2025-12-14 10:00"
`)
	if err := os.WriteFile(filepath.Join(hireflowDir, "config.yaml"), []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HIREFLOW_ROLE", "platform_engineer")
	t.Setenv("HIREFLOW_ITERATION_CAP", "7")
	c, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if c.Role() != "platform_engineer" {
		t.Fatalf("env role override not applied: %s", c.Role())
	}
	if c.IterationCap() != 7 {
		t.Fatalf("env iteration cap override not applied: %d", c.IterationCap())
	}
}

func TestInitHireflowDirWritesDefaultConfig(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitHireflowDir(projectDir); err != nil {
		t.Fatalf("init: %v", err)
	}
	for _, sub := range []string{"logs", "runs"} {
		if _, err := os.Stat(filepath.Join(projectDir, HireflowDir, sub)); err != nil {
			t.Fatalf("missing %s dir: %v", sub, err)
		}
	}
	data, err := os.ReadFile(filepath.Join(projectDir, HireflowDir, "config.yaml"))
	if err != nil {
		t.Fatalf("read default config: %v", err)
	}
	if !strings.Contains(string(data), "backend_engineer") {
		t.Fatalf("default config missing role: %s", data)
	}
}
