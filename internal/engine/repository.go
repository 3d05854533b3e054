package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kingrea/hireflow/internal/config"
)

// ErrStateNotFound is returned when no persisted run state exists yet.
var ErrStateNotFound = errors.New("workflow engine: state not found")

// StateStore persists workflow engine state snapshots.
type StateStore interface {
	Load(runID string) (State, error)
	Save(State) error
}

// Repository stores run state under .hireflow/runs/<run-id>.json.
type Repository struct {
	dir string
}

// NewRepository creates a repository rooted at the config's runs directory.
func NewRepository(cfg *config.Config) *Repository {
	return &Repository{dir: cfg.RunsDir()}
}

// Load reads a persisted run if present.
func (r *Repository) Load(runID string) (State, error) {
	data, err := os.ReadFile(r.path(runID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return State{}, ErrStateNotFound
		}
		return State{}, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, err
	}
	return state, nil
}

// Save writes the run state to disk with best-effort atomicity.
func (r *Repository) Save(state State) error {
	if state.RunID == "" {
		return fmt.Errorf("workflow engine: run id is required to persist state")
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return err
	}
	encoded, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path(state.RunID), append(encoded, '\n'), 0o644)
}

func (r *Repository) path(runID string) string {
	return filepath.Join(r.dir, runID+".json")
}
