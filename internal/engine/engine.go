package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kingrea/hireflow/internal/pipeline"
	"github.com/kingrea/hireflow/internal/router"
	"github.com/kingrea/hireflow/internal/stage"
)

// TickEvent notifies an observer that one tick finished. The snapshot is a
// deep copy, safe to read while the run continues.
type TickEvent struct {
	RunID    string
	Tick     int
	Stage    stage.ID
	Result   stage.Result
	Snapshot pipeline.State
	Done     bool
}

// Observer receives tick events as the run progresses.
type Observer func(TickEvent)

// Engine drives the hiring pipeline: screening once, interview
// initialization, then route/execute ticks until the router selects the
// terminal report stage.
type Engine struct {
	registry *stage.Registry
	store    StateStore
	clock    func() time.Time
	observer Observer
	newRunID func() string
}

// Option customizes the engine instance.
type Option func(*Engine)

// WithClock injects a deterministic clock (primarily for tests).
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithObserver attaches a tick observer (the TUI, a logger, a test).
func WithObserver(obs Observer) Option {
	return func(e *Engine) {
		if obs != nil {
			e.observer = obs
		}
	}
}

// WithRunIDFactory overrides run ID generation (primarily for tests).
func WithRunIDFactory(factory func() string) Option {
	return func(e *Engine) {
		if factory != nil {
			e.newRunID = factory
		}
	}
}

// New wires a workflow engine to the stage registry and persistence store.
func New(registry *stage.Registry, store StateStore, opts ...Option) (*Engine, error) {
	if registry == nil {
		return nil, fmt.Errorf("workflow engine: stage registry is required")
	}
	if store == nil {
		return nil, fmt.Errorf("workflow engine: state store is required")
	}
	engine := &Engine{
		registry: registry,
		store:    store,
		clock:    time.Now,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine, nil
}

// RunRequest carries the inputs for one workflow run.
type RunRequest struct {
	JobDescription string
	Resumes        []string
}

// Run executes one full pipeline run. It returns the final engine state; the
// run fails only on an invariant violation, iteration-cap exhaustion, or a
// scheduling stall where no candidate can ever progress again. The caller
// may abort between ticks by cancelling ctx.
func (e *Engine) Run(ctx context.Context, sc *stage.Context, req RunRequest) (State, error) {
	if sc == nil {
		return State{}, fmt.Errorf("workflow engine: stage context is required")
	}
	now := e.clock()
	state := State{
		RunID:     e.newRunID(),
		Role:      sc.Config.Role(),
		Status:    RunStatusRunning,
		StartedAt: now,
		UpdatedAt: now,
		Pipeline: pipeline.State{
			JobDescription: req.JobDescription,
			Resumes:        append([]string(nil), req.Resumes...),
		},
	}

	// Screening runs exactly once, before the router loop.
	screening, err := e.registry.Resolve(stage.Screening)
	if err != nil {
		return State{}, err
	}
	result, err := screening.Run(ctx, sc, &state.Pipeline)
	if err != nil {
		return e.fail(state, fmt.Sprintf("screening failed: %v", err)), err
	}
	state.Pipeline.Interviews = pipeline.InitInterviews(state.Pipeline.ScreeningResults)
	if err := e.recordTick(&state, stage.Screening, result, false); err != nil {
		return state, err
	}

	iterationCap := sc.Config.IterationCap()
	for {
		if err := ctx.Err(); err != nil {
			return e.fail(state, "run aborted by caller"), err
		}
		if state.Tick >= iterationCap {
			err := fmt.Errorf("workflow engine: iteration cap %d exhausted before the pipeline settled", iterationCap)
			return e.fail(state, err.Error()), err
		}

		next := router.Route(state.Pipeline.Interviews)
		current, err := e.registry.Resolve(next)
		if err != nil {
			return e.fail(state, err.Error()), err
		}
		result, err := current.Run(ctx, sc, &state.Pipeline)
		if err != nil {
			if errors.Is(err, pipeline.ErrInvariantViolation) {
				return e.fail(state, err.Error()), err
			}
			// Collaborator-level stage failures are absorbed and retried on a
			// later tick; the iteration cap bounds a collaborator that never
			// recovers.
			sc.Logf("engine: tick %d stage %s failed, retrying later: %v", state.Tick+1, next, err)
			result = stage.Result{Status: stage.StatusFailed, Message: err.Error()}
		}

		done := next == stage.Report && result.Status == stage.StatusCompleted
		if err := e.recordTick(&state, next, result, done); err != nil {
			return state, err
		}
		if done {
			return state, nil
		}
		if stalled, reason := e.detectStall(next, result, sc, &state); stalled {
			err := fmt.Errorf("workflow engine: %s", reason)
			return e.fail(state, reason), err
		}
	}
}

// recordTick validates invariants, appends the tick record, persists the
// snapshot, and notifies the observer.
func (e *Engine) recordTick(state *State, id stage.ID, result stage.Result, done bool) error {
	if err := state.Pipeline.Validate(); err != nil {
		failed := e.fail(*state, err.Error())
		*state = failed
		return err
	}
	state.Tick++
	now := e.clock()
	state.Ticks = append(state.Ticks, TickRecord{
		Tick:     state.Tick,
		Stage:    id,
		Status:   result.Status,
		Message:  result.Message,
		Failures: result.Failures,
		At:       now,
	})
	state.UpdatedAt = now
	if done {
		state.Status = RunStatusCompleted
	}
	if err := e.store.Save(*state); err != nil {
		return fmt.Errorf("workflow engine: persist run %s: %w", state.RunID, err)
	}
	if e.observer != nil {
		e.observer(TickEvent{
			RunID:    state.RunID,
			Tick:     state.Tick,
			Stage:    id,
			Result:   result,
			Snapshot: state.Pipeline.Clone(),
			Done:     done,
		})
	}
	return nil
}

// detectStall catches the one shape of livelock the router cannot express.
// A scheduling tick that books nobody leaves the aggregate untouched, and
// slots only ever move free -> booked, so once the ledger is empty the next
// route decision is identical forever: the loop would spin until the
// iteration cap. Fail fast instead. A no-op tick with slots still free is a
// booking race (a ledger shared wider than it should be) and is retried.
func (e *Engine) detectStall(ran stage.ID, result stage.Result, sc *stage.Context, state *State) (bool, string) {
	if ran != stage.Scheduling || result.Status != stage.StatusNoOp {
		return false, ""
	}
	if sc.Ledger != nil && len(sc.Ledger.Available(state.Role)) > 0 {
		return false, ""
	}
	return true, fmt.Sprintf("no free slots remain for role %s; remaining candidates cannot progress", state.Role)
}

func (e *Engine) fail(state State, reason string) State {
	state.Status = RunStatusFailed
	state.StatusReason = reason
	state.UpdatedAt = e.clock()
	// Best effort: the run is already failing, a persistence error must not
	// mask the original cause.
	_ = e.store.Save(state)
	return state
}
