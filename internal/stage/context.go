package stage

import (
	"context"
	"time"

	"github.com/kingrea/hireflow/internal/config"
	"github.com/kingrea/hireflow/internal/ledger"
	"github.com/kingrea/hireflow/internal/logging"
)

// Context carries shared runtime dependencies into every stage.
type Context struct {
	Config *config.Config
	Ledger *ledger.Ledger
	Log    *logging.Logger
}

// NewContext builds a stage Context.
func NewContext(cfg *config.Config, led *ledger.Ledger, log *logging.Logger) *Context {
	return &Context{Config: cfg, Ledger: led, Log: log}
}

// CallContext derives a per-collaborator-call context bounded by the
// configured timeout. A stalled collaborator surfaces as a call error rather
// than hanging the workflow.
func (sc *Context) CallContext(parent context.Context) (context.Context, context.CancelFunc) {
	timeout := 30 * time.Second
	if sc.Config != nil {
		timeout = sc.Config.CallTimeout()
	}
	return context.WithTimeout(parent, timeout)
}

// Logf writes to the run log when one is attached.
func (sc *Context) Logf(format string, args ...any) {
	if sc.Log != nil {
		sc.Log.Printf(format, args...)
	}
}
