package framez

import (
	"errors"
	"fmt"
	"runtime/debug"
	"time"
)

func debugStack() []byte { return debug.Stack() }

// ErrStopRequested is the internal sentinel a queue yields to unblock a
// parked consumer during shutdown (spec §7.3). It is not user-visible:
// callers of the public API never see it returned from Output.GetFrame.
var ErrStopRequested = errors.New("framez: stop requested")

// FilterError wraps a failure raised out of Filter.ProcessFrame (spec
// §7.1). It is what kill-tree cascades deliver to every callback that
// transitively awaited the failed instance.
type FilterError struct {
	Substrate Name
	Index     uint64
	Err       error
	Timestamp time.Time
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("framez: filter %q frame %d failed: %v", e.Substrate, e.Index, e.Err)
}

func (e *FilterError) Unwrap() error { return e.Err }

// ConstructError wraps a failure raised while building the dependency
// graph — out of FrameData or edge wiring (spec §7.2). It is delivered
// only to the top-level Construct request that triggered it.
type ConstructError struct {
	Substrate Name
	Index     uint64
	Err       error
	Timestamp time.Time
}

func (e *ConstructError) Error() string {
	return fmt.Sprintf("framez: construct %q frame %d failed: %v", e.Substrate, e.Index, e.Err)
}

func (e *ConstructError) Unwrap() error { return e.Err }

// FatalError represents an invariant violation inside the Maintainer's own
// bookkeeping, or a kill-tree cascade nobody's callback handled (spec
// §7.4/§4.G.4). The engine logs a stack trace through the configured
// Logger at LevelWarning and re-panics; there is no recovery path.
type FatalError struct {
	Reason string
	Stack  []byte
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("framez: fatal: %s", e.Reason)
}

func panicFatal(logger Logger, reason string) {
	fe := &FatalError{Reason: reason, Stack: debugStack()}
	logger.Log(LevelWarning, fe.Error(), Field{Key: "stack", Value: string(fe.Stack)})
	panic(fe)
}
