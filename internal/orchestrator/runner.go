package orchestrator

import "context"

// Runner executes blocking work away from the UI loop. The work returns a
// continuation that the runner applies back on the UI loop, so store
// mutations never leave it.
type Runner interface {
	Run(work func(ctx context.Context) func())
}

// InlineRunner runs work and its continuation immediately on the caller.
type InlineRunner struct {
	Ctx context.Context
}

// Run implements Runner.
func (r InlineRunner) Run(work func(ctx context.Context) func()) {
	ctx := r.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if apply := work(ctx); apply != nil {
		apply()
	}
}
