package flows

import (
	"context"
	"fmt"
)

// LogoutDeps captures logout flow dependencies.
type LogoutDeps struct {
	ClearSession func(context.Context) error

	Event  string
	Metric int
	Errors FormErrors
	Hooks
}

// RunLogout forgets the persisted login. There is no backend logout endpoint,
// so nothing is sent.
func RunLogout(ctx context.Context, deps LogoutDeps) error {
	normalizeHooks(&deps.Hooks)
	if deps.ClearSession == nil {
		return deps.Errors.EngineNotReady
	}
	if err := deps.ClearSession(ctx); err != nil {
		err = fmt.Errorf("%w: %w", deps.Errors.Persist, err)
		deps.EmitAudit(ctx, deps.Event, false, "", err, nil)
		return err
	}
	deps.MetricInc(deps.Metric)
	deps.EmitAudit(ctx, deps.Event, true, "", nil, nil)
	return nil
}
