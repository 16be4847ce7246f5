package scan

import (
	"context"

	"go.uber.org/zap"

	"github.com/trymirror/scanflow/internal/domain"
)

// PermissionGate requests and tracks camera-access authorization.
// One prompt per session: a denied state is terminal and is surfaced,
// never silently retried.
type PermissionGate struct {
	requester domain.PermissionRequester
	logger    *zap.Logger

	state domain.PermissionState
}

// NewPermissionGate creates a gate in the unrequested state.
func NewPermissionGate(requester domain.PermissionRequester, logger *zap.Logger) *PermissionGate {
	return &PermissionGate{
		requester: requester,
		logger:    logger,
		state:     domain.PermissionUnrequested,
	}
}

// Request triggers the platform permission prompt and records the outcome.
// The prompt may block indefinitely awaiting the user; it aborts when ctx
// does. Once resolved, subsequent calls return the recorded state without
// prompting again.
func (g *PermissionGate) Request(ctx context.Context) (domain.PermissionState, error) {
	if g.state != domain.PermissionUnrequested {
		return g.state, nil
	}

	state, err := g.requester.Request(ctx)
	if err != nil {
		return domain.PermissionUnrequested, err
	}

	g.state = state
	g.logger.Info("camera permission resolved", zap.String("state", string(state)))
	return state, nil
}

// State returns the last recorded permission state.
func (g *PermissionGate) State() domain.PermissionState {
	return g.state
}
