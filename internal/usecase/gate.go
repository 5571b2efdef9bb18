package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"clearvide/internal/model"
	"clearvide/pkg/identity"
)

type GateState string

const (
	GateUnknown  GateState = "unknown"
	GateChecking GateState = "checking"
	GateGranted  GateState = "granted"
	GateDenied   GateState = "denied"
)

// EntitlementSource resolves the flags for a bearer credential. It returns
// identity.ErrUnauthenticated when the credential is rejected.
type EntitlementSource interface {
	Entitlements(ctx context.Context, credential string) (model.Entitlements, error)
}

// GateError is the notice shown instead of running a gated action.
type GateError struct {
	Title         string
	Description   string
	LoginRequired bool
}

func (e *GateError) Error() string { return e.Title + ": " + e.Description }

func loginRequired() error {
	return &GateError{Title: "Login Required", Description: "Please sign in to use AI features.", LoginRequired: true}
}

func proRequired() error {
	return &GateError{Title: "Pro Feature", Description: "Upgrade to Pro to use AI features."}
}

// Gate owns a session's entitlement flags.
type Gate struct {
	mu    sync.Mutex
	state GateState
	// settled is the last state other than checking; a failed check falls
	// back to it.
	settled GateState
	flags   model.Entitlements
	source  EntitlementSource
	durable *Durable
	log     *zap.Logger
}

// NewGate starts in the unknown state with cached flags from the durable
// store.
func NewGate(source EntitlementSource, cached model.Entitlements, durable *Durable, log *zap.Logger) *Gate {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gate{state: GateUnknown, settled: GateUnknown, flags: cached, source: source, durable: durable, log: log}
}

func (g *Gate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Gate) Entitlements() model.Entitlements {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.flags
}

// Refresh resolves the flags for credential. A missing or rejected
// credential denies access with both flags false and is not an error. Any
// other failure keeps the cached flags, returns to the last settled state
// and is returned for a transient notice.
func (g *Gate) Refresh(ctx context.Context, credential string) error {
	g.mu.Lock()
	g.state = GateChecking
	g.mu.Unlock()

	var (
		flags model.Entitlements
		err   error
	)
	if credential == "" || g.source == nil {
		err = identity.ErrUnauthenticated
	} else {
		flags, err = g.source.Entitlements(ctx, credential)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	switch {
	case errors.Is(err, identity.ErrUnauthenticated):
		g.state = GateDenied
		g.flags = model.Entitlements{}
	case err != nil:
		g.state = g.settled
		g.log.Warn("entitlement check failed, keeping cached flags", zap.Error(err))
		return fmt.Errorf("check entitlements: %w", err)
	default:
		g.state = GateGranted
		g.flags = flags
	}
	g.settled = g.state
	g.durable.SaveEntitlements(g.flags)
	return nil
}

// RequirePro returns nil when AI features may run, otherwise a *GateError.
// Cached pro flags are honored before the first refresh completes. A check
// in flight does not change the notice.
func (g *Gate) RequirePro() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.flags.IsPro {
		return nil
	}
	if g.settled == GateUnknown || g.settled == GateDenied {
		return loginRequired()
	}
	return proRequired()
}
