package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clearvide/internal/model"
	"clearvide/pkg/identity"
)

func gateError(t *testing.T, err error) *GateError {
	t.Helper()
	var ge *GateError
	require.ErrorAs(t, err, &ge)
	return ge
}

func TestGateStartsUnknownAndRequiresLogin(t *testing.T) {
	g := NewGate(&fakeSource{}, model.Entitlements{}, nil, nil)
	assert.Equal(t, GateUnknown, g.State())
	assert.True(t, gateError(t, g.RequirePro()).LoginRequired)
}

func TestGateHonorsCachedProBeforeRefresh(t *testing.T) {
	g := NewGate(&fakeSource{}, model.Entitlements{IsPro: true}, nil, nil)
	assert.NoError(t, g.RequirePro())
}

func TestGateRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("no credential denies without calling the source", func(t *testing.T) {
		kv := newFakeKV()
		src := &fakeSource{flags: model.Entitlements{IsPro: true}}
		g := NewGate(src, model.Entitlements{IsPro: true, HasPurchasedTemplates: true}, NewDurable(kv, "s1", nil), nil)

		require.NoError(t, g.Refresh(ctx, ""))
		assert.Equal(t, GateDenied, g.State())
		assert.Equal(t, model.Entitlements{}, g.Entitlements())
		assert.Equal(t, 0, src.calls)
		assert.Equal(t, []byte("false"), kv.raw("s1", KeyIsPro))
		assert.True(t, gateError(t, g.RequirePro()).LoginRequired)
	})

	t.Run("pro account is granted", func(t *testing.T) {
		kv := newFakeKV()
		src := &fakeSource{flags: model.Entitlements{IsPro: true, HasPurchasedTemplates: true}}
		g := NewGate(src, model.Entitlements{}, NewDurable(kv, "s1", nil), nil)

		require.NoError(t, g.Refresh(ctx, "tok"))
		assert.Equal(t, GateGranted, g.State())
		assert.NoError(t, g.RequirePro())
		assert.Equal(t, []byte("true"), kv.raw("s1", KeyIsPro))
		assert.Equal(t, []byte("true"), kv.raw("s1", KeyHasPurchasedTemplates))
	})

	t.Run("free account gets the pro notice", func(t *testing.T) {
		g := NewGate(&fakeSource{}, model.Entitlements{}, nil, nil)
		require.NoError(t, g.Refresh(ctx, "tok"))
		ge := gateError(t, g.RequirePro())
		assert.False(t, ge.LoginRequired)
		assert.Equal(t, "Pro Feature", ge.Title)
	})

	t.Run("rejected credential clears flags", func(t *testing.T) {
		src := &fakeSource{err: identity.ErrUnauthenticated}
		g := NewGate(src, model.Entitlements{IsPro: true}, nil, nil)
		require.NoError(t, g.Refresh(ctx, "expired"))
		assert.Equal(t, GateDenied, g.State())
		assert.False(t, g.Entitlements().IsPro)
	})

	t.Run("transient failure keeps cached flags", func(t *testing.T) {
		src := &fakeSource{flags: model.Entitlements{IsPro: true}}
		g := NewGate(src, model.Entitlements{}, nil, nil)
		require.NoError(t, g.Refresh(ctx, "tok"))

		src.err = errors.New("503 service unavailable")
		err := g.Refresh(ctx, "tok")
		require.Error(t, err)
		assert.Equal(t, GateGranted, g.State())
		assert.True(t, g.Entitlements().IsPro)
		assert.NoError(t, g.RequirePro())
	})
}

// stallingSource holds the first check until release is closed and fails
// every later one.
type stallingSource struct {
	mu      sync.Mutex
	calls   int
	release chan struct{}
}

func (f *stallingSource) Entitlements(ctx context.Context, _ string) (model.Entitlements, error) {
	f.mu.Lock()
	f.calls++
	first := f.calls == 1
	f.mu.Unlock()
	if first {
		<-f.release
		return model.Entitlements{IsPro: true}, nil
	}
	return model.Entitlements{}, errors.New("502 bad gateway")
}

func TestGateFailedCheckDuringAnotherSettles(t *testing.T) {
	ctx := context.Background()
	src := &stallingSource{release: make(chan struct{})}
	g := NewGate(src, model.Entitlements{}, nil, nil)

	done := make(chan error, 1)
	go func() { done <- g.Refresh(ctx, "tok") }()
	assert.Eventually(t, func() bool {
		return g.State() == GateChecking
	}, time.Second, 5*time.Millisecond)

	require.Error(t, g.Refresh(ctx, "tok"))
	assert.Equal(t, GateUnknown, g.State())
	assert.True(t, gateError(t, g.RequirePro()).LoginRequired)

	close(src.release)
	require.NoError(t, <-done)
	assert.Equal(t, GateGranted, g.State())
	assert.NoError(t, g.RequirePro())
}

func TestGateCheckInFlightKeepsNotice(t *testing.T) {
	src := &stallingSource{release: make(chan struct{})}
	g := NewGate(src, model.Entitlements{}, nil, nil)

	done := make(chan error, 1)
	go func() { done <- g.Refresh(context.Background(), "tok") }()
	assert.Eventually(t, func() bool {
		return g.State() == GateChecking
	}, time.Second, 5*time.Millisecond)
	assert.True(t, gateError(t, g.RequirePro()).LoginRequired)

	close(src.release)
	require.NoError(t, <-done)
}
