package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clearvide/internal/model"
)

func TestRegistryLoadsOnceAndRefreshesWithCredential(t *testing.T) {
	kv := newFakeKV()
	src := &fakeSource{flags: model.Entitlements{HasPurchasedTemplates: true}}
	r := NewRegistry(kv, src, time.Minute, nil)

	s := r.Open(context.Background(), "abc", "tok")
	assert.Equal(t, GateGranted, s.Gate.State())
	assert.True(t, s.Gate.Entitlements().HasPurchasedTemplates)

	again := r.Open(context.Background(), "abc", "tok")
	assert.Same(t, s, again)
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryKeepsCachedFlagsWhenRefreshFails(t *testing.T) {
	kv := newFakeKV()
	kv.data["abc/"+KeyIsPro] = []byte("true")
	r := NewRegistry(kv, &fakeSource{err: errors.New("timeout")}, time.Minute, nil)

	s := r.Open(context.Background(), "abc", "tok")
	assert.True(t, s.Gate.Entitlements().IsPro)
	assert.Equal(t, GateUnknown, s.Gate.State())
}

func TestSessionStateSurvivesEviction(t *testing.T) {
	kv := newFakeKV()
	r := NewRegistry(kv, nil, time.Minute, nil)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	s := r.Open(context.Background(), "abc", "")
	s.Store.UpdateSummary("hello")
	s.SetTemplate(model.TemplateMinimal)
	r.Open(context.Background(), "fresh", "")

	now = now.Add(30 * time.Second)
	r.Open(context.Background(), "fresh", "")
	now = now.Add(45 * time.Second)

	assert.Equal(t, 1, r.Evict())
	assert.Equal(t, 1, r.Len())

	reloaded := r.Open(context.Background(), "abc", "")
	assert.NotSame(t, s, reloaded)
	assert.Equal(t, "hello", reloaded.Store.Document().Summary)
	assert.Equal(t, model.TemplateMinimal, reloaded.Template())
}

func TestEvictSkipsBusySessions(t *testing.T) {
	r := NewRegistry(newFakeKV(), nil, time.Minute, nil)
	now := time.Now()
	r.now = func() time.Time { return now }
	s := r.Open(context.Background(), "abc", "")

	err := s.Tasks.Run(context.Background(), ActionExport, func(context.Context) error {
		now = now.Add(time.Hour)
		assert.Equal(t, 0, r.Evict())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, r.Evict())
}

func TestPreviewUsesSessionTemplateAndWatermark(t *testing.T) {
	s := newTestSession(newFakeKV(), &fakeSource{flags: model.Entitlements{HasPurchasedTemplates: true}})
	s.SetTemplate(model.TemplateBold)

	html, err := s.Preview()
	require.NoError(t, err)
	assert.Contains(t, string(html), "cv-bold")
	assert.Contains(t, string(html), "Created with ClearVide")

	require.NoError(t, s.Gate.Refresh(context.Background(), "tok"))
	html, err = s.Preview()
	require.NoError(t, err)
	assert.NotContains(t, string(html), "Created with ClearVide")
}

func TestRegistryStartRejectsBadSchedule(t *testing.T) {
	r := NewRegistry(newFakeKV(), nil, time.Minute, nil)
	assert.Error(t, r.Start("every now and then"))

	require.NoError(t, r.Start("@every 1h"))
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	r.Stop(ctx)
}
