package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"clearvide/internal/model"
	"clearvide/internal/render"
)

// Session bundles everything one browser session owns.
type Session struct {
	ID    string
	Store *ResumeStore
	Gate  *Gate
	Tasks *Tasks

	durable  *Durable
	mu       sync.Mutex
	template model.Template
	lastSeen time.Time
}

func (s *Session) Template() model.Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.template
}

func (s *Session) SetTemplate(t model.Template) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.template = t
	s.durable.SaveTemplate(t)
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Preview renders the preview surface for the session's current template,
// document and watermark flag.
func (s *Session) Preview() ([]byte, error) {
	return render.Preview(s.Template(), s.Store.Document(), s.Gate.Entitlements().HasPurchasedTemplates)
}

// Registry keeps loaded sessions in memory. Each session is loaded from the
// durable store once; idle sessions are dropped from memory by a cron job
// and reloaded on the next request.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	kv       KeyValue
	source   EntitlementSource
	ttl      time.Duration
	log      *zap.Logger
	now      func() time.Time
	cron     *cron.Cron
}

func NewRegistry(kv KeyValue, source EntitlementSource, ttl time.Duration, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{sessions: map[string]*Session{}, kv: kv, source: source, ttl: ttl, log: log, now: time.Now}
}

// Open returns the session for id, loading it on first use. A freshly
// loaded session with a credential is refreshed against the entitlement
// source; a failure there leaves the cached flags in place.
func (r *Registry) Open(ctx context.Context, id, credential string) *Session {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if !ok {
		s = r.load(id)
		r.sessions[id] = s
	}
	r.mu.Unlock()

	s.touch(r.now())
	if !ok && credential != "" {
		if err := s.Gate.Refresh(ctx, credential); err != nil {
			r.log.Warn("initial entitlement refresh failed", zap.String("session_id", id), zap.Error(err))
		}
	}
	return s
}

func (r *Registry) load(id string) *Session {
	d := NewDurable(r.kv, id, r.log)
	return &Session{
		ID:       id,
		Store:    NewResumeStore(d.LoadDocument(), d),
		Gate:     NewGate(r.source, d.LoadEntitlements(), d, r.log),
		Tasks:    NewTasks(),
		durable:  d,
		template: d.LoadTemplate(),
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Evict drops sessions idle longer than the ttl. Sessions with a pending
// action are kept.
func (r *Registry) Evict() int {
	cutoff := r.now().Add(-r.ttl)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) && !s.Tasks.Busy() {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// Start schedules Evict with a cron spec such as "@every 5m".
func (r *Registry) Start(schedule string) error {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		if n := r.Evict(); n > 0 {
			r.log.Info("evicted idle sessions", zap.Int("count", n), zap.Int("remaining", r.Len()))
		}
	}); err != nil {
		return err
	}
	c.Start()
	r.cron = c
	return nil
}

// Stop halts eviction and cancels every in-flight action. It waits for a
// running eviction to finish or ctx to end.
func (r *Registry) Stop(ctx context.Context) {
	if r.cron != nil {
		select {
		case <-r.cron.Stop().Done():
		case <-ctx.Done():
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		s.Tasks.CancelAll()
	}
}
