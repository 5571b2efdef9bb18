package usecase

import (
	"context"
	"errors"
	"sync"

	"clearvide/internal/domain"
	"clearvide/internal/model"
	"clearvide/pkg/ai"
	"clearvide/pkg/identity"
	"clearvide/pkg/payments"
)

type fakeKV struct {
	mu      sync.Mutex
	data    map[string][]byte
	failSet bool
	sets    int
}

func newFakeKV() *fakeKV { return &fakeKV{data: map[string][]byte{}} }

func (f *fakeKV) Get(_ context.Context, session, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[session+"/"+key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func (f *fakeKV) Set(_ context.Context, session, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	if f.failSet {
		return errors.New("quota exceeded")
	}
	f.data[session+"/"+key] = append([]byte(nil), value...)
	return nil
}

func (f *fakeKV) raw(session, key string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data[session+"/"+key]
}

type fakeSource struct {
	mu    sync.Mutex
	flags model.Entitlements
	err   error
	calls int
}

func (f *fakeSource) Entitlements(_ context.Context, _ string) (model.Entitlements, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.flags, f.err
}

func (f *fakeSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeSource) setFlags(flags model.Entitlements) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flags = flags
}

type fakeAI struct {
	mu          sync.Mutex
	calls       int
	summary     string
	description string
	skills      []string
	analysis    ai.Analysis
	letter      string
	err         error
	block       chan struct{}
	lastLetter  ai.CoverLetterInput
}

func (f *fakeAI) hit() error {
	f.mu.Lock()
	f.calls++
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return f.err
}

func (f *fakeAI) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeAI) GenerateSummary(context.Context, ai.SummaryInput) (string, error) {
	return f.summary, f.hit()
}

func (f *fakeAI) GenerateDescription(context.Context, ai.ExperienceInput) (string, error) {
	return f.description, f.hit()
}

func (f *fakeAI) SuggestSkills(context.Context, ai.SkillsInput) ([]string, error) {
	return f.skills, f.hit()
}

func (f *fakeAI) Analyze(context.Context, interface{}) (ai.Analysis, error) {
	return f.analysis, f.hit()
}

func (f *fakeAI) WriteCoverLetter(_ context.Context, in ai.CoverLetterInput) (string, error) {
	f.mu.Lock()
	f.lastLetter = in
	f.mu.Unlock()
	return f.letter, f.hit()
}

func (f *fakeAI) Polish(context.Context, ai.PolishRequest) (string, error) {
	return f.summary, f.hit()
}

type fakeEngine struct {
	out  []byte
	err  error
	html string
}

func (f *fakeEngine) RenderHTMLToPDF(_ context.Context, html string) ([]byte, error) {
	f.html = html
	return f.out, f.err
}

type fakeHistory struct {
	saved []domain.ExportJob
	err   error
}

func (f *fakeHistory) Save(_ context.Context, j *domain.ExportJob) error {
	f.saved = append(f.saved, *j)
	return f.err
}

func (f *fakeHistory) ListBySession(_ context.Context, sessionID string, limit int) ([]domain.ExportJob, error) {
	out := []domain.ExportJob{}
	for _, j := range f.saved {
		if j.SessionID == sessionID && len(out) < limit {
			out = append(out, j)
		}
	}
	return out, nil
}

type fakeGateway struct {
	checkout  payments.CheckoutRequest
	url       string
	portalFor string
	prices    map[payments.Plan]payments.Price
	event     payments.CheckoutCompleted
	eventErr  error
	err       error
}

func (f *fakeGateway) CreateCheckout(_ context.Context, req payments.CheckoutRequest) (string, error) {
	f.checkout = req
	return f.url, f.err
}

func (f *fakeGateway) CreatePortal(_ context.Context, _, email, _ string) (string, error) {
	f.portalFor = email
	return f.url, f.err
}

func (f *fakeGateway) Price(_ context.Context, p payments.Plan) (payments.Price, error) {
	return f.prices[p], f.err
}

func (f *fakeGateway) ParseWebhook([]byte, string) (payments.CheckoutCompleted, error) {
	return f.event, f.eventErr
}

type fakeAccounts struct {
	users   []identity.User
	patched map[string]map[string]interface{}
	limit   int
	err     error
}

func (f *fakeAccounts) ListUsers(_ context.Context, limit int) ([]identity.User, error) {
	f.limit = limit
	return f.users, f.err
}

func (f *fakeAccounts) MergePublicMetadata(_ context.Context, id string, patch map[string]interface{}) (identity.User, error) {
	if f.err != nil {
		return identity.User{}, f.err
	}
	if f.patched == nil {
		f.patched = map[string]map[string]interface{}{}
	}
	f.patched[id] = patch
	return identity.User{ID: id, PublicMetadata: patch}, nil
}

func userWithEmail(id, email string) identity.User {
	return identity.User{
		ID:                    id,
		PrimaryEmailAddressID: "em1",
		EmailAddresses:        []identity.EmailAddress{{ID: "em1", EmailAddress: email}},
	}
}

// newTestSession loads session "s1" from kv.
func newTestSession(kv KeyValue, source EntitlementSource) *Session {
	r := NewRegistry(kv, source, 0, nil)
	return r.load("s1")
}
