package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"clearvide/internal/domain"
	"clearvide/internal/model"
)

// Keys under which a session's state is persisted.
const (
	KeyResumeData            = "resumeData"
	KeyIsPro                 = "isPro"
	KeyHasPurchasedTemplates = "hasPurchasedTemplates"
	KeyResumeTemplate        = "resumeTemplate"
)

// KeyValue is the durable session store. Get returns domain.ErrNotFound for
// missing keys.
type KeyValue interface {
	Get(ctx context.Context, session, key string) ([]byte, error)
	Set(ctx context.Context, session, key string, value []byte) error
}

// Durable is one session's view of the KeyValue store. Reads fall back to
// defaults on missing or corrupt data and writes are best-effort: failures
// are logged and swallowed.
type Durable struct {
	kv      KeyValue
	session string
	log     *zap.Logger
	timeout time.Duration
}

func NewDurable(kv KeyValue, session string, log *zap.Logger) *Durable {
	if log == nil {
		log = zap.NewNop()
	}
	return &Durable{kv: kv, session: session, log: log, timeout: 2 * time.Second}
}

func (d *Durable) read(key string) ([]byte, bool) {
	if d == nil || d.kv == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	v, err := d.kv.Get(ctx, d.session, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			d.log.Warn("session read failed", zap.String("session_id", d.session), zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return v, true
}

func (d *Durable) write(key string, v interface{}) {
	if d == nil || d.kv == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		d.log.Warn("session encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	if err := d.kv.Set(ctx, d.session, key, b); err != nil {
		d.log.Warn("session write failed", zap.String("session_id", d.session), zap.String("key", key), zap.Error(err))
	}
}

func (d *Durable) LoadDocument() model.ResumeDocument {
	raw, ok := d.read(KeyResumeData)
	if !ok {
		return model.NewDocument()
	}
	doc, err := model.DecodeDocument(raw)
	if err != nil {
		d.log.Warn("stored resume is corrupt, starting empty", zap.String("session_id", d.session), zap.Error(err))
		return model.NewDocument()
	}
	return doc
}

func (d *Durable) SaveDocument(doc model.ResumeDocument) {
	d.write(KeyResumeData, doc)
}

func (d *Durable) loadBool(key string) bool {
	raw, ok := d.read(key)
	if !ok {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		d.log.Warn("stored flag is corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return b
}

func (d *Durable) LoadEntitlements() model.Entitlements {
	return model.Entitlements{
		IsPro:                 d.loadBool(KeyIsPro),
		HasPurchasedTemplates: d.loadBool(KeyHasPurchasedTemplates),
	}
}

func (d *Durable) SaveEntitlements(e model.Entitlements) {
	d.write(KeyIsPro, e.IsPro)
	d.write(KeyHasPurchasedTemplates, e.HasPurchasedTemplates)
}

// LoadTemplate returns classic when nothing valid is stored.
func (d *Durable) LoadTemplate() model.Template {
	raw, ok := d.read(KeyResumeTemplate)
	if !ok {
		return model.TemplateClassic
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return model.TemplateClassic
	}
	t, err := model.ParseTemplate(s)
	if err != nil {
		return model.TemplateClassic
	}
	return t
}

func (d *Durable) SaveTemplate(t model.Template) {
	d.write(KeyResumeTemplate, string(t))
}
