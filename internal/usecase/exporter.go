package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"clearvide/internal/domain"
	"clearvide/internal/model"
	"clearvide/internal/render"
)

// PDFEngine converts a standalone HTML document to PDF bytes.
type PDFEngine interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

// ExportHistory records export jobs.
type ExportHistory interface {
	Save(ctx context.Context, j *domain.ExportJob) error
	ListBySession(ctx context.Context, sessionID string, limit int) ([]domain.ExportJob, error)
}

var errInvalidPDF = errors.New("engine output is not a PDF")

const historyLimit = 20

type ExportResult struct {
	FileName string
	PDF      []byte
	Job      domain.ExportJob
}

type Exporter struct {
	engine     PDFEngine
	history    ExportHistory
	archiveDir string
	log        *zap.Logger
}

// NewExporter wires the PDF engine. history may be nil and archiveDir empty.
func NewExporter(engine PDFEngine, history ExportHistory, archiveDir string, log *zap.Logger) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{engine: engine, history: history, archiveDir: archiveDir, log: log}
}

// Export renders the export surface for the same template, document and
// watermark flag the preview uses and converts it to PDF. The document is
// never modified.
func (e *Exporter) Export(ctx context.Context, s *Session) (ExportResult, error) {
	var res ExportResult
	err := s.Tasks.Run(ctx, ActionExport, func(ctx context.Context) error {
		tpl := s.Template()
		doc := s.Store.Document()
		premium := s.Gate.Entitlements().HasPurchasedTemplates

		now := time.Now().UTC()
		job := domain.ExportJob{
			ID:        uuid.New(),
			SessionID: s.ID,
			Template:  string(tpl),
			Premium:   premium,
			Status:    domain.ExportPending,
			FileName:  FileName(doc.PersonalDetails.FullName),
			Metadata:  map[string]interface{}{},
			CreatedAt: now,
			UpdatedAt: now,
		}

		pdf, err := e.convert(ctx, tpl, doc, premium, job.ID)
		job.UpdatedAt = time.Now().UTC()
		if err != nil {
			job.Status = domain.ExportFailed
			job.Metadata["error"] = err.Error()
			e.record(ctx, &job)
			e.log.Error("export failed", zap.String("session_id", s.ID), zap.String("job_id", job.ID.String()), zap.Error(err))
			return remote("Export Failed", err)
		}

		job.Status = domain.ExportCompleted
		job.FileSize = len(pdf)
		e.record(ctx, &job)
		e.log.Info("export completed",
			zap.String("session_id", s.ID),
			zap.String("template", job.Template),
			zap.Bool("premium", premium),
			zap.Int("bytes", job.FileSize))
		res = ExportResult{FileName: job.FileName, PDF: pdf, Job: job}
		return nil
	})
	return res, err
}

func (e *Exporter) convert(ctx context.Context, tpl model.Template, doc model.ResumeDocument, premium bool, id uuid.UUID) ([]byte, error) {
	if e.engine == nil {
		return nil, errors.New("no pdf engine configured")
	}
	html, err := render.Export(tpl, doc, premium)
	if err != nil {
		return nil, err
	}
	pdf, err := e.engine.RenderHTMLToPDF(ctx, string(html))
	if err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		return nil, errInvalidPDF
	}
	if e.archiveDir != "" {
		if err := e.archive(id, html, pdf); err != nil {
			e.log.Warn("archive export", zap.String("job_id", id.String()), zap.Error(err))
		}
	}
	return pdf, nil
}

func (e *Exporter) archive(id uuid.UUID, html, pdf []byte) error {
	if err := os.MkdirAll(e.archiveDir, 0o755); err != nil {
		return err
	}
	base := filepath.Join(e.archiveDir, id.String())
	if err := os.WriteFile(base+".html", html, 0o644); err != nil {
		return err
	}
	return os.WriteFile(base+".pdf", pdf, 0o644)
}

// record saves the job; history is best-effort.
func (e *Exporter) record(ctx context.Context, j *domain.ExportJob) {
	if e.history == nil {
		return
	}
	if err := e.history.Save(ctx, j); err != nil {
		e.log.Warn("save export job", zap.String("job_id", j.ID.String()), zap.Error(err))
	}
}

// History returns the session's most recent exports, newest first.
func (e *Exporter) History(ctx context.Context, sessionID string) ([]domain.ExportJob, error) {
	if e.history == nil {
		return []domain.ExportJob{}, nil
	}
	jobs, err := e.history.ListBySession(ctx, sessionID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}
	return jobs, nil
}

// FileName is the download name for a resume: an ASCII slug of the full
// name followed by "-cv.pdf", or "resume-cv.pdf" when nothing is left.
func FileName(fullName string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, fullName)
	if err != nil {
		folded = fullName
	}
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		slug = "resume"
	}
	return slug + "-cv.pdf"
}
