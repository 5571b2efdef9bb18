package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"clearvide/internal/model"
	"clearvide/pkg/ai"
)

// AIGenerator is the AI-generation collaborator.
type AIGenerator interface {
	GenerateSummary(ctx context.Context, in ai.SummaryInput) (string, error)
	GenerateDescription(ctx context.Context, in ai.ExperienceInput) (string, error)
	SuggestSkills(ctx context.Context, in ai.SkillsInput) ([]string, error)
	Analyze(ctx context.Context, resume interface{}) (ai.Analysis, error)
	WriteCoverLetter(ctx context.Context, in ai.CoverLetterInput) (string, error)
	Polish(ctx context.Context, req ai.PolishRequest) (string, error)
}

// Assistant runs AI-assisted content operations for a session. Each one is
// refused before any AI call unless the caller presents a credential and
// the session's gate allows it.
type Assistant struct {
	ai  AIGenerator
	log *zap.Logger
}

func NewAssistant(gen AIGenerator, log *zap.Logger) *Assistant {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assistant{ai: gen, log: log}
}

// authorize applies the pro gate for the caller holding credential. Without
// a credential the caller is signed out, whatever the session has cached.
// Otherwise the flags are re-checked; a transient failure leaves the cached
// ones in force.
func (a *Assistant) authorize(ctx context.Context, s *Session, credential string) error {
	if credential == "" {
		return loginRequired()
	}
	if err := s.Gate.Refresh(ctx, credential); err != nil {
		a.log.Warn("entitlement check before ai action failed", zap.String("session_id", s.ID), zap.Error(err))
	}
	return s.Gate.RequirePro()
}

// track runs fn as a single-flight action of the session.
func (a *Assistant) track(ctx context.Context, s *Session, action string, fn func(ctx context.Context) error) error {
	err := s.Tasks.Run(ctx, action, fn)
	if err != nil {
		a.log.Warn("ai action failed", zap.String("session_id", s.ID), zap.String("action", action), zap.Error(err))
	}
	return err
}

// GenerateSummary writes a new summary into the document and returns it.
func (a *Assistant) GenerateSummary(ctx context.Context, s *Session, credential, instruction string) (string, error) {
	if err := a.authorize(ctx, s, credential); err != nil {
		return "", err
	}
	var out string
	err := a.track(ctx, s, ActionSummary, func(ctx context.Context) error {
		doc := s.Store.Document()
		text, err := a.ai.GenerateSummary(ctx, ai.SummaryInput{
			FullName:    doc.PersonalDetails.FullName,
			JobTitles:   doc.JobTitles(),
			Skills:      doc.Skills,
			Instruction: instruction,
		})
		if err != nil {
			return remote("Generation Failed", err)
		}
		s.Store.UpdateSummary(text)
		out = text
		return nil
	})
	return out, err
}

// GenerateDescription rewrites one employment description. The entry must
// exist and have a job title.
func (a *Assistant) GenerateDescription(ctx context.Context, s *Session, credential, employmentID, instruction string) (string, error) {
	if err := a.authorize(ctx, s, credential); err != nil {
		return "", err
	}
	entry, ok := findEmployment(s.Store.Document(), employmentID)
	if !ok || strings.TrimSpace(entry.JobTitle) == "" {
		return "", missingInformation("Please enter a job title first.")
	}

	var out string
	err := a.track(ctx, s, ActionDescription, func(ctx context.Context) error {
		text, err := a.ai.GenerateDescription(ctx, ai.ExperienceInput{
			JobTitle:    entry.JobTitle,
			Company:     entry.Company,
			Description: entry.Description,
			Instruction: instruction,
		})
		if err != nil {
			return remote("Generation Failed", err)
		}
		s.Store.UpdateEmployment(employmentID, model.EmploymentPatch{Description: model.String(text)})
		out = text
		return nil
	})
	return out, err
}

// SuggestSkills merges AI suggestions through the dedup path and returns
// the skills that were added.
func (a *Assistant) SuggestSkills(ctx context.Context, s *Session, credential string) ([]string, error) {
	if err := a.authorize(ctx, s, credential); err != nil {
		return nil, err
	}
	doc := s.Store.Document()
	titles := doc.JobTitles()
	if len(titles) == 0 {
		return nil, missingInformation("Add at least one job title to get skill suggestions.")
	}

	var added []string
	err := a.track(ctx, s, ActionSkills, func(ctx context.Context) error {
		suggestions, err := a.ai.SuggestSkills(ctx, ai.SkillsInput{JobTitles: titles, Existing: doc.Skills})
		if err != nil {
			return remote("Suggestion Failed", err)
		}
		added = s.Store.MergeSkills(suggestions)
		return nil
	})
	return added, err
}

func (a *Assistant) Analyze(ctx context.Context, s *Session, credential string) (ai.Analysis, error) {
	if err := a.authorize(ctx, s, credential); err != nil {
		return ai.Analysis{}, err
	}
	var out ai.Analysis
	err := a.track(ctx, s, ActionAnalysis, func(ctx context.Context) error {
		res, err := a.ai.Analyze(ctx, s.Store.Document())
		if err != nil {
			return remote("Analysis Failed", err)
		}
		out = res
		return nil
	})
	return out, err
}

type CoverLetterRequest struct {
	JobTitle       string `json:"jobTitle"`
	Company        string `json:"company"`
	JobDescription string `json:"jobDescription"`
}

// WriteCoverLetter returns a letter built from the document; the document
// itself is not changed.
func (a *Assistant) WriteCoverLetter(ctx context.Context, s *Session, credential string, req CoverLetterRequest) (string, error) {
	if err := a.authorize(ctx, s, credential); err != nil {
		return "", err
	}
	if strings.TrimSpace(req.JobTitle) == "" || strings.TrimSpace(req.Company) == "" {
		return "", missingInformation("Please enter a job title and company name.")
	}

	var out string
	err := a.track(ctx, s, ActionCoverLetter, func(ctx context.Context) error {
		doc := s.Store.Document()
		experience := make([]string, 0, len(doc.Employment))
		for _, e := range doc.Employment {
			experience = append(experience, fmt.Sprintf("%s at %s (%s)", e.JobTitle, e.Company, e.Description))
		}
		text, err := a.ai.WriteCoverLetter(ctx, ai.CoverLetterInput{
			JobTitle:       req.JobTitle,
			Company:        req.Company,
			JobDescription: req.JobDescription,
			FullName:       doc.PersonalDetails.FullName,
			Skills:         doc.Skills,
			Experience:     experience,
		})
		if err != nil {
			return remote("Generation Failed", err)
		}
		out = text
		return nil
	})
	return out, err
}

// Polish is the account-level AI proxy. Access comes from the caller's
// account flags rather than a session gate.
func (a *Assistant) Polish(ctx context.Context, flags model.Entitlements, req ai.PolishRequest) (string, error) {
	if !flags.IsPro {
		return "", proRequired()
	}
	if _, err := ai.ParseKind(string(req.Type)); err != nil {
		return "", &InputError{Title: "Invalid Request", Description: err.Error()}
	}
	text, err := a.ai.Polish(ctx, req)
	if err != nil {
		return "", remote("Generation Failed", err)
	}
	return text, nil
}

// AnalyzeDocument is the account-level analysis proxy.
func (a *Assistant) AnalyzeDocument(ctx context.Context, flags model.Entitlements, doc model.ResumeDocument) (ai.Analysis, error) {
	if !flags.IsPro {
		return ai.Analysis{}, proRequired()
	}
	res, err := a.ai.Analyze(ctx, doc)
	if err != nil {
		return ai.Analysis{}, remote("Analysis Failed", err)
	}
	return res, nil
}

func findEmployment(doc model.ResumeDocument, id string) (model.Employment, bool) {
	for _, e := range doc.Employment {
		if e.ID == id {
			return e, true
		}
	}
	return model.Employment{}, false
}
