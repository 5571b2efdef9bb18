package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"clearvide/pkg/ai/formatters"
)

// Kind names a typed request to the ai-service.
type Kind string

const (
	KindSummary          Kind = "summary"
	KindExperience       Kind = "experience"
	KindCoverLetter      Kind = "cover-letter"
	KindSkillSuggestions Kind = "skill-suggestions"
	KindAnalysis         Kind = "analysis"
)

type (
	SummaryInput     = formatters.SummaryInput
	ExperienceInput  = formatters.ExperienceInput
	SkillsInput      = formatters.SkillsInput
	CoverLetterInput = formatters.CoverLetterInput
	Analysis         = formatters.Analysis
)

// Client calls the internal ai-service. Every method issues a single chat
// request; callers decide whether to try again.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Log     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = "http://ai-service:8000"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: &http.Client{Timeout: timeout}, Log: log}
}

func (c *Client) NewSummaryFormatter() *formatters.SummaryFormatter {
	return formatters.NewSummaryFormatter(c.HTTP, c.BaseURL, c.Log)
}

func (c *Client) NewExperienceFormatter() *formatters.ExperienceFormatter {
	return formatters.NewExperienceFormatter(c.HTTP, c.BaseURL, c.Log)
}

func (c *Client) NewSkillsFormatter() *formatters.SkillsFormatter {
	return formatters.NewSkillsFormatter(c.HTTP, c.BaseURL, c.Log)
}

func (c *Client) NewAnalysisFormatter() *formatters.AnalysisFormatter {
	return formatters.NewAnalysisFormatter(c.HTTP, c.BaseURL, c.Log)
}

func (c *Client) NewCoverLetterFormatter() *formatters.CoverLetterFormatter {
	return formatters.NewCoverLetterFormatter(c.HTTP, c.BaseURL, c.Log)
}

func (c *Client) GenerateSummary(ctx context.Context, in SummaryInput) (string, error) {
	return c.NewSummaryFormatter().Format(ctx, in)
}

func (c *Client) GenerateDescription(ctx context.Context, in ExperienceInput) (string, error) {
	return c.NewExperienceFormatter().Format(ctx, in)
}

func (c *Client) SuggestSkills(ctx context.Context, in SkillsInput) ([]string, error) {
	return c.NewSkillsFormatter().Format(ctx, in)
}

// Analyze never fails on malformed output; see formatters.ParseAnalysis.
func (c *Client) Analyze(ctx context.Context, resume interface{}) (Analysis, error) {
	return c.NewAnalysisFormatter().Format(ctx, resume)
}

func (c *Client) WriteCoverLetter(ctx context.Context, in CoverLetterInput) (string, error) {
	return c.NewCoverLetterFormatter().Format(ctx, in)
}

// PolishRequest is the free-form request accepted by the polish endpoint.
// Content is the caller's context (usually JSON), Instruction the user's
// extra guidance.
type PolishRequest struct {
	Type        Kind   `json:"type"`
	Content     string `json:"content"`
	Instruction string `json:"context"`
}

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindSummary, KindExperience, KindCoverLetter, KindSkillSuggestions, KindAnalysis:
		return k, nil
	}
	return "", fmt.Errorf("unknown ai request type %q", s)
}

// Polish forwards a typed free-text request and returns the raw output.
func (c *Client) Polish(ctx context.Context, req PolishRequest) (string, error) {
	if _, err := ParseKind(string(req.Type)); err != nil {
		return "", err
	}
	return formatters.Polish(ctx, c.HTTP, c.BaseURL, c.Log, string(req.Type), req.Content, req.Instruction)
}
