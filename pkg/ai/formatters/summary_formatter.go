package formatters

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

type SummaryInput struct {
	FullName    string
	JobTitles   []string
	Skills      []string
	Instruction string
}

type SummaryFormatter struct {
	client  *http.Client
	baseURL string
	log     *zap.Logger
}

func NewSummaryFormatter(httpClient *http.Client, baseURL string, log *zap.Logger) *SummaryFormatter {
	return &SummaryFormatter{client: httpClient, baseURL: baseURL, log: log}
}

// Format returns a 2-3 sentence first-person resume summary.
func (sf *SummaryFormatter) Format(ctx context.Context, in SummaryInput) (string, error) {
	name := in.FullName
	if name == "" {
		name = "a professional"
	}
	prompt := fmt.Sprintf("Write a professional resume summary (2-3 sentences, max 50 words) for %s.\n", name)
	if len(in.JobTitles) > 0 {
		prompt += "Recent job titles: " + joinOr(in.JobTitles, "") + ".\n"
	}
	if len(in.Skills) > 0 {
		prompt += "Key skills: " + joinOr(in.Skills, "") + ".\n"
	}
	prompt += "Write in first person, be concise and impactful. Focus on value proposition. Return only the summary text."

	return chat(ctx, sf.client, sf.baseURL, sf.log, "summary", withInstruction(prompt, in.Instruction))
}
