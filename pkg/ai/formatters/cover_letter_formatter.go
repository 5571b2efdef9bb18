package formatters

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type CoverLetterInput struct {
	JobTitle       string
	Company        string
	JobDescription string

	FullName   string
	Skills     []string
	Experience []string
}

type CoverLetterFormatter struct {
	client  *http.Client
	baseURL string
	log     *zap.Logger
}

func NewCoverLetterFormatter(httpClient *http.Client, baseURL string, log *zap.Logger) *CoverLetterFormatter {
	return &CoverLetterFormatter{client: httpClient, baseURL: baseURL, log: log}
}

func (cf *CoverLetterFormatter) Format(ctx context.Context, in CoverLetterInput) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a professional cover letter for a %s position at %s.\n", in.JobTitle, in.Company)
	if in.JobDescription != "" {
		fmt.Fprintf(&b, "Target Job Description: %s\n", in.JobDescription)
	}
	b.WriteString("\nMy Resume Details:\n")
	fmt.Fprintf(&b, "Name: %s\n", in.FullName)
	fmt.Fprintf(&b, "Skills: %s\n", strings.Join(in.Skills, ", "))
	fmt.Fprintf(&b, "Experience: %s\n", strings.Join(in.Experience, "; "))
	b.WriteString("\nKeep it professional, engaging, and highlight relevant skills matching the job description.")

	return chat(ctx, cf.client, cf.baseURL, cf.log, "cover-letter", b.String())
}
