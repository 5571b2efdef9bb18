package formatters

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

type ExperienceInput struct {
	JobTitle    string
	Company     string
	Description string
	Instruction string
}

type ExperienceFormatter struct {
	client  *http.Client
	baseURL string
	log     *zap.Logger
}

func NewExperienceFormatter(httpClient *http.Client, baseURL string, log *zap.Logger) *ExperienceFormatter {
	return &ExperienceFormatter{client: httpClient, baseURL: baseURL, log: log}
}

// Format writes achievement bullets for one position, one per line, each
// starting with "• ".
func (ef *ExperienceFormatter) Format(ctx context.Context, in ExperienceInput) (string, error) {
	company := in.Company
	if company == "" {
		company = "a company"
	}
	prompt := fmt.Sprintf("Write 3-4 bullet points for a %s position at %s.\n", in.JobTitle, company)
	prompt += "Each bullet should start with a strong action verb and include a quantifiable achievement where possible.\n"
	prompt += "Keep it concise: each bullet should be one line. Start each line with \"• \". Return only the bullets."
	if in.Description != "" {
		prompt += "\nRewrite and improve the current description:\n" + in.Description
	}

	return chat(ctx, ef.client, ef.baseURL, ef.log, "experience", withInstruction(prompt, in.Instruction))
}
