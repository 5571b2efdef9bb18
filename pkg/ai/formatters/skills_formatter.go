package formatters

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type SkillsInput struct {
	JobTitles []string
	Existing  []string
}

type SkillsFormatter struct {
	client  *http.Client
	baseURL string
	log     *zap.Logger
}

func NewSkillsFormatter(httpClient *http.Client, baseURL string, log *zap.Logger) *SkillsFormatter {
	return &SkillsFormatter{client: httpClient, baseURL: baseURL, log: log}
}

// Format asks for 5-8 skills and parses the comma separated answer.
func (sf *SkillsFormatter) Format(ctx context.Context, in SkillsInput) ([]string, error) {
	prompt := fmt.Sprintf("Suggest 5-8 relevant technical and soft skills for someone with these job titles: %s.\n", strings.Join(in.JobTitles, ", "))
	if len(in.Existing) > 0 {
		prompt += "They already have: " + strings.Join(in.Existing, ", ") + ". Suggest different ones.\n"
	}
	prompt += "Return ONLY a comma-separated list of skills, nothing else. Example: JavaScript, React, Project Management, Communication"

	out, err := chat(ctx, sf.client, sf.baseURL, sf.log, "skill-suggestions", prompt)
	if err != nil {
		return nil, err
	}
	return ParseSkillList(out), nil
}

// ParseSkillList splits a comma or newline separated list, dropping bullets,
// quotes and empty items.
func ParseSkillList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(strings.TrimSpace(f), "-•*\"'[]. ")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
