package formatters

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

var polishPrompts = map[string]string{
	"summary":           "Write or improve a professional resume summary (2-3 sentences) from the context below.",
	"experience":        "Rewrite the role described below as 3-4 achievement bullets, one per line, each starting with \"• \".",
	"cover-letter":      "Write a professional cover letter from the context below.",
	"skill-suggestions": "Suggest 5-8 relevant skills for the context below as a comma-separated list, nothing else.",
	"analysis":          `Analyze the resume below. Respond exactly as JSON: {"score": 85, "feedback": ["..."]}.`,
}

// Polish sends a typed free-form request. kind must be a key of polishPrompts.
func Polish(ctx context.Context, client *http.Client, baseURL string, log *zap.Logger, kind, content, instruction string) (string, error) {
	prompt := polishPrompts[kind] + "\n\nContext:\n" + content
	return chat(ctx, client, baseURL, log, kind, withInstruction(prompt, instruction))
}
