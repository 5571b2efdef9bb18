package formatters

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// FallbackScore is reported when the ai-service answers an analysis request
// with prose instead of JSON.
const FallbackScore = 75

type Analysis struct {
	Score    int      `json:"score"`
	Feedback []string `json:"feedback"`
}

type AnalysisFormatter struct {
	client  *http.Client
	baseURL string
	log     *zap.Logger
}

func NewAnalysisFormatter(httpClient *http.Client, baseURL string, log *zap.Logger) *AnalysisFormatter {
	return &AnalysisFormatter{client: httpClient, baseURL: baseURL, log: log}
}

// Format scores a resume. Non-JSON output degrades to FallbackScore with the
// raw text as the only feedback item; it is never an error.
func (af *AnalysisFormatter) Format(ctx context.Context, resume interface{}) (Analysis, error) {
	prompt := "Analyze this resume JSON data and provide a score out of 100 and a list of 3-5 specific improvements.\n" +
		`Format the response exactly as a JSON string: {"score": 85, "feedback": ["Improve summary", "Add more metrics"]}.` +
		"\n\nResume:\n" + mustMarshal(resume)

	out, err := chat(ctx, af.client, af.baseURL, af.log, "analysis", prompt)
	if err != nil {
		return Analysis{}, err
	}
	return ParseAnalysis(out), nil
}

func ParseAnalysis(text string) Analysis {
	if raw, ok := ExtractJSON(text); ok {
		var a Analysis
		if err := json.Unmarshal([]byte(raw), &a); err == nil && (a.Score != 0 || len(a.Feedback) > 0) {
			if a.Score < 0 {
				a.Score = 0
			}
			if a.Score > 100 {
				a.Score = 100
			}
			if a.Feedback == nil {
				a.Feedback = []string{}
			}
			return a
		}
	}
	return Analysis{Score: FallbackScore, Feedback: []string{text}}
}
