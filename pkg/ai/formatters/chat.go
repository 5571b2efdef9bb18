package formatters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// ErrEmptyOutput is returned when the ai-service answers with no text.
var ErrEmptyOutput = errors.New("ai-service returned empty output")

type chatRequest struct {
	Agent string `json:"agent"`
	Input string `json:"input"`
}

type chatResponse struct {
	Agent  string `json:"agent"`
	Output string `json:"output"`
}

// chat posts input to the ai-service chat endpoint and returns the trimmed
// agent output. It makes exactly one request.
func chat(ctx context.Context, client *http.Client, baseURL string, log *zap.Logger, op, input string) (string, error) {
	b, err := json.Marshal(chatRequest{Agent: "auto", Input: input})
	if err != nil {
		return "", err
	}

	log.Debug("ai-service request", zap.String("op", op), zap.String("url", baseURL+"/v1/chat"), zap.Int("bytes", len(b)))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/v1/chat", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	rb, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	log.Debug("ai-service response", zap.String("op", op), zap.Int("status", resp.StatusCode), zap.Int("bytes", len(rb)))

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ai-service returned non-200 status: %d", resp.StatusCode)
	}

	var cr chatResponse
	if err := json.Unmarshal(rb, &cr); err != nil {
		return "", fmt.Errorf("decode ai-service response: %w", err)
	}
	out := strings.TrimSpace(cr.Output)
	if out == "" {
		return "", ErrEmptyOutput
	}
	return out, nil
}

// ExtractJSON returns s itself when it is valid JSON, otherwise the span
// from the first '{' to the last '}' when that span is valid JSON. Models
// often wrap JSON in prose or code fences.
func ExtractJSON(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if json.Valid([]byte(s)) {
		return s, true
	}
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start >= 0 && end > start {
		sub := s[start : end+1]
		if json.Valid([]byte(sub)) {
			return sub, true
		}
	}
	return "", false
}

func mustMarshal(v interface{}) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}

func withInstruction(prompt, instruction string) string {
	if instruction = strings.TrimSpace(instruction); instruction != "" {
		prompt += "\nAdditional instructions from the user: " + instruction
	}
	return prompt
}
