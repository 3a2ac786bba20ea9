// Package moderation screens review text before it is stored.
package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.5-flash"

	// RejectedMessage is shown to the reviewer when no reason is given.
	RejectedMessage = "Review contains inappropriate content."
)

type Verdict struct {
	Safe   bool   `json:"safe"`
	Reason string `json:"reason,omitempty"`
}

type Moderator interface {
	Check(ctx context.Context, text string) (Verdict, error)
}

// Noop approves everything. It is used when no moderation key is set.
type Noop struct{}

func (Noop) Check(context.Context, string) (Verdict, error) {
	return Verdict{Safe: true}, nil
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Gemini asks the Gemini generateContent endpoint for a verdict.
type Gemini struct {
	APIKey  string
	BaseURL string
	Model   string
	Client  *http.Client
}

// NewGemini uses DefaultModel when model is empty.
func NewGemini(apiKey, model string) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{
		APIKey:  apiKey,
		BaseURL: DefaultBaseURL,
		Model:   model,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

const prompt = `You moderate reviews of campus dining locations written by students.

Decide whether the review below is SAFE to publish. Reject it when it contains
hate speech, harassment, sexual content, threats, personal data of other
people, or spam. Harsh but honest opinions about food and service are fine.

REVIEW: %s

Answer STRICTLY as JSON:
{
  "safe": true/false,
  "reason": "one short sentence shown to the reviewer when unsafe"
}`

func (g *Gemini) endpoint() string {
	base := strings.TrimRight(g.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	model := g.Model
	if model == "" {
		model = DefaultModel
	}
	return fmt.Sprintf("%s/models/%s:generateContent?key=%s", base, model, url.QueryEscape(g.APIKey))
}

func (g *Gemini) Check(ctx context.Context, text string) (Verdict, error) {
	if strings.TrimSpace(text) == "" {
		return Verdict{Safe: true}, nil
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: fmt.Sprintf(prompt, text)}}},
		},
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return Verdict{}, fmt.Errorf("failed to encode moderation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(), bytes.NewReader(jsonData))
	if err != nil {
		return Verdict{}, fmt.Errorf("failed to build moderation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Verdict{}, fmt.Errorf("moderation request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Verdict{}, fmt.Errorf("failed to read moderation response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Verdict{}, fmt.Errorf("moderation service returned %d", resp.StatusCode)
	}

	var gr geminiResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return Verdict{}, fmt.Errorf("failed to decode moderation response: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return Verdict{}, fmt.Errorf("moderation response has no candidates")
	}

	return parseVerdict(gr.Candidates[0].Content.Parts[0].Text)
}

// parseVerdict reads the model's JSON answer, tolerating a fenced code block.
func parseVerdict(answer string) (Verdict, error) {
	answer = strings.TrimSpace(answer)
	answer = strings.Trim(answer, "`")
	answer = strings.TrimPrefix(answer, "json")
	answer = strings.TrimSpace(answer)

	var v Verdict
	if err := json.Unmarshal([]byte(answer), &v); err != nil {
		return Verdict{}, fmt.Errorf("failed to interpret moderation verdict: %w", err)
	}
	if !v.Safe && v.Reason == "" {
		v.Reason = RejectedMessage
	}
	return v, nil
}
