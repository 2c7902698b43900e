package nvidia

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/followwise/followwise-api/internal/entity"
)

const (
	DefaultBaseURL = "https://integrate.api.nvidia.com/v1"
	DefaultModel   = "meta/llama-3.1-405b-instruct"

	temperature = 0.7
	maxTokens   = 500
)

var ErrNotConfigured = errors.New("nvidia: API key not configured")

// Client drafts follow-ups through an OpenAI-compatible chat completions API.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewClient(apiKey, baseURL, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Generate(ctx context.Context, contextText string, tone entity.Tone, lead *entity.LeadInfo, history []entity.Interaction) ([]entity.FollowUpVariant, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	payload := chatCompletionRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: buildPrompt(contextText, tone, lead, history)}},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nvidia request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nvidia API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, errors.New("nvidia API returned no choices")
	}

	return parseDrafts(completion.Choices[0].Message.Content, tone)
}

func buildPrompt(contextText string, tone entity.Tone, lead *entity.LeadInfo, history []entity.Interaction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write %d alternative %s follow-up emails for a sales lead.\n", entity.VariantCount, tone)
	if lead != nil {
		fmt.Fprintf(&b, "Lead name: %s\n", lead.ContactName)
		if lead.Company != "" {
			fmt.Fprintf(&b, "Company: %s\n", lead.Company)
		}
		if lead.UserName != "" {
			fmt.Fprintf(&b, "Sign the emails as: %s\n", lead.UserName)
		}
	}
	fmt.Fprintf(&b, "Context: %s\n", contextText)
	if len(history) > 0 {
		b.WriteString("Previous emails sent to this lead:\n")
		for _, h := range history {
			fmt.Fprintf(&b, "- %s (%s)\n", h.Subject, h.SentAt.Format("2006-01-02"))
		}
	}
	b.WriteString(`Reply ONLY with a JSON array of objects with "subject" and "body" string fields, no other text.`)
	return b.String()
}

// parseDrafts accepts the model output with or without markdown fences.
func parseDrafts(content string, tone entity.Tone) ([]entity.FollowUpVariant, error) {
	text := strings.TrimSpace(content)
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end <= start {
		return nil, errors.New("no JSON array in model output")
	}

	var drafts []draft
	if err := json.Unmarshal([]byte(text[start:end+1]), &drafts); err != nil {
		return nil, fmt.Errorf("failed to parse drafts: %w", err)
	}
	if len(drafts) < entity.VariantCount {
		return nil, fmt.Errorf("model returned %d drafts, need %d", len(drafts), entity.VariantCount)
	}

	variants := make([]entity.FollowUpVariant, 0, entity.VariantCount)
	for i, d := range drafts[:entity.VariantCount] {
		if strings.TrimSpace(d.Subject) == "" || strings.TrimSpace(d.Body) == "" {
			return nil, fmt.Errorf("draft %d is incomplete", i)
		}
		variants = append(variants, entity.FollowUpVariant{
			VariantIndex: i,
			Subject:      strings.TrimSpace(d.Subject),
			Body:         strings.TrimSpace(d.Body),
			Tone:         tone,
		})
	}
	return variants, nil
}
