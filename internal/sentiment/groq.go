package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"
)

// Default configuration values.
const (
	DefaultGroqBaseURL = "https://api.groq.com/openai/v1"
	DefaultGroqModel   = "llama-3.1-8b-instant"
	DefaultGroqTimeout = 15 * time.Second

	maxHeadlines = 10
)

const systemPrompt = `You are a financial sentiment rater. Given news about a stock, respond with ONLY a JSON object of the form {"score": <number>} where score is between -1.0 (very bearish) and 1.0 (very bullish). No other text.`

// GroqAnalyzer scores text with the Groq chat completions API. With an empty
// API key every call returns NeutralSentiment, so the analyzer is always safe
// to wire in.
type GroqAnalyzer struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// GroqOption configures GroqAnalyzer.
type GroqOption func(*GroqAnalyzer)

// WithGroqBaseURL overrides the API base URL (used by tests).
func WithGroqBaseURL(u string) GroqOption {
	return func(a *GroqAnalyzer) { a.baseURL = u }
}

// WithGroqModel selects the completion model.
func WithGroqModel(model string) GroqOption {
	return func(a *GroqAnalyzer) { a.model = model }
}

// WithGroqHTTPClient sets a custom http.Client.
func WithGroqHTTPClient(client *http.Client) GroqOption {
	return func(a *GroqAnalyzer) { a.client = client }
}

// NewGroqAnalyzer creates a new Groq-backed analyzer.
func NewGroqAnalyzer(apiKey string, opts ...GroqOption) *GroqAnalyzer {
	a := &GroqAnalyzer{
		baseURL: DefaultGroqBaseURL,
		apiKey:  apiKey,
		model:   DefaultGroqModel,
		client:  &http.Client{Timeout: DefaultGroqTimeout},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Compile-time interface check.
var _ Analyzer = (*GroqAnalyzer)(nil)

// AnalyzeHeadlines scores recent headlines for a symbol. With no headlines
// or no API key the result is neutral.
func (a *GroqAnalyzer) AnalyzeHeadlines(ctx context.Context, symbol string, items []domain.NewsItem) (domain.Sentiment, error) {
	if len(items) == 0 {
		return domain.NeutralSentiment, nil
	}
	if len(items) > maxHeadlines {
		items = items[:maxHeadlines]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Recent news for %s:\n", symbol)
	for _, item := range items {
		fmt.Fprintf(&sb, "- %s\n", item.Headline)
	}

	return a.AnalyzeText(ctx, sb.String())
}

// AnalyzeText scores a single text. Upstream failures degrade to neutral
// rather than failing the caller.
func (a *GroqAnalyzer) AnalyzeText(ctx context.Context, text string) (domain.Sentiment, error) {
	if a.apiKey == "" || strings.TrimSpace(text) == "" {
		return domain.NeutralSentiment, nil
	}

	score, err := a.complete(ctx, text)
	if err != nil {
		log.Printf("[sentiment] scoring failed, using neutral: %v", err)
		return domain.NeutralSentiment, nil
	}

	if score > 1 {
		score = 1
	} else if score < -1 {
		score = -1
	}

	return domain.Sentiment{
		Score: score,
		Label: domain.LabelForScore(score),
	}, nil
}

// complete calls the chat completions endpoint and parses the score.
func (a *GroqAnalyzer) complete(ctx context.Context, text string) (float64, error) {
	reqBody := chatRequest{
		Model: a.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: text},
		},
		Temperature: 0,
		MaxTokens:   50,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return 0, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return 0, fmt.Errorf("empty choices")
	}

	return parseScore(parsed.Choices[0].Message.Content)
}

// parseScore extracts {"score": x} from the completion text, tolerating
// surrounding prose the model sometimes adds.
func parseScore(content string) (float64, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return 0, fmt.Errorf("no JSON object in completion %q", content)
	}

	var result struct {
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &result); err != nil {
		return 0, fmt.Errorf("parse completion %q: %w", content, err)
	}
	return result.Score, nil
}

// Groq wire types (OpenAI-compatible).

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}
