// Package gemini suggests email labels with the Gemini generateContent API.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/lu-zhengda/triagemail/internal/domain"
)

// ErrMissingAPIKey is returned by New when no API key is configured.
var ErrMissingAPIKey = errors.New("gemini API key is not set")

const (
	defaultModel     = "gemini-2.5-flash"
	defaultMaxLabels = 15
)

// Config holds the client settings.
type Config struct {
	APIKey            string
	Model             string
	MaxLabels         int
	Temperature       float64
	Timeout           time.Duration
	RequestsPerMinute int
	MaxRetries        int

	// BaseURL overrides the API endpoint. Tests point it at a local server.
	BaseURL    string
	HTTPClient *http.Client
}

// Client implements provider.LabelSuggester.
type Client struct {
	models      *genai.Models
	model       string
	maxLabels   int
	temperature float32
	timeout     time.Duration
	maxRetries  int
	limiter     *rate.Limiter
	newBackOff  func() backoff.BackOff
}

// New creates a client for the Gemini Developer API.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.MaxLabels <= 0 {
		cfg.MaxLabels = defaultMaxLabels
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	gc, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
	}

	return &Client{
		models:      gc.Models,
		model:       strings.TrimPrefix(cfg.Model, "models/"),
		maxLabels:   cfg.MaxLabels,
		temperature: float32(cfg.Temperature),
		timeout:     cfg.Timeout,
		maxRetries:  cfg.MaxRetries,
		limiter:     rate.NewLimiter(limit, 1),
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}, nil
}

// SuggestLabels asks the model for up to MaxLabels labels, most confident
// first.
func (c *Client) SuggestLabels(ctx context.Context, body string) ([]domain.Suggestion, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for rate limiter: %w", err)
	}

	contents := genai.Text(prompt(body, c.maxLabels))
	gcfg := c.generationConfig()
	var resp *genai.GenerateContentResponse

	op := func() error {
		callCtx := ctx
		if c.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}
		r, err := c.models.GenerateContent(callCtx, c.model, contents, gcfg)
		if err != nil {
			if !retryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		resp = r
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), uint64(max(c.maxRetries, 0))), ctx)
	notify := func(err error, wait time.Duration) {
		log.Printf("[gemini] request failed, retrying in %s: %v", wait, err)
	}
	if err := backoff.RetryNotify(op, b, notify); err != nil {
		return nil, fmt.Errorf("failed to get labels from gemini: %w", err)
	}

	suggestions, err := c.parse(resp)
	if err != nil {
		return nil, err
	}
	log.Printf("[gemini] received %d label suggestions", len(suggestions))
	return suggestions, nil
}

func (c *Client) generationConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema(),
		Temperature:      genai.Ptr(c.temperature),
	}
}

func prompt(body string, maxLabels int) string {
	return fmt.Sprintf(`Analyze the following email body and suggest up to %d relevant labels.
For each label, provide a confidence score between 0.0 and 1.0.
The list of labels should be ordered from most confident to least confident.
Common labels include: "Invoice", "Receipt", "Marketing", "Promotion", "Newsletter", "Important", "Personal", "Work", "Project Update", "Support Request", "Travel", "Social Notification", "Finance", "Urgent", "Spam", "Junk".
You can also generate other relevant labels if needed.
Respond ONLY with the JSON object.

Email Body:
---
%s
---`, maxLabels, body)
}

func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"labels": {
				Type:        genai.TypeArray,
				Description: "A list of suggested labels for the email, ordered by confidence.",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":       {Type: genai.TypeString, Description: "The suggested label name."},
						"confidence": {Type: genai.TypeNumber, Description: "The confidence score for the label (0.0 to 1.0)."},
					},
					Required: []string{"name", "confidence"},
				},
			},
		},
		Required: []string{"labels"},
	}
}

type labelResponse struct {
	Labels []struct {
		Name       *string  `json:"name"`
		Confidence *float64 `json:"confidence"`
	} `json:"labels"`
}

// parse extracts suggestions from the first candidate, dropping entries
// without a name or a confidence.
func (c *Client) parse(resp *genai.GenerateContentResponse) ([]domain.Suggestion, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, nil
	}
	var text strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil {
			text.WriteString(p.Text)
		}
	}

	raw := strings.TrimSpace(text.String())
	if raw == "" {
		return nil, nil
	}
	var parsed labelResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse gemini response: %w", err)
	}

	out := make([]domain.Suggestion, 0, len(parsed.Labels))
	for _, l := range parsed.Labels {
		if l.Name == nil || l.Confidence == nil {
			continue
		}
		out = append(out, domain.Suggestion{Name: *l.Name, Confidence: *l.Confidence})
		if len(out) == c.maxLabels {
			break
		}
	}
	return out, nil
}

// retryable reports whether a failed call is worth repeating: server errors,
// rate limiting and transport failures are, other client errors are not.
func retryable(err error) bool {
	if code, ok := statusCode(err); ok {
		return code == http.StatusTooManyRequests || code >= 500
	}
	return !errors.Is(err, context.Canceled)
}

func statusCode(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	return 0, false
}
