// Package gen is the stateless facade over the generation provider. One
// exported operation per asset type; each translates a structured request
// into a single REST call (video adds a status-poll loop) and parses a
// structured or binary response. No caching, no cross-call state.
package gen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"adgen/internal/config"
	"adgen/internal/logging"
)

// Client talks to the Gemini REST API.
type Client struct {
	apiKey  string
	baseURL string

	textModel   string
	imageModel  string
	imagenModel string
	videoModel  string
	speechModel string
	liveModel   string

	httpClient   *http.Client
	pollInterval time.Duration
	videoTimeout time.Duration

	// scrapeFunc augments the URL input path with locally extracted page
	// facts. Overridable in tests.
	scrapeFunc func(ctx context.Context, url string) (string, error)

	mu          sync.Mutex
	lastRequest time.Time
}

// minRequestSpacing throttles back-to-back calls to the provider.
const minRequestSpacing = 100 * time.Millisecond

// NewClient creates a generation client from configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		apiKey:       cfg.Provider.APIKey,
		baseURL:      strings.TrimRight(cfg.Provider.BaseURL, "/"),
		textModel:    cfg.Provider.TextModel,
		imageModel:   cfg.Provider.ImageModel,
		imagenModel:  cfg.Provider.ImagenModel,
		videoModel:   cfg.Provider.VideoModel,
		speechModel:  cfg.Provider.SpeechModel,
		liveModel:    cfg.Provider.LiveModel,
		httpClient:   &http.Client{Timeout: cfg.GetTimeout()},
		pollInterval: cfg.GetVideoPollInterval(),
		videoTimeout: cfg.GetVideoTimeout(),
		scrapeFunc:   defaultScrapeFunc,
	}
}

// throttle enforces minimum spacing between provider requests.
func (c *Client) throttle() {
	c.mu.Lock()
	elapsed := time.Since(c.lastRequest)
	if elapsed < minRequestSpacing {
		time.Sleep(minRequestSpacing - elapsed)
	}
	c.lastRequest = time.Now()
	c.mu.Unlock()
}

// postJSON posts a JSON body and decodes the JSON response, retrying rate
// limits with exponential backoff.
func (c *Client) postJSON(ctx context.Context, url string, body, out interface{}) error {
	// Auto-apply timeout if the context has no deadline.
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	if c.apiKey == "" {
		return fmt.Errorf("API key not configured")
	}

	c.throttle()

	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	maxRetries := 3
	var lastErr error

	for i := 0; i <= maxRetries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(1<<uint(i-1)) * time.Second):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limit exceeded (429)")
			continue
		}

		if resp.StatusCode != http.StatusOK {
			bodyStr := string(respBody)
			if looksSafetyBlocked(resp.StatusCode, bodyStr) {
				return fmt.Errorf("%w: %s", ErrSafetyBlocked, compactError(bodyStr))
			}
			return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, bodyStr)
		}

		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// getJSON fetches a URL and decodes the JSON response. Used by the video
// operation poll.
func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// generate runs one generateContent call against the given model and maps
// the provider error envelope.
func (c *Client) generate(ctx context.Context, model string, req *GenerateRequest) (*GenerateResponse, error) {
	reqID := uuid.NewString()[:8]
	start := time.Now()
	logging.GeneratorDebug("[%s] generateContent model=%s parts=%d", reqID, model, countParts(req))

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, model, c.apiKey)

	var resp GenerateResponse
	if err := c.postJSON(ctx, url, req, &resp); err != nil {
		logging.GeneratorError("[%s] generateContent failed after %v: %v", reqID, time.Since(start), err)
		return nil, err
	}

	if resp.Error != nil {
		logging.GeneratorError("[%s] provider error: %s", reqID, resp.Error.Message)
		return nil, fmt.Errorf("API error: %s", resp.Error.Message)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("%w: %s", ErrSafetyBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) > 0 && isSafetyFinish(resp.Candidates[0].FinishReason) {
		return nil, fmt.Errorf("%w: finish reason %s", ErrSafetyBlocked, resp.Candidates[0].FinishReason)
	}

	logging.Generator("[%s] generateContent model=%s completed in %v tokens=%d",
		reqID, model, time.Since(start), resp.UsageMetadata.TotalTokenCount)
	return &resp, nil
}

// firstText concatenates the text parts of the first candidate.
func firstText(resp *GenerateResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return strings.TrimSpace(b.String())
}

// firstInline returns the first inline media blob of the first candidate.
func firstInline(resp *GenerateResponse) ([]byte, string, bool) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, "", false
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.InlineData != nil && part.InlineData.Data != "" {
			data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return nil, "", false
			}
			return data, part.InlineData.MIMEType, true
		}
	}
	return nil, "", false
}

// decodeStrict unmarshals structured-output text into dst, rejecting empty
// responses and malformed JSON.
func decodeStrict(text string, dst interface{}) error {
	if text == "" {
		return ErrNoCompletion
	}
	if err := json.Unmarshal([]byte(text), dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

func isSafetyFinish(reason string) bool {
	switch reason {
	case "SAFETY", "IMAGE_SAFETY", "PROHIBITED_CONTENT", "BLOCKLIST":
		return true
	}
	return false
}

// looksSafetyBlocked spots content-safety rejections in non-200 bodies so
// they map to ErrSafetyBlocked instead of a generic transport error.
func looksSafetyBlocked(status int, body string) bool {
	if status != http.StatusBadRequest {
		return false
	}
	lower := strings.ToLower(body)
	return strings.Contains(lower, "refusal") ||
		strings.Contains(lower, "safety") ||
		strings.Contains(lower, "blocked")
}

func compactError(body string) string {
	var envelope struct {
		Error *APIError `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &envelope); err == nil && envelope.Error != nil {
		return envelope.Error.Message
	}
	if len(body) > 200 {
		return body[:200]
	}
	return body
}

func countParts(req *GenerateRequest) int {
	n := 0
	for _, content := range req.Contents {
		n += len(content.Parts)
	}
	return n
}
