package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"finbrief/internal/model"
)

// Timeouts holds the per-collaborator-class timeout budgets. Lookup covers
// the short calls (scrape, retrieve); synthesis and speech are long because
// vendor latency dominates them.
type Timeouts struct {
	Lookup    time.Duration
	Keywords  time.Duration
	Synthesis time.Duration
	Speech    time.Duration
}

func DefaultTimeouts() Timeouts {
	return Timeouts{
		Lookup:    15 * time.Second,
		Keywords:  20 * time.Second,
		Synthesis: 90 * time.Second,
		Speech:    60 * time.Second,
	}
}

// Client calls the collaborator agents over HTTP. Every method returns either
// a payload or an *AgentError; retries are the assembler's business, not ours.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeouts   Timeouts
}

func NewClient(baseURL string, timeouts Timeouts) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		timeouts:   timeouts,
	}
}

func (c *Client) Keywords(ctx context.Context, query string) (string, error) {
	var resp struct {
		Keywords string `json:"keywords"`
	}
	payload := map[string]string{"query": query}
	if err := c.postJSON(ctx, "keywords", "/language/keywords", c.timeouts.Keywords, payload, &resp); err != nil {
		return "", err
	}
	return resp.Keywords, nil
}

func (c *Client) ScrapeNews(ctx context.Context, query string, resultsLimit, summaryLimit int) ([]model.NewsArticle, error) {
	var resp struct {
		Articles []model.NewsArticle `json:"articles"`
	}
	payload := map[string]any{
		"query":         query,
		"results_limit": resultsLimit,
		"summary_limit": summaryLimit,
	}
	if err := c.postJSON(ctx, "scraping", "/scraping/news", c.timeouts.Lookup, payload, &resp); err != nil {
		return nil, err
	}
	return resp.Articles, nil
}

func (c *Client) Retrieve(ctx context.Context, query string, topK int) ([]string, error) {
	var resp struct {
		Chunks []string `json:"chunks"`
	}
	payload := map[string]any{"query": query, "top_k": topK}
	if err := c.postJSON(ctx, "retriever", "/retriever/search", c.timeouts.Lookup, payload, &resp); err != nil {
		return nil, err
	}
	return resp.Chunks, nil
}

func (c *Client) Synthesize(ctx context.Context, req model.SynthesisRequest) (string, error) {
	var resp struct {
		Narrative string `json:"narrative"`
	}
	if err := c.postJSON(ctx, "language", "/language/synthesize", c.timeouts.Synthesis, req, &resp); err != nil {
		return "", err
	}
	return resp.Narrative, nil
}

// Speak converts one narrative segment to audio, collecting the streamed
// response body into a single buffer.
func (c *Client) Speak(ctx context.Context, segment string) ([]byte, error) {
	body, err := json.Marshal(map[string]string{"text": segment})
	if err != nil {
		return nil, &AgentError{Agent: "tts", Kind: FailureMalformed, Detail: err.Error()}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Speech)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tts/speak", bytes.NewReader(body))
	if err != nil {
		return nil, &AgentError{Agent: "tts", Kind: FailureConnection, Detail: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classify("tts", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, upstreamError("tts", resp)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify("tts", err)
	}
	return audio, nil
}

func (c *Client) Transcribe(ctx context.Context, audio []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Speech)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/stt/transcribe", bytes.NewReader(audio))
	if err != nil {
		return "", &AgentError{Agent: "stt", Kind: FailureConnection, Detail: err.Error()}
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classify("stt", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", upstreamError("stt", resp)
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &AgentError{Agent: "stt", Kind: FailureMalformed, Detail: err.Error()}
	}
	return parsed.Text, nil
}

func (c *Client) postJSON(ctx context.Context, agent, path string, timeout time.Duration, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &AgentError{Agent: agent, Kind: FailureMalformed, Detail: err.Error()}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return &AgentError{Agent: agent, Kind: FailureConnection, Detail: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classify(agent, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return upstreamError(agent, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &AgentError{Agent: agent, Kind: FailureMalformed, Detail: err.Error()}
	}
	return nil
}

func classify(agent string, err error) *AgentError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &AgentError{Agent: agent, Kind: FailureTimeout, Detail: err.Error()}
	}
	return &AgentError{Agent: agent, Kind: FailureConnection, Detail: err.Error()}
}

func upstreamError(agent string, resp *http.Response) *AgentError {
	detail := fmt.Sprintf("unexpected status %d", resp.StatusCode)

	// Agents report errors as {"error": "..."}; keep only the short reason.
	var parsed struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&parsed); err == nil && parsed.Error != "" {
		detail = parsed.Error
	}

	return &AgentError{Agent: agent, Kind: FailureUpstream, Status: resp.StatusCode, Detail: detail}
}
