package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultListenURL = "https://api.deepgram.com/v1/listen?model=nova-2&smart_format=true&language=en-US"
	defaultSpeakURL  = "https://api.deepgram.com/v1/speak?model=aura-hera-en"
)

// DeepgramClient wraps Deepgram's prerecorded transcription and speech
// synthesis endpoints.
type DeepgramClient struct {
	apiKey     string
	httpClient *http.Client
	listenURL  string
	speakURL   string
}

func NewDeepgramClient(apiKey string) *DeepgramClient {
	return &DeepgramClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		listenURL:  defaultListenURL,
		speakURL:   defaultSpeakURL,
	}
}

// Transcribe sends prerecorded audio and returns the first channel's top
// alternative transcript. An empty transcript is not an error here; the
// caller decides what no speech means.
func (c *DeepgramClient) Transcribe(ctx context.Context, audio []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.listenURL, bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("deepgram request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("deepgram transcribe: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("deepgram transcribe: unexpected status %d", resp.StatusCode)
	}

	var raw listenResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", fmt.Errorf("deepgram decode: %w", err)
	}

	if len(raw.Results.Channels) == 0 || len(raw.Results.Channels[0].Alternatives) == 0 {
		return "", fmt.Errorf("deepgram: no transcript in response")
	}

	return raw.Results.Channels[0].Alternatives[0].Transcript, nil
}

// Speak synthesizes one text segment and returns the streamed audio body.
// The caller owns closing the reader.
func (c *DeepgramClient) Speak(ctx context.Context, text string) (io.ReadCloser, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("deepgram payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.speakURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("deepgram request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("deepgram speak: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("deepgram speak: unexpected status %d", resp.StatusCode)
	}

	return resp.Body, nil
}

type listenResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}
