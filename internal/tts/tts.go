// Package tts resolves dialogue lines into playable audio assets through
// external speech-synthesis and upload services.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Synthesizer turns a line of text into audio bytes plus the spoken duration
// in seconds.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, float64, error)
}

// Uploader stores audio bytes and returns a public URL.
type Uploader interface {
	Upload(ctx context.Context, audio []byte) (string, error)
}

// DefaultTimeout bounds one synthesis or upload call.
const DefaultTimeout = 30 * time.Second

// Client calls an HTTP speech-synthesis service.
type Client struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration

	client *http.Client
}

// NewClient creates a new Client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Timeout: DefaultTimeout,
		client:  &http.Client{},
	}
}

type synthesizeRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

// Synthesize requests audio for one line of text. The duration comes from
// the service's X-Audio-Duration response header.
func (c *Client) Synthesize(ctx context.Context, text, voice string) ([]byte, float64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	body, err := json.Marshal(synthesizeRequest{Text: text, Voice: voice})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/synthesize", bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("synthesis request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, 0, fmt.Errorf("synthesis service returned status %d: %s", resp.StatusCode, payload)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read audio: %w", err)
	}

	var duration float64
	if header := resp.Header.Get("X-Audio-Duration"); header != "" {
		if _, err := fmt.Sscanf(header, "%f", &duration); err != nil {
			return nil, 0, fmt.Errorf("invalid duration header %q: %w", header, err)
		}
	}
	return audio, duration, nil
}

// Upload stores synthesized audio and returns its public URL.
func (c *Client) Upload(ctx context.Context, audio []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/upload", bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "audio/wav")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("upload service returned status %d: %s", resp.StatusCode, payload)
	}

	var uploaded struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if uploaded.URL == "" {
		return "", fmt.Errorf("upload response missing url")
	}
	return uploaded.URL, nil
}
