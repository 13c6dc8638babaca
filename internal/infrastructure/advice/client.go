package advice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"agriloan-backend/internal/domain/apperr"
)

// Client talks to the external text-advice endpoint: a bare JSON POST that
// turns a field-log prompt into free-text guidance. Purely advisory; every
// failure surfaces as apperr.ErrExternal and never touches stored state.
type Client struct {
	baseURL string
	hc      *http.Client
	log     *logrus.Logger
}

func NewClient(baseURL string, log *logrus.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: 15 * time.Second},
		log:     log,
	}
}

type adviceRequest struct {
	PromptContent     string `json:"promptContent"`
	SystemInstruction string `json:"systemInstruction"`
}

type adviceResponse struct {
	Advice string `json:"advice"`
	Error  string `json:"error,omitempty"`
}

const systemInstruction = "You are an expert agricultural advisor. " +
	"Provide brief, actionable advice to farmers based on their field log entries, " +
	"in 2-4 concise sentences, addressing the farmer directly."

// Advise sends the prompt and returns the guidance text.
func (c *Client) Advise(ctx context.Context, prompt string) (string, error) {
	if c.baseURL == "" {
		return "", apperr.Externalf("advice service not configured")
	}

	body, err := json.Marshal(adviceRequest{
		PromptContent:     prompt,
		SystemInstruction: systemInstruction,
	})
	if err != nil {
		return "", fmt.Errorf("marshal advice request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/advice", bytes.NewReader(body))
	if err != nil {
		return "", apperr.Externalf("build advice request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.WithError(err).Warn("advice service unreachable")
		return "", apperr.Externalf("advice service unreachable: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperr.Externalf("advice service returned %d", resp.StatusCode)
	}

	var out adviceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", apperr.Externalf("decode advice response: %v", err)
	}
	if out.Error != "" {
		return "", apperr.Externalf("advice service error: %s", out.Error)
	}
	return out.Advice, nil
}
