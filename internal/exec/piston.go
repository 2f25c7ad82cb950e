package exec

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"gamecodin/internal/domain"
)

const (
	runtimesPath = "/api/v2/runtimes"
	executePath  = "/api/v2/execute"
)

// Client talks to a Piston execution engine over HTTP. Piston is the only
// component allowed to run player code; the game server never executes
// anything itself.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a Piston client. The timeout bounds a single execution
// request including the sandboxed run itself.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type runtimeResponse struct {
	Language string   `json:"language"`
	Version  string   `json:"version"`
	Aliases  []string `json:"aliases"`
	Runtime  string   `json:"runtime"`
}

// Runtimes fetches the engine's language catalogue
func (c *Client) Runtimes(ctx context.Context) ([]domain.Language, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+runtimesPath, nil)
	if err != nil {
		return nil, fmt.Errorf("building runtimes request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching runtimes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching runtimes: unexpected status %d", resp.StatusCode)
	}

	var runtimes []runtimeResponse
	if err := json.NewDecoder(resp.Body).Decode(&runtimes); err != nil {
		return nil, fmt.Errorf("decoding runtimes: %w", err)
	}

	languages := make([]domain.Language, 0, len(runtimes))
	for _, rt := range runtimes {
		languages = append(languages, domain.Language{
			Name:    rt.Language,
			Version: rt.Version,
			Aliases: rt.Aliases,
			Runtime: rt.Runtime,
		})
	}
	return languages, nil
}

type executeRequest struct {
	Language string        `json:"language"`
	Version  string        `json:"version"`
	Files    []executeFile `json:"files"`
	Stdin    string        `json:"stdin"`
}

type executeFile struct {
	Content string `json:"content"`
}

type executeResponse struct {
	Run struct {
		Stdout string `json:"stdout"`
		Stderr string `json:"stderr"`
		Code   int    `json:"code"`
	} `json:"run"`
	Message string `json:"message"`
}

// Execute runs one (code, language, stdin) job and returns captured stdout.
// Transport errors, non-2xx statuses and engine-reported failures all come
// back as errors; the grader decides how to retry.
func (c *Client) Execute(ctx context.Context, language, version, code, stdin string) (string, error) {
	body, err := json.Marshal(executeRequest{
		Language: language,
		Version:  version,
		Files:    []executeFile{{Content: code}},
		Stdin:    stdin,
	})
	if err != nil {
		return "", fmt.Errorf("encoding execute request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+executePath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building execute request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing code: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Debug("piston rejected execution",
			"status", resp.StatusCode,
			"body", string(payload),
		)
		return "", fmt.Errorf("executing code: unexpected status %d", resp.StatusCode)
	}

	var result executeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding execute response: %w", err)
	}

	if result.Message != "" {
		return "", fmt.Errorf("executing code: %s", result.Message)
	}

	return result.Run.Stdout, nil
}
