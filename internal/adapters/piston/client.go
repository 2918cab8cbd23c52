// Package piston talks to a Piston-compatible code execution service.
package piston

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dkeye/CodeRoom/internal/domain"
)

const DefaultBaseURL = "https://emkc.org/api/v2/piston"

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 4 << 20

var ErrBadResponse = errors.New("unexpected response from execution service")

type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for baseURL. The HTTP client carries no timeout
// of its own; callers bound each call through ctx.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

type file struct {
	Content string `json:"content"`
}

type executeRequest struct {
	Language string `json:"language"`
	Version  string `json:"version"`
	Files    []file `json:"files"`
	Stdin    string `json:"stdin,omitempty"`
}

type executeResponse struct {
	Language string              `json:"language"`
	Version  string              `json:"version"`
	Run      *domain.StageResult `json:"run"`
	Compile  *domain.StageResult `json:"compile"`
	Message  string              `json:"message"`
}

func (c *Client) Execute(ctx context.Context, req domain.ExecRequest) (domain.ExecResult, error) {
	body, err := json.Marshal(executeRequest{
		Language: req.Language,
		Version:  req.Version,
		Files:    []file{{Content: req.Source}},
		Stdin:    req.Stdin,
	})
	if err != nil {
		return domain.ExecResult{}, fmt.Errorf("encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/execute", bytes.NewReader(body))
	if err != nil {
		return domain.ExecResult{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return domain.ExecResult{}, fmt.Errorf("call execution service: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return domain.ExecResult{}, fmt.Errorf("read response: %w", err)
	}
	var out executeResponse
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := out.Message
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return domain.ExecResult{}, fmt.Errorf("execution service returned %d: %s", resp.StatusCode, msg)
	}
	if decodeErr != nil {
		return domain.ExecResult{}, fmt.Errorf("%w: %w", ErrBadResponse, decodeErr)
	}
	if out.Run == nil {
		return domain.ExecResult{}, fmt.Errorf("%w: missing run stage", ErrBadResponse)
	}
	return domain.ExecResult{
		Language: out.Language,
		Version:  out.Version,
		Run:      *out.Run,
		Compile:  out.Compile,
	}, nil
}
