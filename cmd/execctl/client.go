package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/isdmx/codeexec/httpserver"
	"github.com/isdmx/codeexec/sandbox"
)

// Client calls the execution API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Ping checks that the service answers GET /.
func (c *Client) Ping(ctx context.Context) (string, error) {
	var msg httpserver.MessageResponse
	if err := c.do(ctx, http.MethodGet, "/", nil, &msg); err != nil {
		return "", err
	}
	return msg.Message, nil
}

// Execute submits code and returns the service's result.
func (c *Client) Execute(ctx context.Context, lang, version, code string) (sandbox.Result, error) {
	var result sandbox.Result
	err := c.do(ctx, http.MethodPost, "/execute", httpserver.ExecuteRequest{
		Language: lang,
		Version:  version,
		Code:     &code,
	}, &result)
	return result, err
}

// Languages lists what the service supports.
func (c *Client) Languages(ctx context.Context) ([]httpserver.LanguageInfo, error) {
	var infos []httpserver.LanguageInfo
	err := c.do(ctx, http.MethodGet, "/languages", nil, &infos)
	return infos, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr httpserver.ErrorResponse
		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Detail != "" {
			return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, apiErr.Detail)
		}
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
