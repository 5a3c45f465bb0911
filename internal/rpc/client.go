// Package rpc holds the calls editors make to the workspace service, and an
// HTTP client for reaching that service when it runs elsewhere.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"media-editor/internal/models"
)

// Workspace is everything the editors need from the server side.
type Workspace interface {
	DeleteWorkspaceFiles(ctx context.Context, username string, paths []string) (*models.ServiceResult, error)
	StrategyHandlerClassNames(ctx context.Context) ([]string, error)
	ServerProperty(ctx context.Context, name string) (string, error)
	// FilesExist reports, per workspace path, whether a file or folder is
	// there. Paths that are not valid workspace paths report false.
	FilesExist(ctx context.Context, username string, paths []string) (map[string]bool, error)
}

// Client calls a workspace service over HTTP on behalf of one user.
type Client struct {
	BaseURL string
	UserID  uuid.UUID
	HTTP    *http.Client
}

func NewClient(baseURL string, user uuid.UUID) *Client {
	return &Client{
		BaseURL: baseURL,
		UserID:  user,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

var _ Workspace = (*Client)(nil)

func (c *Client) DeleteWorkspaceFiles(ctx context.Context, username string, paths []string) (*models.ServiceResult, error) {
	body := struct {
		Username string   `json:"username"`
		Paths    []string `json:"paths"`
	}{username, paths}

	var res models.ServiceResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/workspace/delete", body, &res); err != nil {
		return nil, errors.Wrap(err, "delete workspace files")
	}
	return &res, nil
}

func (c *Client) FilesExist(ctx context.Context, username string, paths []string) (map[string]bool, error) {
	body := struct {
		Username string   `json:"username"`
		Paths    []string `json:"paths"`
	}{username, paths}

	var res struct {
		Exists map[string]bool `json:"exists"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/workspace/exists", body, &res); err != nil {
		return nil, errors.Wrap(err, "check workspace files")
	}
	return res.Exists, nil
}

func (c *Client) StrategyHandlerClassNames(ctx context.Context) ([]string, error) {
	var res struct {
		Handlers []string `json:"handlers"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/strategy-handlers", nil, &res); err != nil {
		return nil, errors.Wrap(err, "fetch strategy handlers")
	}
	return res.Handlers, nil
}

func (c *Client) ServerProperty(ctx context.Context, name string) (string, error) {
	var res struct {
		Value string `json:"value"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/properties/"+url.PathEscape(name), nil, &res); err != nil {
		return "", errors.Wrapf(err, "read server property %s", name)
	}
	return res.Value, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var payload bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&payload).Encode(in); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, &payload)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.UserID != uuid.Nil {
		req.Header.Set("X-User-ID", c.UserID.String())
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e struct {
			Message string `json:"message"`
		}
		json.NewDecoder(resp.Body).Decode(&e)
		return fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, e.Message)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
