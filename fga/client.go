package fga

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Client forwards store, authorization-model and relationship-tuple
// operations to the external fine-grained-authorization server over
// HTTP. Requests pass through unchanged beyond the typed translation;
// relation evaluation semantics live entirely on the server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type ClientOption func(*Client)

// WithClientHTTP overrides the HTTP client (primarily for testing).
func WithClientHTTP(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(baseURL string, options ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *Client) ListStores(ctx context.Context) (*ListStoresResponse, error) {
	var out ListStoresResponse
	if err := c.do(ctx, http.MethodGet, "/stores", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateStore(ctx context.Context, name string) (*Store, error) {
	var out Store
	req := map[string]string{"name": name}
	if err := c.do(ctx, http.MethodPost, "/stores", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) WriteTuples(ctx context.Context, storeID string, req WriteTuplesRequest) error {
	path := fmt.Sprintf("/stores/%s/write", storeID)
	return c.do(ctx, http.MethodPost, path, req, nil)
}

func (c *Client) ReadTuples(ctx context.Context, storeID string, req ReadTuplesRequest) (*ReadTuplesResponse, error) {
	var out ReadTuplesResponse
	path := fmt.Sprintf("/stores/%s/read", storeID)
	if err := c.do(ctx, http.MethodPost, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ReadAuthorizationModel(ctx context.Context, storeID, modelID string) (*AuthorizationModel, error) {
	var out struct {
		AuthorizationModel AuthorizationModel `json:"authorization_model"`
	}
	path := fmt.Sprintf("/stores/%s/authorization-models/%s", storeID, modelID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out.AuthorizationModel, nil
}

func (c *Client) WriteAuthorizationModel(ctx context.Context, storeID string, model AuthorizationModel) (*WriteModelResponse, error) {
	var out WriteModelResponse
	path := fmt.Sprintf("/stores/%s/authorization-models", storeID)
	if err := c.do(ctx, http.MethodPost, path, model, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "[fga.Client] marshal %s %s", method, path)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errors.Wrapf(err, "[fga.Client] build %s %s", method, path)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "[fga.Client] %s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Error().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Msg("fga request failed")
		return errors.Errorf("[fga.Client] %s %s: status %d: %s", method, path, resp.StatusCode, string(raw))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "[fga.Client] decode %s %s", method, path)
	}
	return nil
}

func (c *Client) Check(ctx context.Context, storeID string, req CheckRequest) (*CheckResponse, error) {
	var out CheckResponse
	path := fmt.Sprintf("/stores/%s/check", storeID)
	if err := c.do(ctx, http.MethodPost, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) BatchCheck(ctx context.Context, storeID string, req BatchCheckRequest) (*BatchCheckResponse, error) {
	var out BatchCheckResponse
	path := fmt.Sprintf("/stores/%s/batch-check", storeID)
	if err := c.do(ctx, http.MethodPost, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Expand(ctx context.Context, storeID string, req ExpandRequest) (*ExpandResponse, error) {
	var out ExpandResponse
	path := fmt.Sprintf("/stores/%s/expand", storeID)
	if err := c.do(ctx, http.MethodPost, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListUsers(ctx context.Context, storeID string, req ListUsersRequest) (*ListUsersResponse, error) {
	var out ListUsersResponse
	path := fmt.Sprintf("/stores/%s/list-users", storeID)
	if err := c.do(ctx, http.MethodPost, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
