// Package legalapi is the HTTP client for the legal services backend that
// generates documents, opens cases and answers eligibility questions.
package legalapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"legalaid-intake-be/pkg/wizard"

	"github.com/patrickmn/go-cache"
)

const templatesKey = "templates"

type Config struct {
	BaseURL     string
	Token       string
	Timeout     time.Duration
	TemplateTTL time.Duration
}

// Client implements wizard.API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	cache   *cache.Cache
}

var (
	_ wizard.API           = (*Client)(nil)
	_ wizard.TemplateCache = (*Client)(nil)
)

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.TemplateTTL <= 0 {
		cfg.TemplateTTL = 5 * time.Minute
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    &http.Client{Timeout: cfg.Timeout},
		cache:   cache.New(cfg.TemplateTTL, 2*cfg.TemplateTTL),
	}
}

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("legal api returned status %d", e.Status)
	}
	return fmt.Sprintf("legal api returned status %d: %s", e.Status, e.Message)
}

type templatesResponse struct {
	Templates []wizard.TemplateDescriptor `json:"templates"`
}

type submitRequest struct {
	DocumentType wizard.DocumentType `json:"document_type"`
	Values       map[string]string   `json:"values"`
}

type eligibilityRequest struct {
	Values map[string]string `json:"values"`
}

// FetchTemplates lists the templates the backend offers. Results are cached
// for the configured TTL.
func (c *Client) FetchTemplates(ctx context.Context) ([]wizard.TemplateDescriptor, error) {
	if x, ok := c.cache.Get(templatesKey); ok {
		return copyTemplates(x.([]wizard.TemplateDescriptor)), nil
	}

	var resp templatesResponse
	if err := c.do(ctx, http.MethodGet, "/templates", nil, &resp); err != nil {
		return nil, err
	}
	c.cache.SetDefault(templatesKey, resp.Templates)
	return copyTemplates(resp.Templates), nil
}

func (c *Client) GenerateDocument(ctx context.Context, d wizard.DocumentType, values map[string]string) (wizard.DocumentHandle, error) {
	var handle wizard.DocumentHandle
	err := c.do(ctx, http.MethodPost, "/documents/generate", submitRequest{DocumentType: d, Values: values}, &handle)
	return handle, err
}

func (c *Client) CreateCase(ctx context.Context, d wizard.DocumentType, values map[string]string) (wizard.DocumentHandle, error) {
	var handle wizard.DocumentHandle
	err := c.do(ctx, http.MethodPost, "/cases", submitRequest{DocumentType: d, Values: values}, &handle)
	return handle, err
}

func (c *Client) CheckEligibility(ctx context.Context, values map[string]string) (wizard.EligibilityResult, error) {
	var res wizard.EligibilityResult
	err := c.do(ctx, http.MethodPost, "/eligibility/expungement", eligibilityRequest{Values: values}, &res)
	return res, err
}

func (c *Client) SaveProgress(ctx context.Context, record wizard.PersistenceRecord) error {
	return c.do(ctx, http.MethodPut, "/drafts/"+string(record.DocumentType), record, nil)
}

// InvalidateTemplates drops the cached template list.
func (c *Client) InvalidateTemplates() {
	c.cache.Delete(templatesKey)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(raw)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorMessage pulls a human readable message out of an error body.
func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	msg := strings.TrimSpace(string(raw))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

func copyTemplates(in []wizard.TemplateDescriptor) []wizard.TemplateDescriptor {
	out := make([]wizard.TemplateDescriptor, len(in))
	copy(out, in)
	return out
}
