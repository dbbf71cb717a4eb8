package docclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// GenerateRequest carries one patent application to the generation service.
type GenerateRequest struct {
	Title            string   `json:"title,omitempty"`
	TechField        string   `json:"tech_field,omitempty"`
	Background       string   `json:"background,omitempty"`
	InventionContent string   `json:"invention_content,omitempty"`
	DrawingsDesc     string   `json:"drawings_desc,omitempty"`
	Embodiment       string   `json:"embodiment,omitempty"`
	Claims           []string `json:"claims,omitempty"`
	Abstract         string   `json:"abstract,omitempty"`
}

// GenerateResult is the outcome of one generation run. Files maps the
// document key (spec, claims, drawings, abstract) to its download URL.
type GenerateResult struct {
	ID    string            `json:"id"`
	Files map[string]string `json:"files"`
}

type HistoryEntry struct {
	ID         string            `json:"id"`
	Title      string            `json:"title,omitempty"`
	ClaimCount int               `json:"claim_count"`
	Files      map[string]string `json:"files"`
	CreatedAt  time.Time         `json:"created_at"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload []byte) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	blob, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return blob, resp.StatusCode, fmt.Errorf("%s %s failed status=%d body=%s", method, path, resp.StatusCode, string(blob))
	}
	return blob, resp.StatusCode, nil
}

func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	out, _, err := c.doJSON(ctx, http.MethodPost, "/generate-patent", body)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Status string            `json:"status"`
		ID     string            `json:"id"`
		Files  map[string]string `json:"files"`
	}
	if err := json.Unmarshal(out, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "success" || strings.TrimSpace(resp.ID) == "" {
		return nil, fmt.Errorf("unexpected generate response: %s", string(out))
	}
	return &GenerateResult{ID: resp.ID, Files: resp.Files}, nil
}

// Download fetches one generated document. link is the absolute URL from
// GenerateResult.Files.
func (c *Client) Download(ctx context.Context, link string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	blob, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("GET %s failed status=%d body=%s", link, resp.StatusCode, string(blob))
	}
	return blob, nil
}

func (c *Client) ListGenerations(ctx context.Context, limit int) ([]HistoryEntry, error) {
	path := "/generations"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	out, _, err := c.doJSON(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Generations []HistoryEntry `json:"generations"`
	}
	if err := json.Unmarshal(out, &resp); err != nil {
		return nil, err
	}
	return resp.Generations, nil
}

func (c *Client) GetGeneration(ctx context.Context, id string) (*HistoryEntry, error) {
	out, _, err := c.doJSON(ctx, http.MethodGet, "/generations/"+id, nil)
	if err != nil {
		return nil, err
	}
	var entry HistoryEntry
	if err := json.Unmarshal(out, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Preview returns the application rendered as a standalone HTML page.
func (c *Client) Preview(ctx context.Context, req GenerateRequest) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	out, _, err := c.doJSON(ctx, http.MethodPost, "/preview", body)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Health(ctx context.Context) error {
	out, _, err := c.doJSON(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return err
	}
	var resp struct {
		OK bool `json:"ok"`
	}
	if err := json.Unmarshal(out, &resp); err != nil {
		return err
	}
	if !resp.OK {
		return fmt.Errorf("unexpected health response: %s", string(out))
	}
	return nil
}
