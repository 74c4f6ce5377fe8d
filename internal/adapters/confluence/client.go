/* Copyright (c) 2026 ProjectPulse contributors
 * SPDX-License-Identifier: BSD-3-Clause */
package confluence

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "net/http"
    "strings"

    "github.com/rs/zerolog"

    "github.com/angular-dynamo/projectpulse/internal/config"
)

// Client talks to the Confluence Cloud REST API with basic auth
// (email + API token).
type Client struct {
    baseURL string
    user    string
    token   string
    pageID  string
    http    *http.Client
    log     zerolog.Logger
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
    return &Client{
        baseURL: strings.TrimRight(cfg.ConfluenceBaseURL, "/"),
        user:    cfg.ConfluenceUser,
        token:   cfg.ConfluenceToken,
        pageID:  cfg.ConfluencePageID,
        http:    &http.Client{Timeout: cfg.HTTPTimeout},
        log:     log,
    }
}

func (c *Client) Configured() bool {
    return c.baseURL != "" && c.user != "" && c.token != "" && c.pageID != ""
}

// Page is the slice of a Confluence content object the publisher needs:
// current title, version number and the storage-format body.
type Page struct {
    Title   string
    Version int
    Body    string
}

func (c *Client) do(ctx context.Context, method, u string, body any) (map[string]any, error) {
    if !c.Configured() { return nil, errors.New("confluence: not configured") }
    var r io.Reader
    if body != nil {
        b, err := json.Marshal(body)
        if err != nil { return nil, err }
        r = strings.NewReader(string(b))
    }
    req, err := http.NewRequestWithContext(ctx, method, u, r)
    if err != nil { return nil, err }
    if body != nil { req.Header.Set("Content-Type", "application/json") }
    req.SetBasicAuth(c.user, c.token)
    resp, err := c.http.Do(req)
    if err != nil { return nil, err }
    defer resp.Body.Close()
    if resp.StatusCode >= 300 {
        b, _ := io.ReadAll(resp.Body)
        return nil, fmt.Errorf("confluence api status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(b)))
    }
    var out map[string]any
    if err := json.NewDecoder(resp.Body).Decode(&out); err != nil { return nil, err }
    return out, nil
}

// GetPage fetches the configured page with its storage body and version.
func (c *Client) GetPage(ctx context.Context) (Page, error) {
    u := c.baseURL + "/rest/api/content/" + c.pageID + "?expand=body.storage,version"
    m, err := c.do(ctx, http.MethodGet, u, nil)
    if err != nil { return Page{}, err }
    var p Page
    p.Title, _ = m["title"].(string)
    if v, ok := m["version"].(map[string]any); ok {
        if n, ok := v["number"].(float64); ok { p.Version = int(n) }
    }
    if b, ok := m["body"].(map[string]any); ok {
        if s, ok := b["storage"].(map[string]any); ok {
            p.Body, _ = s["value"].(string)
        }
    }
    return p, nil
}

// UpdatePage writes a new storage body, bumping the version by one.
// Concurrent editors lose on version conflict, which Confluence reports
// as a 409 that surfaces through the error return.
func (c *Client) UpdatePage(ctx context.Context, title string, version int, newBody string) error {
    u := c.baseURL + "/rest/api/content/" + c.pageID
    payload := map[string]any{
        "id":      c.pageID,
        "type":    "page",
        "title":   title,
        "version": map[string]any{"number": version + 1},
        "body": map[string]any{
            "storage": map[string]any{"value": newBody, "representation": "storage"},
        },
    }
    _, err := c.do(ctx, http.MethodPut, u, payload)
    return err
}
