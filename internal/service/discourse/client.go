// Package discourse publishes archived Slack threads as Discourse posts.
package discourse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// APIError is returned for any non-success response from Discourse, carrying
// the HTTP status and response body for logging.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("discourse api http %d: %s", e.Status, e.Body)
}

// Client talks to the Discourse REST API. Stateless aside from credentials.
type Client struct {
	http        *http.Client
	baseURL     string
	apiKey      string
	apiUsername string
}

func NewClient(httpClient *http.Client, baseURL, apiKey, apiUsername string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		http:        httpClient,
		baseURL:     strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:      strings.TrimSpace(apiKey),
		apiUsername: strings.TrimSpace(apiUsername),
	}
}

type createPostRequest struct {
	Title string `json:"title"`
	Raw   string `json:"raw"`
}

// CreatedPost identifies a post created via CreatePost.
type CreatedPost struct {
	ID        int    `json:"id"`
	TopicID   int    `json:"topic_id"`
	TopicSlug string `json:"topic_slug"`

	// URL is filled in by the client from the topic slug and id.
	URL string `json:"url"`
}

// CreatePost creates a new topic from the given post document and returns its
// identity. Fails with APIError on any non-2xx status.
func (c *Client) CreatePost(ctx context.Context, post Post) (*CreatedPost, error) {
	payload, err := json.Marshal(createPostRequest{Title: post.Title, Raw: post.Raw})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/posts.json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", c.apiKey)
	req.Header.Set("Api-Username", c.apiUsername)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Body: string(body)}
	}

	var created CreatedPost
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("failed to decode create post response: %w", err)
	}
	created.URL = fmt.Sprintf("%s/t/%s/%d", c.baseURL, created.TopicSlug, created.TopicID)
	return &created, nil
}
