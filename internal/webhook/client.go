// Package webhook posts order and contact notifications to the chat
// webhooks the shop admin watches. Delivery is at-most-once: a failed
// POST is reported, never retried here.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var ErrNoURL = errors.New("webhook url belum diset")

type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type Footer struct {
	Text string `json:"text"`
}

type Embed struct {
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Color       int     `json:"color,omitempty"`
	Fields      []Field `json:"fields,omitempty"`
	Footer      *Footer `json:"footer,omitempty"`
	Timestamp   string  `json:"timestamp,omitempty"`
}

// body shape is fixed by the receiving chat service: content must be
// an explicit null next to the embed list.
type body struct {
	Content any     `json:"content"`
	Embeds  []Embed `json:"embeds"`
}

type Client struct {
	HTTP *http.Client
}

func NewClient() *Client {
	return &Client{HTTP: &http.Client{Timeout: 10 * time.Second}}
}

// Submit performs the single POST. Any non-2xx status is a failure.
func (c *Client) Submit(ctx context.Context, url string, embeds []Embed) error {
	if url == "" {
		return ErrNoURL
	}
	b, err := json.Marshal(body{Content: nil, Embeds: embeds})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("webhook: status %d", res.StatusCode)
	}
	return nil
}
