// Package chatapi is a client of the POST /api/chat contract.
package chatapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/cupogo/andvari/utils/zlog"
	"github.com/spf13/cast"

	"github.com/liut/chatbot/pkg/models/chat"
)

const (
	maxBodySize = 1 << 20
)

func logger() zlog.Logger {
	return zlog.Get()
}

// Client posts messages to a chat endpoint
type Client struct {
	endpoint string
	hc       *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.hc = hc
		}
	}
}

// WithTimeout limits every request, 0 means no limit. The client in use is
// copied so a client given to WithHTTPClient is left untouched.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.hc
		hc.Timeout = d
		c.hc = &hc
	}
}

// New return a client of endpoint, like http://localhost:5001/api/chat
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		hc: &http.Client{
			Transport: &http.Transport{Proxy: http.ProxyFromEnvironment},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Chat sends one message with history. A non-2xx answer returns *StatusError.
func (c *Client) Chat(ctx context.Context, req chat.Request) (*chat.Response, error) {
	if req.History == nil {
		req.History = chat.Messages{}
	}
	body, err := json.Marshal(&req)
	if err != nil {
		return nil, fmt.Errorf("encode chat request: %w", err)
	}
	hr, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new chat request: %w", err)
	}
	hr.Header.Set("Content-Type", "application/json")
	hr.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(hr)
	if err != nil {
		logger().Infow("post chat fail", "endpoint", c.endpoint, "err", err)
		return nil, fmt.Errorf("post chat: %w", err)
	}
	defer resp.Body.Close()
	logger().Debugw("post chat", "status", resp.StatusCode, "history", len(req.History),
		"elapsed", time.Since(start))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read chat response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Message: errorText(data)}
	}

	res, err := decodeResponse(data)
	if err != nil {
		logger().Infow("decode chat response fail", "size", len(data), "err", err)
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	return res, nil
}

// decodeResponse reads a success body loosely: scalar fields of any JSON type
// are stringified, a body or history of the wrong shape counts as absent.
func decodeResponse(data []byte) (*chat.Response, error) {
	var body any
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, err
	}
	obj, _ := body.(map[string]any)
	res := &chat.Response{Reply: looseText(obj["reply"])}
	if items, ok := obj["history"].([]any); ok {
		res.History = make(chat.Messages, 0, len(items))
		for _, item := range items {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			res.History = append(res.History, chat.Message{
				Role:    chat.Role(looseText(m["role"])),
				Content: looseText(m["content"]),
			})
		}
	}
	return res, nil
}

// errorText picks the error field of a failure body, empty when absent or unusable.
func errorText(data []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	return looseText(payload["error"])
}

// looseText stringifies a decoded JSON scalar. null, false, zero, objects and
// arrays give "".
func looseText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case bool:
		if !x {
			return ""
		}
	case float64:
		if x == 0 || math.IsNaN(x) {
			return ""
		}
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}
