// Package controller mediates between user input, the transcript and the chat endpoint.
package controller

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/cupogo/andvari/utils/zlog"

	"github.com/liut/chatbot/pkg/models/chat"
	"github.com/liut/chatbot/pkg/services/chatapi"
)

// fixed texts shown as assistant messages
const (
	Greeting         = "Welcome! I'm your AI chat assistant. Ask a question or describe your task, and I'll respond with a short, clear explanation."
	NoReplyText      = "I could not generate a reply this time."
	ServerFailText   = "The server could not process your request."
	NetworkErrorText = "Network error: please check that the chat server is running and try again."
)

func logger() zlog.Logger {
	return zlog.Get()
}

// View is a front-end that can show the transcript and the input affordance.
type View interface {
	// Render appends one row and scrolls to it.
	Render(role chat.Role, content string)
	ClearInput()
	// SetSending disables submission while true.
	SetSending(sending bool)
}

// Sender talks to the chat endpoint, see chatapi.Client.
type Sender interface {
	Chat(ctx context.Context, req chat.Request) (*chat.Response, error)
}

// Option configures a Controller
type Option func(*Controller)

// WithGreeting replaces the default greeting, empty is ignored
func WithGreeting(s string) Option {
	return func(c *Controller) {
		if len(s) > 0 {
			c.greeting = s
		}
	}
}

// WithTimeout bounds each exchange, 0 waits forever
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.timeout = d
	}
}

// Controller owns the history and the sending flag of one chat session.
type Controller struct {
	view     View
	sender   Sender
	greeting string
	timeout  time.Duration

	mu      sync.Mutex
	sending bool
	history chat.Messages
}

// New ...
func New(view View, sender Sender, opts ...Option) *Controller {
	c := &Controller{
		view:     view,
		sender:   sender,
		greeting: Greeting,
		history:  chat.Messages{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Greet renders the greeting so the transcript is never empty.
func (c *Controller) Greet() {
	c.view.Render(chat.RoleAssistant, c.greeting)
}

// History returns a copy of the current history
func (c *Controller) History() chat.Messages {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.Clone()
}

// Sending reports whether a request is outstanding
func (c *Controller) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

// Submit sends raw input and blocks until its reply is rendered.
// It is a no-op returning false for blank input or while another request is outstanding.
func (c *Controller) Submit(ctx context.Context, raw string) bool {
	message := strings.TrimSpace(raw)
	if len(message) == 0 {
		return false
	}

	c.mu.Lock()
	if c.sending {
		c.mu.Unlock()
		logger().Debugw("submit ignored, request outstanding")
		return false
	}
	c.sending = true
	history := c.history.Clone()
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.sending = false
		c.mu.Unlock()
		c.view.SetSending(false)
	}()

	c.view.ClearInput()
	c.view.Render(chat.RoleUser, message)
	c.view.SetSending(true)

	c.view.Render(chat.RoleAssistant, c.exchange(ctx, message, history))
	return true
}

// exchange performs the remote call and returns the text to show as assistant.
func (c *Controller) exchange(ctx context.Context, message string, history chat.Messages) string {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	res, err := c.sender.Chat(ctx, chat.Request{Message: message, History: history})
	if err != nil {
		var se *chatapi.StatusError
		if errors.As(err, &se) {
			logger().Infow("chat refused", "status", se.Code, "msg", se.Message)
			if len(se.Message) > 0 {
				return se.Message
			}
			return ServerFailText
		}
		logger().Infow("chat fail", "err", err)
		return NetworkErrorText
	}

	if res == nil {
		res = new(chat.Response)
	}

	// the server owns the canonical history from now on
	c.mu.Lock()
	c.history = res.History.Clone()
	c.mu.Unlock()
	logger().Debugw("chat done", "history", len(res.History), "reply", len(res.Reply))

	if len(res.Reply) == 0 {
		return NoReplyText
	}
	return res.Reply
}
