// Package console is a line-mode front-end for terminals without full screen support.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/liut/chatbot/pkg/controller"
	"github.com/liut/chatbot/pkg/models/chat"
)

const continuation = `\`

// Console writes the transcript as lines
type Console struct {
	mu  sync.Mutex
	out io.Writer

	user      lipgloss.Style
	assistant lipgloss.Style
	muted     lipgloss.Style
}

var _ controller.View = (*Console)(nil)

// New ...
func New(out io.Writer) *Console {
	r := lipgloss.NewRenderer(out)
	return &Console{
		out:       out,
		user:      r.NewStyle().Foreground(lipgloss.Color("#64B5F6")).Bold(true),
		assistant: r.NewStyle().Foreground(lipgloss.Color("#8BC34A")).Bold(true),
		muted:     r.NewStyle().Faint(true),
	}
}

// Render implements controller.View
func (c *Console) Render(role chat.Role, content string) {
	label := c.assistant
	if role == chat.RoleUser {
		label = c.user
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s: %s\n", label.Render(role.Label()), content)
}

// ClearInput implements controller.View, lines are consumed as read
func (c *Console) ClearInput() {}

// SetSending implements controller.View
func (c *Console) SetSending(sending bool) {
	if !sending {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, c.muted.Render("..."))
}

// Run reads messages from in until EOF, a line ending with \ continues on the next line
func Run(ctx context.Context, in io.Reader, out io.Writer, sender controller.Sender, opts ...controller.Option) error {
	view := New(out)
	ctrl := controller.New(view, sender, opts...)
	ctrl.Greet()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	var lines []string
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}
		line := scanner.Text()
		if strings.HasSuffix(line, continuation) {
			lines = append(lines, strings.TrimSuffix(line, continuation))
			continue
		}
		lines = append(lines, line)
		ctrl.Submit(ctx, strings.Join(lines, "\n"))
		lines = lines[:0]
	}
	if len(lines) > 0 {
		ctrl.Submit(ctx, strings.Join(lines, "\n"))
	}
	return scanner.Err()
}
