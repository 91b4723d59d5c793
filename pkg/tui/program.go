package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/liut/chatbot/pkg/controller"
	"github.com/liut/chatbot/pkg/models/chat"
)

// programView forwards controller calls into the running program
type programView struct {
	p *tea.Program
}

var _ controller.View = (*programView)(nil)

func (v *programView) Render(role chat.Role, content string) {
	v.p.Send(renderMsg{role: role, content: content})
}

func (v *programView) ClearInput() {
	v.p.Send(clearInputMsg{})
}

func (v *programView) SetSending(sending bool) {
	v.p.Send(sendingMsg(sending))
}

// Run starts the full screen chat until the user quits or ctx is done
func Run(ctx context.Context, title string, sender controller.Sender, opts ...controller.Option) error {
	pv := new(programView)
	ctrl := controller.New(pv, sender, opts...)
	m := New(ctx, ctrl, title)
	pv.p = tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	_, err := pv.p.Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
