package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/marcsv/go-binder/binder"

	"github.com/liut/chatbot/pkg/models/chat"
)

var errMessageRequired = errors.New("Message is required.")

func (s *server) postChat(w http.ResponseWriter, r *http.Request) {
	var param chat.Request
	// the body is JSON whatever the client declares
	if ct := r.Header.Get("Content-Type"); !strings.Contains(ct, "json") {
		r.Header.Set("Content-Type", "application/json")
	}
	if err := binder.BindBody(r, &param); err != nil {
		// an unreadable body is an empty request
		logger().Infow("bind chat fail", "err", err)
		param = chat.Request{}
	}
	message := strings.TrimSpace(param.Message)
	if len(message) == 0 {
		apiFail(w, r, http.StatusBadRequest, errMessageRequired)
		return
	}

	history := sanitizeHistory(param.History, s.cfg.HistoryLimit)
	logger().Infow("chat", "msgs", len(history), "prompt", message, "ip", r.RemoteAddr)

	answer, err := s.replier.Reply(r.Context(), message, history)
	if err != nil {
		logger().Infow("reply fail", "err", err)
		apiFail(w, r, http.StatusBadGateway, err)
		return
	}

	history = append(history,
		chat.Message{Role: chat.RoleUser, Content: message},
		chat.Message{Role: chat.RoleAssistant, Content: answer},
	)
	render.JSON(w, r, &chat.Response{Reply: answer, History: history})
}

// sanitizeHistory keeps the last limit entries, then drops unknown roles and blank contents
func sanitizeHistory(in chat.Messages, limit int) chat.Messages {
	out := make(chat.Messages, 0, limit+2)
	for _, m := range in.Recently(limit) {
		content := strings.TrimSpace(m.Content)
		if !m.Role.Valid() || len(content) == 0 {
			continue
		}
		out = append(out, chat.Message{Role: m.Role, Content: content})
	}
	return out
}
