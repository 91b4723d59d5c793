// Package reply produces assistant replies for the development chat server.
package reply

import (
	"context"
	"strings"

	"github.com/cupogo/andvari/utils/zlog"

	"github.com/liut/chatbot/pkg/models/chat"
)

func logger() zlog.Logger {
	return zlog.Get()
}

// Replier answers message given the sanitized earlier history
type Replier interface {
	Reply(ctx context.Context, message string, history chat.Messages) (string, error)
}

// rule replies when any keyword is contained in the lowered message, first match wins
type rule struct {
	keywords []string
	text     string
}

var rules = []rule{
	{
		keywords: []string{"hello", "hi", "hey"},
		text:     "Hi! I'm your 2025 AI chatbot. Ask me anything about our domain and I'll walk you through it step by step.",
	},
	{
		keywords: []string{"help", "how do i"},
		text:     "Tell me what you are trying to do, and I'll break it down into a clear, beginner-friendly set of steps.",
	},
	{
		keywords: []string{"project"},
		text:     "This chatbot is designed as a small, domain-aware assistant. It keeps short-term context so it can respond based on your recent questions.",
	},
	{
		keywords: []string{"thanks", "thank you"},
		text:     "You're welcome! If you have more questions, just send your next message.",
	},
}

// GenericReply is the answer of Rules when no keyword matches
const GenericReply = "Here's a concise, beginner-friendly explanation based on what you asked: " +
	"focus on the key idea, understand it with a small example, and then try it yourself. " +
	"If you tell me your exact use-case, I can tailor the answer to your context."

// Rules answers from a keyword table, used when no model is configured
type Rules struct{}

var _ Replier = Rules{}

// Reply implements Replier
func (Rules) Reply(_ context.Context, message string, _ chat.Messages) (string, error) {
	text := strings.ToLower(message)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.text, nil
			}
		}
	}
	return GenericReply, nil
}
