package chat

// Role of a message author
type Role string

// roles
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is a role accepted in history.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Label is the short tag shown beside a transcript row.
func (r Role) Label() string {
	if r == RoleUser {
		return "You"
	}
	return "AI"
}

// Message is one conversation turn, never changed after creation.
type Message struct {
	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// Messages is an ordered history, oldest first.
type Messages []Message

// Clone returns a copy that never shares the backing array, nil becomes empty.
func (z Messages) Clone() Messages {
	out := make(Messages, len(z))
	copy(out, z)
	return out
}

// Recently returns at most the last n messages.
func (z Messages) Recently(n int) Messages {
	if n >= 0 && len(z) > n {
		return z[len(z)-n:]
	}
	return z
}
