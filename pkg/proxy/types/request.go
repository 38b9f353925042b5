package types

// Message is one entry of an OpenAI-style conversation history.
type Message struct {
	// Role is the message author: "system", "user", or "assistant".
	Role string `json:"role"`

	// Content is the message text.
	Content string `json:"content"`
}

// Chat completion payload fields the gateway reads or fills in. Every other
// field of the payload is forwarded untouched.
const (
	FieldModel    = "model"
	FieldMessages = "messages"
	FieldStream   = "stream"
)

// RoleUser is the role of caller-authored messages.
const RoleUser = "user"

// UserMessages returns a conversation holding a single user message.
func UserMessages(content string) []Message {
	return []Message{{Role: RoleUser, Content: content}}
}
