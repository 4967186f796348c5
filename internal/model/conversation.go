package model

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ConversationMessage is one turn of the client-supplied chat history. It is
// never mutated after sanitization except for remapping non-standard roles
// to system.
type ConversationMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
