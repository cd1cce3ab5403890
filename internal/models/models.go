package models

// Role tags one side of the conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single chat transcript entry.
type Turn struct {
	Role    Role
	Content string
}
