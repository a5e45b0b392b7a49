// Package history holds the ordered message history of a chat exchange.
// Conversations live in memory only and are discarded with their session.
package history

import (
	"errors"
	"fmt"
)

// Role identifies the author of a message
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat message. It is passed by value and never mutated.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SystemMessage creates a system message
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage creates a user message
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage creates an assistant message
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// ErrSystemMessage is returned when a system message is appended mid-conversation
var ErrSystemMessage = errors.New("system message must be the first message")

// Conversation is an ordered sequence of messages.
// The first message, if present, is the only system message.
type Conversation struct {
	messages []Message
}

// NewConversation creates a conversation seeded with a system prompt.
// An empty prompt yields a conversation without a system message.
func NewConversation(systemPrompt string) *Conversation {
	c := &Conversation{}
	if systemPrompt != "" {
		c.messages = append(c.messages, SystemMessage(systemPrompt))
	}
	return c
}

// Append adds a user or assistant message to the end of the conversation
func (c *Conversation) Append(msg Message) error {
	switch msg.Role {
	case RoleUser, RoleAssistant:
		c.messages = append(c.messages, msg)
		return nil
	case RoleSystem:
		return ErrSystemMessage
	default:
		return fmt.Errorf("unknown message role %q", msg.Role)
	}
}

// Messages returns a copy of the messages in insertion order
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages
func (c *Conversation) Len() int {
	return len(c.messages)
}

// SystemPrompt returns the seeding system prompt, if any
func (c *Conversation) SystemPrompt() string {
	if len(c.messages) > 0 && c.messages[0].Role == RoleSystem {
		return c.messages[0].Content
	}
	return ""
}

// Reset drops every message except the system prompt
func (c *Conversation) Reset() {
	if len(c.messages) > 0 && c.messages[0].Role == RoleSystem {
		c.messages = c.messages[:1:1]
		return
	}
	c.messages = nil
}

// Turns returns the number of user messages
func (c *Conversation) Turns() int {
	n := 0
	for _, m := range c.messages {
		if m.Role == RoleUser {
			n++
		}
	}
	return n
}
