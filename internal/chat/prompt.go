// Package chat answers questions about a project's alerts through an
// OpenAI-compatible chat completion endpoint.
package chat

import (
	"errors"
	"strings"
)

// Validation errors for incoming conversations.
var (
	ErrNoMessages    = errors.New("chat: messages array is empty")
	ErrNoUserMessage = errors.New("chat: no user message found in the chat history")
	ErrEmptyQuestion = errors.New("chat: user message content is empty")
)

// Message is one turn of the conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const systemInstruction = "You are an AI assistant helping a user analyze their application anomalies. " +
	"Use the provided context containing relevant parsed system ALERTS to answer the user's question. " +
	"Provide your answer in Markdown format. Be concise and precise."

// BuildPrompt assembles the flat completion prompt: system instruction,
// optional retrieved context, conversation history minus the final
// turn, then the user's question. The question is the content of the
// last message with the user role.
func BuildPrompt(contextBlock string, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", ErrNoMessages
	}

	query := ""
	found := false
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			query = strings.TrimSpace(messages[i].Content)
			found = true
			break
		}
	}
	if !found {
		return "", ErrNoUserMessage
	}
	if query == "" {
		return "", ErrEmptyQuestion
	}

	parts := []string{"System: " + systemInstruction + "\n"}
	if contextBlock != "" {
		parts = append(parts, "Context (Retrieved Logs):\n"+contextBlock+"\n")
	}

	parts = append(parts, "Conversation history:")
	for _, m := range messages[:len(messages)-1] {
		role := m.Role
		if role == "" {
			role = "user"
		}
		parts = append(parts, capitalize(role)+": "+m.Content)
	}

	parts = append(parts, "User Question: "+query)
	parts = append(parts, "Assistant:")

	return strings.Join(parts, "\n"), nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
