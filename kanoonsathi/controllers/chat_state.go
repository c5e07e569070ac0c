// kanoonsathi/controllers/chat_state.go
//
// Pure reducers over the conversation list. Every update builds a new list
// rather than mutating in place, so two racing updates can never observe a
// half-applied one.
package controllers

import (
	"kanoonsathi/kanoonsathi/types"
	"kanoonsathi/kanoonsathi/utils/markdown"
)

func findConversation(list []types.Conversation, id string) *types.Conversation {
	for i := range list {
		if list[i].ID == id {
			return &list[i]
		}
	}
	return nil
}

func replaceConversation(list []types.Conversation, id string, fn func(types.Conversation) types.Conversation) []types.Conversation {
	next := make([]types.Conversation, len(list))
	for i, conv := range list {
		if conv.ID == id {
			conv = fn(conv)
		}
		next[i] = conv
	}
	return next
}

// appendMessage adds msg to the end of the conversation's timeline and rolls
// the preview fields forward. Messages are never reordered or dropped here.
func appendMessage(list []types.Conversation, id string, msg types.Message) []types.Conversation {
	return replaceConversation(list, id, func(conv types.Conversation) types.Conversation {
		messages := make([]types.Message, 0, len(conv.Messages)+1)
		messages = append(messages, conv.Messages...)
		messages = append(messages, msg)
		conv.Messages = messages
		conv.LastMessageAt = msg.Timestamp
		conv.LastMessagePreview = markdown.Preview(msg.Content)
		return conv
	})
}

// setMessages replaces a conversation's timeline wholesale (hydration).
func setMessages(list []types.Conversation, id string, messages []types.Message) []types.Conversation {
	return replaceConversation(list, id, func(conv types.Conversation) types.Conversation {
		conv.Messages = messages
		if n := len(messages); n > 0 {
			last := messages[n-1]
			if !last.Timestamp.IsZero() {
				conv.LastMessageAt = last.Timestamp
			}
			conv.LastMessagePreview = markdown.Preview(last.Content)
		}
		return conv
	})
}

func setTitle(list []types.Conversation, id, title string) []types.Conversation {
	return replaceConversation(list, id, func(conv types.Conversation) types.Conversation {
		conv.Title = title
		return conv
	})
}

func prependConversation(list []types.Conversation, conv types.Conversation) []types.Conversation {
	next := make([]types.Conversation, 0, len(list)+1)
	next = append(next, conv)
	next = append(next, list...)
	return next
}

func removeConversation(list []types.Conversation, id string) []types.Conversation {
	next := make([]types.Conversation, 0, len(list))
	for _, conv := range list {
		if conv.ID != id {
			next = append(next, conv)
		}
	}
	return next
}
