// kanoonsathi/controllers/chat.go
package controllers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kanoonsathi/kanoonsathi/services/aiflow"
	"kanoonsathi/kanoonsathi/services/authapi"
	"kanoonsathi/kanoonsathi/session"
	"kanoonsathi/kanoonsathi/types"
	"kanoonsathi/kanoonsathi/utils/logging"
	"kanoonsathi/kanoonsathi/utils/markdown"
)

const (
	tempIDPrefix = "temp-"
	histIDPrefix = "hist-"
	defaultTitle = "New Chat"
	chatPageSize = 50

	aiErrorNotice = "Sorry, there was an error connecting to the AI. Please try again."
)

var (
	ErrUnknownConversation = errors.New("unknown conversation")
	ErrSendPending         = errors.New("a reply is already pending for this conversation")
)

// ChatBackend is the slice of the auth backend's chat surface the controller
// uses.
type ChatBackend interface {
	Chats(ctx context.Context, token string, limit, offset int) ([]authapi.Chat, *authapi.Pagination, error)
	Chat(ctx context.Context, token, chatID string) (*authapi.Chat, error)
	CreateChat(ctx context.Context, token, title string) (*authapi.Chat, error)
	RenameChat(ctx context.Context, token, chatID, title string) (*authapi.Chat, error)
	DeleteChat(ctx context.Context, token, chatID string) error
	AddMessage(ctx context.Context, token, chatID, content, sender string) (*authapi.ChatMessage, error)
}

// FlowBackend is the slice of the AI backend the controller uses.
type FlowBackend interface {
	SendMessage(ctx context.Context, text, chatroomID, userID string) (string, error)
	ConversationList(ctx context.Context) ([]aiflow.ConversationSummary, error)
	ChatHistory(ctx context.Context, chatroomID string) ([]aiflow.HistoryEntry, error)
}

// ChatController owns the reconciled conversation list. Server chats, guest
// chatrooms and local optimistic state all land in the same list; updates are
// addressed by conversation id, so a slow fetch finishing after the user has
// switched away still lands on the conversation it was meant for.
type ChatController struct {
	backend ChatBackend
	flow    FlowBackend
	session *session.Store
	now     func() time.Time
	newID   func() string

	mu            sync.Mutex
	conversations []types.Conversation
	activeID      string
	hydrated      map[string]bool
	sending       map[string]bool
}

func NewChatController(backend ChatBackend, flow FlowBackend, sess *session.Store) *ChatController {
	return &ChatController{
		backend:  backend,
		flow:     flow,
		session:  sess,
		now:      time.Now,
		newID:    uuid.NewString,
		hydrated: make(map[string]bool),
		sending:  make(map[string]bool),
	}
}

// Bootstrap loads the conversation list for the current auth state: the
// paginated chat list when logged in, the guest chatroom list otherwise.
// Guest entries start with empty timelines; history is hydrated on selection.
// The first conversation becomes active unless one already is.
func (c *ChatController) Bootstrap(ctx context.Context) error {
	defer logging.LogDuration(ctx, "chat_bootstrap")()

	var conversations []types.Conversation
	if c.session.Authenticated() {
		chats, _, err := c.backend.Chats(ctx, c.session.Token(), chatPageSize, 0)
		if err != nil {
			return err
		}
		conversations = make([]types.Conversation, 0, len(chats))
		for _, chat := range chats {
			conversations = append(conversations, conversationFromChat(chat))
		}
	} else {
		list, err := c.flow.ConversationList(ctx)
		if err != nil {
			return err
		}
		conversations = make([]types.Conversation, 0, len(list))
		for _, item := range list {
			conversations = append(conversations, conversationFromSummary(item))
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.conversations = conversations
	if c.activeID == "" && len(conversations) > 0 {
		c.activeID = conversations[0].ID
	}
	return nil
}

// Select makes a conversation active and hydrates its timeline on first
// selection. Re-selecting an already hydrated conversation does not refetch.
func (c *ChatController) Select(ctx context.Context, id string) error {
	c.mu.Lock()
	if findConversation(c.conversations, id) == nil {
		c.mu.Unlock()
		return ErrUnknownConversation
	}
	c.activeID = id
	// temp conversations exist only locally; nothing to hydrate
	skip := c.hydrated[id] || strings.HasPrefix(id, tempIDPrefix)
	if !skip {
		c.hydrated[id] = true
	}
	c.mu.Unlock()
	if skip {
		return nil
	}

	messages, err := c.fetchMessages(ctx, id)
	if err != nil {
		c.mu.Lock()
		delete(c.hydrated, id)
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.conversations = setMessages(c.conversations, id, messages)
	c.mu.Unlock()
	return nil
}

func (c *ChatController) fetchMessages(ctx context.Context, id string) ([]types.Message, error) {
	defer logging.LogDuration(ctx, "chat_hydrate")()

	if c.session.Authenticated() {
		chat, err := c.backend.Chat(ctx, c.session.Token(), id)
		if err != nil {
			return nil, err
		}
		return messagesFromChat(chat.Messages), nil
	}
	history, err := c.flow.ChatHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	// the guest backend has no message ids; synthesize stable ones
	messages := make([]types.Message, 0, len(history))
	for i, entry := range history {
		messages = append(messages, types.Message{
			ID:      fmt.Sprintf("%s%d", histIDPrefix, i),
			Content: entry.Content,
			Author:  authorFromRole(entry.Role),
		})
	}
	return messages, nil
}

// NewChat starts a conversation. Logged in, the backend issues the id before
// anything is shown; as guest the chat stays local under a temp- id until the
// first message reaches the AI backend.
func (c *ChatController) NewChat(ctx context.Context) (string, error) {
	if c.session.Authenticated() {
		chat, err := c.backend.CreateChat(ctx, c.session.Token(), "")
		if err != nil {
			return "", err
		}
		conv := conversationFromChat(*chat)
		if conv.Messages == nil {
			conv.Messages = []types.Message{}
		}
		c.mu.Lock()
		c.conversations = prependConversation(c.conversations, conv)
		c.activeID = conv.ID
		c.hydrated[conv.ID] = true
		c.mu.Unlock()
		return conv.ID, nil
	}

	id := tempIDPrefix + c.newID()
	conv := types.Conversation{
		ID:            id,
		Title:         defaultTitle,
		Messages:      []types.Message{},
		LastMessageAt: c.now(),
	}
	c.mu.Lock()
	c.conversations = prependConversation(c.conversations, conv)
	c.activeID = id
	c.mu.Unlock()
	return id, nil
}

// Send runs one exchange with the assistant. The user message is appended
// before the network round trip and is never rolled back; an assistant
// failure shows up as an inline notice instead. One send at a time per
// conversation: a second send while one is pending is rejected.
func (c *ChatController) Send(ctx context.Context, content string) error {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	c.mu.Lock()
	active := c.activeID
	c.mu.Unlock()
	if active == "" {
		// create first; an authenticated create failure aborts the send
		// before any optimistic state exists
		id, err := c.NewChat(ctx)
		if err != nil {
			return err
		}
		active = id
	}

	c.mu.Lock()
	if c.sending[active] {
		c.mu.Unlock()
		return ErrSendPending
	}
	c.sending[active] = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.sending, active)
		c.mu.Unlock()
	}()

	userMsg := types.Message{
		ID:        c.newID(),
		Content:   content,
		Author:    types.AuthorUser,
		Timestamp: c.now(),
	}
	c.mu.Lock()
	conv := findConversation(c.conversations, active)
	deriveTitle := conv != nil && len(conv.Messages) == 0 &&
		(conv.Title == "" || conv.Title == defaultTitle)
	c.conversations = appendMessage(c.conversations, active, userMsg)
	if deriveTitle {
		c.conversations = setTitle(c.conversations, active, markdown.DeriveTitle(content))
	}
	c.mu.Unlock()

	authenticated := c.session.Authenticated()
	token := c.session.Token()
	userID := ""
	if user := c.session.User(); authenticated && user != nil {
		userID = user.ID
	}
	if authenticated {
		c.persistMessage(ctx, token, active, content, "user")
	}

	reply, err := c.flow.SendMessage(ctx, content, active, userID)
	if err != nil {
		logging.ErrorLogger.Error("assistant call failed",
			zap.String("conversation_id", active), zap.Error(err))
		c.mu.Lock()
		c.conversations = appendMessage(c.conversations, active, types.Message{
			ID:        c.newID(),
			Content:   aiErrorNotice,
			Author:    types.AuthorAssistant,
			Timestamp: c.now(),
		})
		c.mu.Unlock()
		return nil
	}

	aiMsg := types.Message{
		ID:        c.newID(),
		Content:   reply,
		Author:    types.AuthorAssistant,
		Timestamp: c.now(),
	}
	c.mu.Lock()
	c.conversations = appendMessage(c.conversations, active, aiMsg)
	c.mu.Unlock()
	if authenticated {
		c.persistMessage(ctx, token, active, reply, "model")
	}
	return nil
}

// Rename sets a conversation title, through the backend for server chats and
// locally for guest/temp ones.
func (c *ChatController) Rename(ctx context.Context, id, title string) error {
	if strings.TrimSpace(title) == "" {
		return errors.New("Title is required")
	}
	c.mu.Lock()
	exists := findConversation(c.conversations, id) != nil
	c.mu.Unlock()
	if !exists {
		return ErrUnknownConversation
	}

	if c.session.Authenticated() && !strings.HasPrefix(id, tempIDPrefix) {
		chat, err := c.backend.RenameChat(ctx, c.session.Token(), id, title)
		if err != nil {
			return err
		}
		if chat.Title != nil {
			title = *chat.Title
		}
	}
	c.mu.Lock()
	c.conversations = setTitle(c.conversations, id, title)
	c.mu.Unlock()
	return nil
}

// Delete removes a conversation. Deleting the active one activates the first
// remaining conversation, if any.
func (c *ChatController) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	exists := findConversation(c.conversations, id) != nil
	c.mu.Unlock()
	if !exists {
		return ErrUnknownConversation
	}

	if c.session.Authenticated() && !strings.HasPrefix(id, tempIDPrefix) {
		if err := c.backend.DeleteChat(ctx, c.session.Token(), id); err != nil {
			return err
		}
	}
	c.mu.Lock()
	c.conversations = removeConversation(c.conversations, id)
	delete(c.hydrated, id)
	if c.activeID == id {
		c.activeID = ""
		if len(c.conversations) > 0 {
			c.activeID = c.conversations[0].ID
		}
	}
	c.mu.Unlock()
	return nil
}

// Reset drops all local conversation state. Called when the auth identity
// changes, since the two backends do not share conversations.
func (c *ChatController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conversations = nil
	c.activeID = ""
	c.hydrated = make(map[string]bool)
	c.sending = make(map[string]bool)
}

// State snapshots the reconciled view for rendering.
func (c *ChatController) State() types.ChatState {
	c.mu.Lock()
	defer c.mu.Unlock()
	conversations := make([]types.Conversation, len(c.conversations))
	copy(conversations, c.conversations)
	return types.ChatState{
		Conversations: conversations,
		ActiveID:      c.activeID,
		Authenticated: c.session.Authenticated(),
	}
}

// ActiveConversation returns a copy of the active conversation, or nil.
func (c *ChatController) ActiveConversation() *types.Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()
	conv := findConversation(c.conversations, c.activeID)
	if conv == nil {
		return nil
	}
	out := *conv
	return &out
}

// persistMessage mirrors a message into the chat history store. Best effort:
// the exchange already happened, so a persistence failure is only logged.
func (c *ChatController) persistMessage(ctx context.Context, token, chatID, content, sender string) {
	if strings.HasPrefix(chatID, tempIDPrefix) {
		return
	}
	if _, err := c.backend.AddMessage(ctx, token, chatID, content, sender); err != nil {
		logging.AppLogger.Warn("persist message failed",
			zap.String("chat_id", chatID), zap.Error(err))
	}
}

func conversationFromChat(chat authapi.Chat) types.Conversation {
	title := defaultTitle
	if chat.Title != nil && *chat.Title != "" {
		title = *chat.Title
	} else if chat.LastMessage != nil {
		title = markdown.DeriveTitle(chat.LastMessage.Content)
	}
	conv := types.Conversation{
		ID:            chat.ID,
		Title:         title,
		Messages:      messagesFromChat(chat.Messages),
		LastMessageAt: chat.UpdatedAt,
	}
	if chat.LastMessage != nil {
		conv.LastMessagePreview = markdown.Preview(chat.LastMessage.Content)
		if !chat.LastMessage.CreatedAt.IsZero() {
			conv.LastMessageAt = chat.LastMessage.CreatedAt
		}
	}
	return conv
}

func conversationFromSummary(item aiflow.ConversationSummary) types.Conversation {
	title := markdown.DeriveTitle(item.LastMessage.Content)
	if title == "" {
		title = defaultTitle
	}
	return types.Conversation{
		ID:                 item.ChatroomID,
		Title:              title,
		Messages:           []types.Message{},
		LastMessagePreview: markdown.Preview(item.LastMessage.Content),
	}
}

func messagesFromChat(messages []authapi.ChatMessage) []types.Message {
	out := make([]types.Message, 0, len(messages))
	for _, m := range messages {
		out = append(out, types.Message{
			ID:        m.ID,
			Content:   m.Content,
			Author:    authorFromRole(m.Sender),
			Timestamp: m.CreatedAt,
		})
	}
	return out
}

func authorFromRole(role string) string {
	if role == "user" {
		return types.AuthorUser
	}
	return types.AuthorAssistant
}
