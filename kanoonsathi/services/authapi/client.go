// kanoonsathi/services/authapi/client.go
package authapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"kanoonsathi/kanoonsathi/config"
	"kanoonsathi/kanoonsathi/types"
	httputils "kanoonsathi/kanoonsathi/utils/http"
	"kanoonsathi/kanoonsathi/utils/logging"
)

// Client is a stateless façade over the auth/persistence backend. It holds no
// session: every authenticated call takes the token explicitly, which keeps
// the client swappable for fakes in tests.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(cfg config.Config) *Client {
	return &Client{baseURL: cfg.AuthAPIBase, http: http.DefaultClient}
}

type Credentials struct {
	User  types.User `json:"user"`
	Token string     `json:"token"`
}

type ChatMessage struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Sender    string    `json:"sender"` // user | model | system
	CreatedAt time.Time `json:"created_at"`
}

type Chat struct {
	ID          string        `json:"id"`
	Title       *string       `json:"title"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Messages    []ChatMessage `json:"messages,omitempty"`
	LastMessage *ChatMessage  `json:"last_message,omitempty"`
}

type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// ProfileUpdate carries only the fields that actually changed; nil means
// "leave as is" on the backend.
type ProfileUpdate struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func (c *Client) Login(ctx context.Context, username, password string) (*Credentials, error) {
	defer logging.LogDuration(ctx, "authapi_login")()

	var resp struct {
		Data Credentials `json:"data"`
	}
	err := httputils.PostJSON(ctx, c.http, c.baseURL+"/api/auth/login", nil,
		map[string]string{"username": username, "password": password}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) Register(ctx context.Context, username, password, email string) (*Credentials, error) {
	defer logging.LogDuration(ctx, "authapi_register")()

	body := map[string]string{"username": username, "password": password}
	if email != "" {
		body["email"] = email
	}
	var resp struct {
		Data Credentials `json:"data"`
	}
	err := httputils.PostJSON(ctx, c.http, c.baseURL+"/api/auth/register", nil, body, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) UpdateProfile(ctx context.Context, token string, update ProfileUpdate) (*types.User, error) {
	defer logging.LogDuration(ctx, "authapi_update_profile")()

	var resp struct {
		Data types.User `json:"data"`
	}
	err := httputils.DoJSON(ctx, c.http, http.MethodPut, c.baseURL+"/api/auth/profile",
		bearer(token), update, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// Chats lists the user's chats, newest first, paginated by the backend.
func (c *Client) Chats(ctx context.Context, token string, limit, offset int) ([]Chat, *Pagination, error) {
	defer logging.LogDuration(ctx, "authapi_chats")()

	url := fmt.Sprintf("%s/api/chats?limit=%d&offset=%d", c.baseURL, limit, offset)
	var resp struct {
		Data       []Chat      `json:"data"`
		Pagination *Pagination `json:"pagination"`
	}
	if err := httputils.GetJSON(ctx, c.http, url, bearer(token), &resp); err != nil {
		return nil, nil, err
	}
	return resp.Data, resp.Pagination, nil
}

func (c *Client) CreateChat(ctx context.Context, token, title string) (*Chat, error) {
	defer logging.LogDuration(ctx, "authapi_create_chat")()

	body := map[string]string{}
	if title != "" {
		body["title"] = title
	}
	var resp struct {
		Data Chat `json:"data"`
	}
	err := httputils.PostJSON(ctx, c.http, c.baseURL+"/api/chats", bearer(token), body, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// Chat fetches one chat with its messages embedded.
func (c *Client) Chat(ctx context.Context, token, chatID string) (*Chat, error) {
	defer logging.LogDuration(ctx, "authapi_chat")()

	var resp struct {
		Data Chat `json:"data"`
	}
	err := httputils.GetJSON(ctx, c.http, c.baseURL+"/api/chats/"+chatID, bearer(token), &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) RenameChat(ctx context.Context, token, chatID, title string) (*Chat, error) {
	defer logging.LogDuration(ctx, "authapi_rename_chat")()

	var resp struct {
		Data Chat `json:"data"`
	}
	err := httputils.DoJSON(ctx, c.http, http.MethodPut, c.baseURL+"/api/chats/"+chatID,
		bearer(token), map[string]string{"title": title}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) DeleteChat(ctx context.Context, token, chatID string) error {
	defer logging.LogDuration(ctx, "authapi_delete_chat")()

	return httputils.DoJSON(ctx, c.http, http.MethodDelete, c.baseURL+"/api/chats/"+chatID,
		bearer(token), nil, nil)
}

func (c *Client) Messages(ctx context.Context, token, chatID string, limit, offset int) ([]ChatMessage, error) {
	defer logging.LogDuration(ctx, "authapi_messages")()

	url := fmt.Sprintf("%s/api/chats/%s/messages?limit=%d&offset=%d", c.baseURL, chatID, limit, offset)
	var resp struct {
		Data []ChatMessage `json:"data"`
	}
	if err := httputils.GetJSON(ctx, c.http, url, bearer(token), &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// AddMessage persists one message to a chat's history.
func (c *Client) AddMessage(ctx context.Context, token, chatID, content, sender string) (*ChatMessage, error) {
	defer logging.LogDuration(ctx, "authapi_add_message")()

	var resp struct {
		Data ChatMessage `json:"data"`
	}
	err := httputils.PostJSON(ctx, c.http, c.baseURL+"/api/chats/"+chatID+"/messages",
		bearer(token), map[string]string{"content": content, "sender": sender}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}
