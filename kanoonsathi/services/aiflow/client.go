// kanoonsathi/services/aiflow/client.go
package aiflow

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"kanoonsathi/kanoonsathi/config"
	httputils "kanoonsathi/kanoonsathi/utils/http"
	"kanoonsathi/kanoonsathi/utils/logging"
)

// Client talks to the AI flow backend. All three endpoints authenticate with
// the same shared-secret Authorization value; there is no per-user credential
// on this surface.
type Client struct {
	baseURL string
	secret  string
	http    *http.Client
}

func NewClient(cfg config.Config) *Client {
	return &Client{baseURL: cfg.AIFlowBase, secret: cfg.AIFlowSecret, http: http.DefaultClient}
}

type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ConversationSummary struct {
	ChatroomID  string       `json:"chatroomId"`
	LastMessage HistoryEntry `json:"lastMessage"`
}

// flowResult absorbs both observed shapes of the autonomousAIFlow result
// field: a bare string in the current backend, an array of {text} objects in
// the older one. Anything else is rejected here so ambiguous JSON never
// reaches the conversation state.
type flowResult struct {
	Text string
}

func (r *flowResult) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.Text = s
		return nil
	}
	var arr []struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &arr); err != nil {
		return errors.New("unrecognized result shape")
	}
	if len(arr) == 0 {
		return errors.New("empty result array")
	}
	r.Text = arr[0].Text
	return nil
}

func (c *Client) headers() map[string]string {
	return map[string]string{"Authorization": c.secret}
}

// SendMessage runs one turn of the assistant flow. chatroomID and userID are
// optional on the wire; userID is present only for authenticated users.
func (c *Client) SendMessage(ctx context.Context, text, chatroomID, userID string) (string, error) {
	defer logging.LogDuration(ctx, "aiflow_send_message")()

	payload := map[string]interface{}{"text": text}
	if chatroomID != "" {
		payload["chatroomId"] = chatroomID
	}
	if userID != "" {
		payload["userId"] = userID
	}
	var resp struct {
		Result flowResult `json:"result"`
	}
	err := httputils.PostJSON(ctx, c.http, c.baseURL+"/autonomousAIFlow", c.headers(),
		map[string]interface{}{"data": payload}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Result.Text, nil
}

// ConversationList fetches the guest conversation summaries. Entries carry a
// chatroom id and the last message only; history is fetched separately.
func (c *Client) ConversationList(ctx context.Context) ([]ConversationSummary, error) {
	defer logging.LogDuration(ctx, "aiflow_conversation_list")()

	var resp struct {
		Result []ConversationSummary `json:"result"`
	}
	err := httputils.PostJSON(ctx, c.http, c.baseURL+"/getConversationList", c.headers(), nil, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Result, nil
}

// ChatHistory fetches a guest chatroom's full history as a flat role/content
// list. The backend supplies no message ids and no timestamps.
func (c *Client) ChatHistory(ctx context.Context, chatroomID string) ([]HistoryEntry, error) {
	defer logging.LogDuration(ctx, "aiflow_chat_history")()

	var resp struct {
		Result []HistoryEntry `json:"result"`
	}
	err := httputils.PostJSON(ctx, c.http, c.baseURL+"/getChatHistory", c.headers(),
		map[string]interface{}{"data": map[string]string{"chatroomId": chatroomID}}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Result, nil
}
