// kanoonsathi/utils/http/httputils.go
package httputils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// StatusError is a non-2xx reply from a backend. Message carries the backend's
// own {"error": ...} text when the body had one.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("bad status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("bad status: %d", e.Status)
}

// DoJSON issues exactly one request: marshal body (nil for none), attach
// headers, decode a 2xx reply into resp. Non-2xx becomes *StatusError; anything
// else that goes wrong is a transport error from the underlying client.
func DoJSON(ctx context.Context, client *http.Client, method, url string, headers map[string]string, body interface{}, resp interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(jsonBody)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if client == nil {
		client = http.DefaultClient
	}
	r, err := client.Do(req)
	if err != nil {
		return err
	}
	defer r.Body.Close()
	if r.StatusCode < 200 || r.StatusCode > 299 {
		return &StatusError{Status: r.StatusCode, Message: errorMessage(r.Body)}
	}
	if resp != nil {
		return json.NewDecoder(r.Body).Decode(resp)
	}
	return nil
}

func PostJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, body interface{}, resp interface{}) error {
	return DoJSON(ctx, client, http.MethodPost, url, headers, body, resp)
}

func GetJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, resp interface{}) error {
	return DoJSON(ctx, client, http.MethodGet, url, headers, nil, resp)
}

func errorMessage(body io.Reader) string {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		return ""
	}
	return envelope.Error
}
