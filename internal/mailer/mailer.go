package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Message is one transactional email. UseLegacyReplyKey switches the reply-to
// field name to the alternate casing some provider deployments still require.
type Message struct {
	From              string
	To                string
	Subject           string
	HTML              string
	Text              string
	ReplyTo           string
	UseLegacyReplyKey bool
}

// Sender is the mail transport seam. Production uses Client; tests inject fakes.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// UnsupportedReplyFieldError signals the provider rejected the reply-to field
// name itself, so a single retry with the alternate key is worth attempting.
type UnsupportedReplyFieldError struct {
	Field string
}

func (e UnsupportedReplyFieldError) Error() string {
	return fmt.Sprintf("transport rejected field %q", e.Field)
}

// IsUnsupportedReplyField reports whether err is the structured capability signal.
func IsUnsupportedReplyField(err error) bool {
	var target UnsupportedReplyFieldError
	return errors.As(err, &target)
}

// TransportError carries the provider-reported failure detail for logging.
type TransportError struct {
	Status  int
	Message string
}

func (e TransportError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("transport returned status %d", e.Status)
	}
	return e.Message
}

// Client posts to a Resend-style HTTP mail API.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type sendResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Message string `json:"message"`
	Name    string `json:"name"`
}

// Send dispatches one email and returns the provider message id.
func (c *Client) Send(ctx context.Context, msg Message) (string, error) {
	replyKey := "reply_to"
	if msg.UseLegacyReplyKey {
		replyKey = "replyTo"
	}

	payload := map[string]any{
		"from":    msg.From,
		"to":      []string{msg.To},
		"subject": msg.Subject,
	}
	if msg.HTML != "" {
		payload["html"] = msg.HTML
	}
	if msg.Text != "" {
		payload["text"] = msg.Text
	}
	if msg.ReplyTo != "" {
		payload[replyKey] = msg.ReplyTo
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var out sendResponse
		if err := json.Unmarshal(raw, &out); err != nil {
			return "", fmt.Errorf("transport returned unparsable response: %w", err)
		}
		return out.ID, nil
	}

	var apiErr errorResponse
	_ = json.Unmarshal(raw, &apiErr)

	// 422 naming the reply-to key means the field name itself was rejected.
	if resp.StatusCode == http.StatusUnprocessableEntity && msg.ReplyTo != "" &&
		strings.Contains(strings.ToLower(apiErr.Message), strings.ToLower(replyKey)) {
		return "", UnsupportedReplyFieldError{Field: replyKey}
	}

	return "", TransportError{Status: resp.StatusCode, Message: apiErr.Message}
}
