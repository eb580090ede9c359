package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/hardiksingla/insightboard/internal/config"
	"github.com/microcosm-cc/bluemonday"
)

const (
	defaultAPIBaseURL   = "https://gmail.googleapis.com/gmail/v1"
	defaultTokenBaseURL = "https://oauth2.googleapis.com/token"
)

// ErrAuthRequired signals an invalid or expired refresh token. The operator
// must re-run the OAuth authorization flow; the service cannot self-heal.
var ErrAuthRequired = errors.New("gmail: authentication required, refresh token invalid")

// Message is the extracted content of one mail.
type Message struct {
	Id      string
	Subject string
	From    string
	Body    string
}

// Client is an explicitly constructed Gmail API client using the OAuth2
// refresh-token flow. Build it once at startup and inject it; there is no
// package-level state.
type Client struct {
	creds        config.Gmail
	httpClient   *http.Client
	apiBaseURL   string
	tokenBaseURL string
	stripper     *bluemonday.Policy

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithBaseURLs(api, token string) Option {
	return func(c *Client) {
		c.apiBaseURL = api
		c.tokenBaseURL = token
	}
}

// New validates the credential set and returns a client. Construction fails
// when any credential is missing so misconfiguration surfaces at startup.
func New(creds config.Gmail, opts ...Option) (*Client, error) {
	if !creds.Configured() {
		return nil, errors.New("gmail: incomplete credentials (client id/secret, redirect uri and refresh token are all required)")
	}
	c := &Client{
		creds:        creds,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		apiBaseURL:   defaultAPIBaseURL,
		tokenBaseURL: defaultTokenBaseURL,
		stripper:     bluemonday.StrictPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Profile returns the account's current history id.
func (c *Client) Profile(ctx context.Context, user string) (string, error) {
	var profile struct {
		HistoryId json.Number `json:"historyId"`
	}
	if err := c.get(ctx, fmt.Sprintf("/users/%s/profile", url.PathEscape(user)), &profile); err != nil {
		return "", err
	}
	return profile.HistoryId.String(), nil
}

type historyResponse struct {
	History []struct {
		MessagesAdded []struct {
			Message struct {
				Id string `json:"id"`
			} `json:"message"`
		} `json:"messagesAdded"`
	} `json:"history"`
}

// HistoryAdded lists ids of messages added since startHistoryId.
func (c *Client) HistoryAdded(ctx context.Context, user, startHistoryId string) ([]string, error) {
	path := fmt.Sprintf("/users/%s/history?startHistoryId=%s&historyTypes=messageAdded",
		url.PathEscape(user), url.QueryEscape(startHistoryId))

	var body historyResponse
	if err := c.get(ctx, path, &body); err != nil {
		return nil, err
	}

	var ids []string
	for _, record := range body.History {
		for _, added := range record.MessagesAdded {
			if added.Message.Id != "" {
				ids = append(ids, added.Message.Id)
			}
		}
	}
	return ids, nil
}

type messagePart struct {
	MimeType string `json:"mimeType"`
	Headers  []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	} `json:"headers"`
	Body struct {
		Data string `json:"data"`
	} `json:"body"`
	Parts []messagePart `json:"parts"`
}

// Message fetches one mail and extracts subject, sender and a best-effort
// plain-text body.
func (c *Client) Message(ctx context.Context, user, id string) (Message, error) {
	var body struct {
		Payload messagePart `json:"payload"`
	}
	path := fmt.Sprintf("/users/%s/messages/%s?format=full", url.PathEscape(user), url.PathEscape(id))
	if err := c.get(ctx, path, &body); err != nil {
		return Message{}, err
	}

	msg := Message{Id: id}
	for _, h := range body.Payload.Headers {
		switch h.Name {
		case "Subject":
			msg.Subject = h.Value
		case "From":
			msg.From = h.Value
		}
	}
	msg.Body = c.messageText(&body.Payload)
	return msg, nil
}

// messageText walks the part tree preferring text/plain; text/html bodies
// are decoded and stripped of tags.
func (c *Client) messageText(payload *messagePart) string {
	if payload == nil {
		return ""
	}
	if len(payload.Parts) > 0 {
		for i := range payload.Parts {
			part := &payload.Parts[i]
			if part.MimeType == "text/plain" && part.Body.Data != "" {
				return decodeBase64Url(part.Body.Data)
			}
			if part.MimeType == "text/html" && part.Body.Data != "" {
				return c.stripper.Sanitize(decodeBase64Url(part.Body.Data))
			}
			if len(part.Parts) > 0 {
				if nested := c.messageText(part); nested != "" {
					return nested
				}
			}
		}
		return ""
	}
	if payload.Body.Data == "" {
		return ""
	}
	text := decodeBase64Url(payload.Body.Data)
	if payload.MimeType == "text/html" {
		return c.stripper.Sanitize(text)
	}
	return text
}

func decodeBase64Url(data string) string {
	decoded, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(strings.TrimRight(data, "="))
	if err != nil {
		return ""
	}
	return string(decoded)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gmail request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrAuthRequired
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gmail request returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ensureToken exchanges the refresh token for an access token, caching it
// until shortly before expiry.
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("client_id", c.creds.ClientId)
	form.Set("client_secret", c.creds.ClientSecret)
	form.Set("refresh_token", c.creds.RefreshToken)
	form.Set("grant_type", "refresh_token")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenBaseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token refresh failed: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
		Error       string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if body.Error == "invalid_grant" {
		return "", ErrAuthRequired
	}
	if resp.StatusCode != http.StatusOK || body.AccessToken == "" {
		return "", fmt.Errorf("token refresh returned status %d", resp.StatusCode)
	}

	c.accessToken = body.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(body.ExpiresIn-60) * time.Second)
	return c.accessToken, nil
}
