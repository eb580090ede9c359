package gmail

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hardiksingla/insightboard/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCreds = config.Gmail{
	ClientId:     "client",
	ClientSecret: "secret",
	RedirectURI:  "http://localhost/callback",
	RefreshToken: "refresh",
}

func b64url(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

// newTestClient wires a client against a fake token endpoint and the given
// API handler.
func newTestClient(t *testing.T, api http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		fmt.Fprint(w, `{"access_token":"at-123","expires_in":3600}`)
	})
	mux.HandleFunc("/", api)
	server := httptest.NewServer(mux)

	c, err := New(testCreds, WithBaseURLs(server.URL, server.URL+"/token"))
	require.NoError(t, err)
	return c, server
}

func TestNewRequiresFullCredentials(t *testing.T) {
	_, err := New(config.Gmail{ClientId: "only-id"})
	assert.Error(t, err)

	_, err = New(testCreds)
	assert.NoError(t, err)
}

func TestProfile(t *testing.T) {
	c, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/me/profile", r.URL.Path)
		assert.Equal(t, "Bearer at-123", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"emailAddress":"me@example.com","historyId":12345}`)
	})
	defer server.Close()

	historyId, err := c.Profile(context.Background(), "me")
	require.NoError(t, err)
	assert.Equal(t, "12345", historyId)
}

func TestHistoryAdded(t *testing.T) {
	c, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/me/history", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("startHistoryId"))
		assert.Equal(t, "messageAdded", r.URL.Query().Get("historyTypes"))
		fmt.Fprint(w, `{"history":[
			{"messagesAdded":[{"message":{"id":"m1"}},{"message":{"id":"m2"}}]},
			{"messagesAdded":[]},
			{"messagesAdded":[{"message":{"id":"m3"}}]}
		]}`)
	})
	defer server.Close()

	ids, err := c.HistoryAdded(context.Background(), "me", "100")
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2", "m3"}, ids)
}

func TestHistoryAddedEmpty(t *testing.T) {
	c, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	})
	defer server.Close()

	ids, err := c.HistoryAdded(context.Background(), "me", "100")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestMessagePrefersPlainText(t *testing.T) {
	c, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/me/messages/m1", r.URL.Path)
		assert.Equal(t, "full", r.URL.Query().Get("format"))
		fmt.Fprintf(w, `{"payload":{
			"headers":[{"name":"Subject","value":"A link"},{"name":"From","value":"Sender <sender@example.com>"}],
			"parts":[
				{"mimeType":"text/plain","body":{"data":"%s"}},
				{"mimeType":"text/html","body":{"data":"%s"}}
			]
		}}`, b64url("https://youtu.be/ABC\na note"), b64url("<p>https://youtu.be/ABC</p>"))
	})
	defer server.Close()

	msg, err := c.Message(context.Background(), "me", "m1")
	require.NoError(t, err)
	assert.Equal(t, "A link", msg.Subject)
	assert.Equal(t, "Sender <sender@example.com>", msg.From)
	assert.Equal(t, "https://youtu.be/ABC\na note", msg.Body)
}

func TestMessageStripsHTMLFallback(t *testing.T) {
	c, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"payload":{
			"headers":[{"name":"Subject","value":"s"}],
			"parts":[{"mimeType":"text/html","body":{"data":"%s"}}]
		}}`, b64url("<div><a href=\"x\">https://youtu.be/ABC</a></div>"))
	})
	defer server.Close()

	msg, err := c.Message(context.Background(), "me", "m1")
	require.NoError(t, err)
	assert.Equal(t, "https://youtu.be/ABC", msg.Body)
}

func TestMessageNestedParts(t *testing.T) {
	c, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"payload":{
			"parts":[{"mimeType":"multipart/alternative","parts":[{"mimeType":"text/plain","body":{"data":"%s"}}]}]
		}}`, b64url("nested body"))
	})
	defer server.Close()

	msg, err := c.Message(context.Background(), "me", "m1")
	require.NoError(t, err)
	assert.Equal(t, "nested body", msg.Body)
}

func TestInvalidGrantMapsToErrAuthRequired(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"invalid_grant","error_description":"Token has been expired or revoked."}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c, err := New(testCreds, WithBaseURLs(server.URL, server.URL+"/token"))
	require.NoError(t, err)

	_, err = c.Profile(context.Background(), "me")
	assert.True(t, errors.Is(err, ErrAuthRequired))
}

func TestAccessTokenCachedAcrossCalls(t *testing.T) {
	tokenCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		fmt.Fprint(w, `{"access_token":"at-123","expires_in":3600}`)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"historyId":1}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c, err := New(testCreds, WithBaseURLs(server.URL, server.URL+"/token"))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := c.Profile(context.Background(), "me")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, tokenCalls)
}
