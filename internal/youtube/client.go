package youtube

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"
	"time"

	internal_errors "github.com/hardiksingla/insightboard/internal/errors"
)

const (
	defaultDataAPIBaseURL   = "https://www.googleapis.com/youtube/v3"
	defaultTimedtextBaseURL = "https://video.google.com/timedtext"
)

// Snippet is the subset of video metadata a post is built from.
type Snippet struct {
	Title       string
	Description string
	Thumbnail   string // standard resolution
}

// Client talks to the YouTube Data API and the timedtext transcript endpoint.
type Client struct {
	apiKey           string
	httpClient       *http.Client
	dataAPIBaseURL   string
	timedtextBaseURL string
	language         string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithBaseURLs(dataAPI, timedtext string) Option {
	return func(c *Client) {
		c.dataAPIBaseURL = dataAPI
		c.timedtextBaseURL = timedtext
	}
}

func New(apiKey, language string, opts ...Option) *Client {
	c := &Client{
		apiKey:           apiKey,
		httpClient:       &http.Client{Timeout: 30 * time.Second},
		dataAPIBaseURL:   defaultDataAPIBaseURL,
		timedtextBaseURL: defaultTimedtextBaseURL,
		language:         language,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type videoListResponse struct {
	Items []struct {
		Snippet struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Thumbnails  map[string]struct {
				Url string `json:"url"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

// VideoSnippet fetches title, description and the standard-resolution
// thumbnail for a video id.
func (c *Client) VideoSnippet(ctx context.Context, videoId string) (Snippet, error) {
	endpoint := fmt.Sprintf("%s/videos?part=snippet&id=%s&key=%s",
		c.dataAPIBaseURL, url.QueryEscape(videoId), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Snippet{}, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Snippet{}, fmt.Errorf("video metadata request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Snippet{}, fmt.Errorf("video metadata request returned status %d", resp.StatusCode)
	}

	var body videoListResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Snippet{}, fmt.Errorf("failed to decode video metadata: %w", err)
	}
	if len(body.Items) == 0 {
		return Snippet{}, internal_errors.NotFound("Video not found")
	}

	snippet := body.Items[0].Snippet
	thumbnail := ""
	if t, ok := snippet.Thumbnails["standard"]; ok {
		thumbnail = t.Url
	} else if t, ok := snippet.Thumbnails["high"]; ok {
		// not every video has a standard thumbnail
		thumbnail = t.Url
	}
	return Snippet{Title: snippet.Title, Description: snippet.Description, Thumbnail: thumbnail}, nil
}

type timedtextTranscript struct {
	Texts []struct {
		Value string `xml:",chardata"`
	} `xml:"text"`
}

// Transcript fetches the captions for a video id and joins every segment
// with single spaces.
func (c *Client) Transcript(ctx context.Context, videoId string) (string, error) {
	endpoint := fmt.Sprintf("%s?lang=%s&v=%s",
		c.timedtextBaseURL, url.QueryEscape(c.language), url.QueryEscape(videoId))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcript request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcript request returned status %d", resp.StatusCode)
	}

	var transcript timedtextTranscript
	if err := xml.NewDecoder(resp.Body).Decode(&transcript); err != nil {
		return "", fmt.Errorf("failed to decode transcript: %w", err)
	}

	segments := make([]string, 0, len(transcript.Texts))
	for _, t := range transcript.Texts {
		text := strings.TrimSpace(html.UnescapeString(t.Value))
		if text != "" {
			segments = append(segments, text)
		}
	}
	return strings.Join(segments, " "), nil
}
