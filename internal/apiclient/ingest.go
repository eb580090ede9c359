package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hardiksingla/insightboard/internal/api"
	"github.com/hardiksingla/insightboard/internal/service"
)

// IngestClient forwards mailed-in links to the ingestion endpoint. The push
// receiver goes through HTTP rather than calling the service directly so a
// deployment can point it at a separate ingestion instance.
type IngestClient struct {
	BaseURL    string
	HttpClient *http.Client
}

func NewIngestClient(baseURL string) *IngestClient {
	return &IngestClient{
		BaseURL:    baseURL,
		HttpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *IngestClient) Forward(ctx context.Context, fwd service.ForwardRequest) error {
	body, err := json.Marshal(api.IngestRequest{
		Url:     fwd.Url,
		Email:   fwd.SenderEmail,
		EmailId: fwd.EmailId,
		Subject: fwd.Subject,
	})
	if err != nil {
		return fmt.Errorf("failed to encode ingest request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/posts/ingest", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create ingest request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ingest endpoint unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("ingest endpoint returned %d: %s", resp.StatusCode, msg)
	}
	return nil
}
