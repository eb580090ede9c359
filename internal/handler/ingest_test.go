package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hardiksingla/insightboard/internal/api"
	internalErrors "github.com/hardiksingla/insightboard/internal/errors"
	"github.com/hardiksingla/insightboard/internal/service"
	"github.com/hardiksingla/insightboard/internal/youtube"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestPostHandler(t *testing.T) {
	h := &Handler{cfg: testConfig()}
	router := chi.NewRouter()
	router.Post("/v1/posts/ingest", h.IngestPost)

	t.Run("successful request echoes classification", func(t *testing.T) {
		h.ingest = &MockIngestService{
			MockSubmit: func(ctx context.Context, sub service.Submission) (youtube.Link, error) {
				assert.Equal(t, "https://youtu.be/abc123", sub.Url)
				assert.Equal(t, "user@example.com", sub.Email)
				assert.Empty(t, sub.EmailId)
				return youtube.Link{Id: "abc123", Type: youtube.LinkVideo}, nil
			},
		}

		req := createRequest(t, http.MethodPost, "/v1/posts/ingest",
			[]byte(`{"url":"https://youtu.be/abc123","email":"user@example.com"}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp api.IngestResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "abc123", resp.Id)
		assert.Equal(t, "video", resp.Type)
	})

	t.Run("forwarded email submission", func(t *testing.T) {
		h.ingest = &MockIngestService{
			MockSubmit: func(ctx context.Context, sub service.Submission) (youtube.Link, error) {
				assert.Equal(t, "msg-1", sub.EmailId)
				return youtube.Link{Id: "abc123", Type: youtube.LinkVideo}, nil
			},
		}

		req := createRequest(t, http.MethodPost, "/v1/posts/ingest",
			[]byte(`{"url":"https://youtu.be/abc123","email":"sender@example.com","emailId":"msg-1","subject":"watch"}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("invalid url answers with the error classification", func(t *testing.T) {
		h.ingest = &MockIngestService{
			MockSubmit: func(ctx context.Context, sub service.Submission) (youtube.Link, error) {
				return youtube.Link{Type: youtube.LinkError}, internalErrors.BadRequest("Invalid Youtube URL")
			},
		}

		req := createRequest(t, http.MethodPost, "/v1/posts/ingest",
			[]byte(`{"url":"https://vimeo.com/1","email":"user@example.com"}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		var resp api.IngestResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, http.StatusBadRequest, resp.Status)
		assert.Empty(t, resp.Id)
		assert.Equal(t, "error", resp.Type)
	})

	t.Run("duplicate window conflict", func(t *testing.T) {
		h.ingest = &MockIngestService{
			MockSubmit: func(ctx context.Context, sub service.Submission) (youtube.Link, error) {
				return youtube.Link{Id: "abc123", Type: youtube.LinkVideo},
					&internalErrors.ErrorWithStatusCode{Message: "too soon", StatusCode: http.StatusConflict}
			},
		}

		req := createRequest(t, http.MethodPost, "/v1/posts/ingest",
			[]byte(`{"url":"https://youtu.be/abc123","email":"user@example.com"}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("missing email", func(t *testing.T) {
		h.ingest = &MockIngestService{}

		req := createRequest(t, http.MethodPost, "/v1/posts/ingest", []byte(`{"url":"https://youtu.be/abc123"}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
