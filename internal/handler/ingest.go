package handler

import (
	"net/http"

	"github.com/hardiksingla/insightboard/internal/api"
	"github.com/hardiksingla/insightboard/internal/middleware/metrics"
	"github.com/hardiksingla/insightboard/internal/service"
	"github.com/hardiksingla/insightboard/internal/utils"
	"github.com/hardiksingla/insightboard/internal/youtube"
)

// IngestPost accepts a video URL for a given user, from the browser client
// or from the push receiver's forward. The response echoes the classification
// even when ingestion is rejected, so callers can distinguish a bad link from
// a duplicate.
func (h *Handler) IngestPost(w http.ResponseWriter, r *http.Request) {
	var req api.IngestRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	link, err := h.ingest.Submit(r.Context(), service.Submission{
		Url:     req.Url,
		Email:   req.Email,
		EmailId: req.EmailId,
	})
	if err != nil {
		// An unrecognized URL still answers with the envelope so callers
		// get the "error" classification; other rejections (duplicates,
		// upstream failures) keep the plain error contract.
		if link.Type == youtube.LinkError {
			writeJSON(w, http.StatusBadRequest, api.IngestResponse{
				Status: http.StatusBadRequest,
				Id:     link.Id,
				Type:   string(link.Type),
			})
			return
		}
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	source := "url"
	if req.EmailId != "" {
		source = "email"
	}
	metrics.IngestedPosts.WithLabelValues(source).Inc()

	writeJSON(w, http.StatusOK, api.IngestResponse{
		Status: http.StatusOK,
		Id:     link.Id,
		Type:   string(link.Type),
	})
}
