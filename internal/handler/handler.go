package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hardiksingla/insightboard/internal/config"
	"github.com/hardiksingla/insightboard/internal/logger"
	"github.com/hardiksingla/insightboard/internal/service"
)

type Handler struct {
	auth    service.AuthService
	boards  service.BoardService
	posts   service.PostService
	ingest  service.IngestService
	summary service.SummaryService
	sync    service.SyncService // nil when the mailbox integration is not configured
	health  Pinger
	cfg     *config.Config
}

func New(
	auth service.AuthService,
	boards service.BoardService,
	posts service.PostService,
	ingest service.IngestService,
	summary service.SummaryService,
	sync service.SyncService,
	health Pinger,
	cfg *config.Config,
) *Handler {
	return &Handler{auth, boards, posts, ingest, summary, sync, health, cfg}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}
