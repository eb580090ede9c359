package setup

import (
	"github.com/hardiksingla/insightboard/internal/apiclient"
	"github.com/hardiksingla/insightboard/internal/config"
	"github.com/hardiksingla/insightboard/internal/genai"
	"github.com/hardiksingla/insightboard/internal/gmail"
	"github.com/hardiksingla/insightboard/internal/handler"
	"github.com/hardiksingla/insightboard/internal/jwt"
	"github.com/hardiksingla/insightboard/internal/logger"
	"github.com/hardiksingla/insightboard/internal/middleware"
	"github.com/hardiksingla/insightboard/internal/service"
	"github.com/hardiksingla/insightboard/internal/storage/pg"
	"github.com/hardiksingla/insightboard/internal/youtube"
)

// Dependencies struct to holds all initialized dependencies.
type Dependencies struct {
	Storage        *pg.Storage
	Handler        *handler.Handler
	AuthMiddleware *middleware.Auth
	Config         *config.Config
}

// SetupDependencies initializes everything the server needs. The mailbox
// integration is optional: without credentials the push endpoint reports the
// feature as unavailable while the rest of the app runs normally.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	jwtService := jwt.New(cfg.Private.JwtKey, cfg.JwtTTL())

	videos := youtube.New(cfg.Private.GoogleAPIKey, cfg.Public.TranscriptLanguage)
	model := genai.New(cfg.Private.GoogleAPIKey, cfg.Public.GenaiModel)

	auth := service.NewAuth(storage, jwtService)
	boards := service.NewBoard(storage)
	posts := service.NewPost(storage)
	ingest := service.NewIngest(storage, videos, cfg.DuplicateWindow())
	summary := service.NewSummary(storage, model)

	var sync service.SyncService
	if cfg.Private.Gmail.Configured() {
		mail, err := gmail.New(cfg.Private.Gmail)
		if err != nil {
			return nil, err
		}
		forward := apiclient.NewIngestClient(cfg.Public.IngestBaseURL)
		sync = service.NewSync(mail, storage, forward, cfg.Public.GmailAccount)
	} else {
		logger.Log.Warn("gmail credentials not configured, email ingestion disabled")
	}

	h := handler.New(auth, boards, posts, ingest, summary, sync, storage, cfg)

	return &Dependencies{
		Storage:        storage,
		Handler:        h,
		AuthMiddleware: middleware.NewAuth(jwtService),
		Config:         cfg,
	}, nil
}
