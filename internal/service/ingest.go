package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hardiksingla/insightboard/internal/domain"
	"github.com/hardiksingla/insightboard/internal/errors"
	"github.com/hardiksingla/insightboard/internal/logger"
	"github.com/hardiksingla/insightboard/internal/youtube"
)

// Submission is one ingestion request. EmailId is set only when the
// submission came in via the mail path; it keys the stable-id duplicate
// check.
type Submission struct {
	Url     string
	Email   domain.Email
	EmailId string
}

// to mock service in tests
type IngestService interface {
	Submit(ctx context.Context, sub Submission) (youtube.Link, error)
}

type Ingest struct {
	storage IngestStorage
	videos  VideoAPI
	window  time.Duration
	now     func() time.Time
}

type IngestStorage interface {
	CreatePost(post domain.Post, ownerEmail domain.Email) (domain.Post, error)
	RecentPostExists(ownerEmail domain.Email, since time.Time) (bool, error)
	MarkEmailProcessed(messageId string) (bool, error)
}

type VideoAPI interface {
	VideoSnippet(ctx context.Context, videoId string) (youtube.Snippet, error)
	Transcript(ctx context.Context, videoId string) (string, error)
}

func NewIngest(storage IngestStorage, videos VideoAPI, duplicateWindow time.Duration) *Ingest {
	return &Ingest{
		storage: storage,
		videos:  videos,
		window:  duplicateWindow,
		now:     time.Now,
	}
}

// Submit classifies the URL, fetches metadata and transcript, and inserts a
// post owned by the submitter. The returned Link always carries the
// classification so the caller can echo {id, type} even on rejection.
//
// Playlists classify successfully but are not ingested: there is no single
// video to fetch a snippet or transcript for.
func (i *Ingest) Submit(ctx context.Context, sub Submission) (youtube.Link, error) {
	link := youtube.ParseURL(sub.Url)
	if link.Type == youtube.LinkError {
		return link, errors.BadRequest("Invalid Youtube URL")
	}

	// Email-sourced submissions dedupe on the message id: a replayed history
	// window must not create a second post.
	if sub.EmailId != "" {
		fresh, err := i.storage.MarkEmailProcessed(sub.EmailId)
		if err != nil {
			return link, err
		}
		if !fresh {
			return link, &errors.ErrorWithStatusCode{Message: "Email already processed", StatusCode: http.StatusConflict}
		}
	}

	if link.Type == youtube.LinkPlaylist {
		return link, nil
	}

	exists, err := i.storage.RecentPostExists(sub.Email, i.now().Add(-i.window))
	if err != nil {
		return link, err
	}
	if exists {
		return link, &errors.ErrorWithStatusCode{
			Message:    fmt.Sprintf("A post was already created for this user in the last %.0f seconds", i.window.Seconds()),
			StatusCode: http.StatusConflict,
		}
	}

	snippet, err := i.videos.VideoSnippet(ctx, link.Id)
	if err != nil {
		logger.Log.Error("failed to fetch video metadata", "video", link.Id, "error", err)
		return link, err
	}
	transcript, err := i.videos.Transcript(ctx, link.Id)
	if err != nil {
		logger.Log.Error("failed to fetch transcript", "video", link.Id, "error", err)
		return link, err
	}

	post := domain.Post{
		Id:          uuid.NewString(),
		Title:       snippet.Title,
		Description: snippet.Description,
		Image:       snippet.Thumbnail,
		Transcript:  transcript,
		Url:         "https://www.youtube.com/watch?v=" + link.Id,
	}
	if _, err := i.storage.CreatePost(post, sub.Email); err != nil {
		return link, err
	}
	logger.Log.Info("ingested video", "video", link.Id, "type", link.Type, "owner", sub.Email)
	return link, nil
}
