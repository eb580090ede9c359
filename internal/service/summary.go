package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/hardiksingla/insightboard/internal/domain"
	"github.com/hardiksingla/insightboard/internal/logger"
)

// to mock service in tests
type SummaryService interface {
	Generate(ctx context.Context, id domain.PostId, prompt string) (string, error)
}

type Summary struct {
	storage SummaryStorage
	model   TextModel
}

type SummaryStorage interface {
	Post(id domain.PostId) (domain.Post, error)
	UpdatePostContent(id domain.PostId, content string) error
}

type TextModel interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

func NewSummary(storage SummaryStorage, model TextModel) *Summary {
	return &Summary{storage: storage, model: model}
}

// Generate produces content for a post from the caller's instruction plus
// the post's transcript, description and title, then persists it as the
// post's content. An empty model response is returned as-is and nothing is
// persisted.
func (s *Summary) Generate(ctx context.Context, id domain.PostId, prompt string) (string, error) {
	post, err := s.storage.Post(id)
	if err != nil {
		return "", err
	}

	text, err := s.model.GenerateContent(ctx, buildPrompt(prompt, post))
	if err != nil {
		return "", fmt.Errorf("generating content for post %s: %w", id, err)
	}
	if strings.TrimSpace(text) == "" {
		logger.Log.Warn("model returned empty content, keeping post unchanged", "post", id)
		return "", nil
	}

	if err := s.storage.UpdatePostContent(id, text); err != nil {
		return "", err
	}
	return text, nil
}

// The instruction brackets the material so it survives long transcripts.
func buildPrompt(instruction string, post domain.Post) string {
	var b strings.Builder
	b.WriteString(instruction)
	b.WriteString("\n\nVideo transcript:\n")
	b.WriteString(post.Transcript)
	b.WriteString("\n\nVideo description:\n")
	b.WriteString(post.Description)
	b.WriteString("\n\nVideo title:\n")
	b.WriteString(post.Title)
	b.WriteString("\n\n")
	b.WriteString(instruction)
	b.WriteString("\nDo not use any markdown symbols in the response.")
	return b.String()
}
