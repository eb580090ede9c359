package service

import (
	"github.com/hardiksingla/insightboard/internal/domain"
	"github.com/hardiksingla/insightboard/internal/logger"
)

// to mock service in tests
type PostService interface {
	All(owner domain.Email, boardId *domain.BoardId) ([]domain.Post, error)
	Get(id domain.PostId, owner domain.Email) (domain.Post, error)
	UpdatePosition(id domain.PostId, owner domain.Email, x, y float64) bool
	AssignBoard(id domain.PostId, owner domain.Email, boardId *domain.BoardId) bool
}

type Post struct {
	storage PostStorage
}

type PostStorage interface {
	Posts(ownerEmail domain.Email, boardId *domain.BoardId) ([]domain.Post, error)
	OwnedPost(id domain.PostId, ownerEmail domain.Email) (domain.Post, error)
	UpdatePostPosition(id domain.PostId, x, y float64) error
	AssignPostBoard(id domain.PostId, boardId *domain.BoardId) error
}

func NewPost(storage PostStorage) PostService {
	return &Post{storage}
}

func (p *Post) All(owner domain.Email, boardId *domain.BoardId) ([]domain.Post, error) {
	return p.storage.Posts(owner, boardId)
}

func (p *Post) Get(id domain.PostId, owner domain.Email) (domain.Post, error) {
	return p.storage.OwnedPost(id, owner)
}

// UpdatePosition persists new canvas coordinates for an owned post. Failures
// are contained here: a missing or non-owned post and a storage error both
// report false, and the caller shows the optimistic position regardless.
func (p *Post) UpdatePosition(id domain.PostId, owner domain.Email, x, y float64) bool {
	if _, err := p.storage.OwnedPost(id, owner); err != nil {
		logger.Log.Warn("position update for missing or non-owned post", "post", id, "error", err)
		return false
	}
	if err := p.storage.UpdatePostPosition(id, x, y); err != nil {
		logger.Log.Error("failed to persist post position", "post", id, "error", err)
		return false
	}
	return true
}

// AssignBoard attaches an owned post to a board; a nil boardId detaches it.
func (p *Post) AssignBoard(id domain.PostId, owner domain.Email, boardId *domain.BoardId) bool {
	if _, err := p.storage.OwnedPost(id, owner); err != nil {
		logger.Log.Warn("board assignment for missing or non-owned post", "post", id, "error", err)
		return false
	}
	if err := p.storage.AssignPostBoard(id, boardId); err != nil {
		logger.Log.Error("failed to assign post board", "post", id, "error", err)
		return false
	}
	return true
}
