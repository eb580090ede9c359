package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/hardiksingla/insightboard/internal/domain"
	"github.com/hardiksingla/insightboard/internal/errors"
)

// to mock service in tests
type BoardService interface {
	Create(owner domain.Email, name, description string) (domain.Board, error)
	All(owner domain.Email) ([]domain.Board, error)
}

type Board struct {
	storage BoardStorage
}

type BoardStorage interface {
	CreateBoard(board domain.Board, ownerEmail domain.Email) (domain.Board, error)
	Boards(ownerEmail domain.Email) ([]domain.Board, error)
}

func NewBoard(storage BoardStorage) BoardService {
	return &Board{storage}
}

func (b *Board) Create(owner domain.Email, name, description string) (domain.Board, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Board{}, errors.BadRequest("Board name is required")
	}

	board := domain.Board{
		Id:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(description),
	}
	return b.storage.CreateBoard(board, owner)
}

func (b *Board) All(owner domain.Email) ([]domain.Board, error) {
	return b.storage.Boards(owner)
}
