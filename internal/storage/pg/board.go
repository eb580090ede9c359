package pg

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hardiksingla/insightboard/internal/domain"
	internal_errors "github.com/hardiksingla/insightboard/internal/errors"
)

// CreateBoard inserts a board owned by the user behind ownerEmail. The owner
// is resolved inside the same statement so ownership is fixed at creation.
func (s *Storage) CreateBoard(board domain.Board, ownerEmail domain.Email) (domain.Board, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var created domain.Board
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		created, err = s.createBoard(tx, board, ownerEmail)
		return err
	})
	return created, err
}

// Boards lists every board owned by the given email, newest first.
func (s *Storage) Boards(ownerEmail domain.Email) ([]domain.Board, error) {
	return s.boards(s.db, ownerEmail)
}

func (s *Storage) createBoard(q Querier, board domain.Board, ownerEmail domain.Email) (domain.Board, error) {
	err := q.QueryRow(`
        INSERT INTO boards(id, name, description, user_id)
        SELECT $1, $2, $3, u.id FROM users u WHERE u.email = $4
        RETURNING id, name, description, user_id, created`,
		board.Id, board.Name, board.Description, ownerEmail,
	).Scan(&board.Id, &board.Name, &board.Description, &board.OwnerId, &board.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Board{}, &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: 404}
		}
		return domain.Board{}, fmt.Errorf("failed to insert board: %w", err)
	}
	board.OwnerEmail = ownerEmail
	return board, nil
}

func (s *Storage) boards(q Querier, ownerEmail domain.Email) ([]domain.Board, error) {
	rows, err := q.Query(`
        SELECT b.id, b.name, b.description, b.user_id, b.created
        FROM boards b
        JOIN users u ON u.id = b.user_id
        WHERE u.email = $1
        ORDER BY b.created DESC`, ownerEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to query boards: %w", err)
	}
	defer rows.Close()

	var boards []domain.Board
	for rows.Next() {
		var b domain.Board
		if err := rows.Scan(&b.Id, &b.Name, &b.Description, &b.OwnerId, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan board: %w", err)
		}
		b.OwnerEmail = ownerEmail
		boards = append(boards, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return boards, nil
}
