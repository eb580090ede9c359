package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hardiksingla/insightboard/internal/domain"
	internal_errors "github.com/hardiksingla/insightboard/internal/errors"
)

const postColumns = "p.id, p.title, p.description, p.image, p.transcript, p.content, p.url, p.x, p.y, p.board_id, p.user_id, p.created"

// CreatePost inserts a post owned by ownerEmail. Board assignment is left
// unset; ingestion never attaches.
func (s *Storage) CreatePost(post domain.Post, ownerEmail domain.Email) (domain.Post, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var created domain.Post
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		created, err = s.createPost(tx, post, ownerEmail)
		return err
	})
	return created, err
}

// Posts lists the owner's posts. A nil boardId selects unassigned posts
// (board_id IS NULL), matching the original canvas query.
func (s *Storage) Posts(ownerEmail domain.Email, boardId *domain.BoardId) ([]domain.Post, error) {
	return s.posts(s.db, ownerEmail, boardId)
}

// Post fetches a post by id regardless of owner.
func (s *Storage) Post(id domain.PostId) (domain.Post, error) {
	return s.scanPost(s.db.QueryRow(
		"SELECT "+postColumns+" FROM posts p WHERE p.id = $1", id))
}

// OwnedPost fetches a post only when it belongs to ownerEmail.
func (s *Storage) OwnedPost(id domain.PostId, ownerEmail domain.Email) (domain.Post, error) {
	return s.scanPost(s.db.QueryRow(
		"SELECT "+postColumns+" FROM posts p JOIN users u ON u.id = p.user_id WHERE p.id = $1 AND u.email = $2",
		id, ownerEmail))
}

// UpdatePostPosition persists the exact coordinates passed.
func (s *Storage) UpdatePostPosition(id domain.PostId, x, y float64) error {
	result, err := s.db.Exec("UPDATE posts SET x = $1, y = $2 WHERE id = $3", x, y, id)
	if err != nil {
		return fmt.Errorf("failed to update post position: %w", err)
	}
	return requireRow(result, "Post not found")
}

// AssignPostBoard attaches the post to a board, or detaches it when boardId
// is nil.
func (s *Storage) AssignPostBoard(id domain.PostId, boardId *domain.BoardId) error {
	result, err := s.db.Exec("UPDATE posts SET board_id = $1 WHERE id = $2", boardId, id)
	if err != nil {
		return fmt.Errorf("failed to assign post board: %w", err)
	}
	return requireRow(result, "Post not found")
}

// UpdatePostContent stores a generated summary.
func (s *Storage) UpdatePostContent(id domain.PostId, content string) error {
	result, err := s.db.Exec("UPDATE posts SET content = $1 WHERE id = $2", content, id)
	if err != nil {
		return fmt.Errorf("failed to update post content: %w", err)
	}
	return requireRow(result, "Post not found")
}

// RecentPostExists reports whether the owner created any post after the
// given instant. This is the coarse duplicate-submission guard.
func (s *Storage) RecentPostExists(ownerEmail domain.Email, since time.Time) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
        SELECT EXISTS(
            SELECT 1 FROM posts p
            JOIN users u ON u.id = p.user_id
            WHERE u.email = $1 AND p.created >= $2
        )`, ownerEmail, since).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check recent posts: %w", err)
	}
	return exists, nil
}

// MarkEmailProcessed records a Gmail message id. Returns false when the id
// was already recorded, which means the message must not be ingested again.
func (s *Storage) MarkEmailProcessed(messageId string) (bool, error) {
	result, err := s.db.Exec(
		"INSERT INTO processed_emails(message_id) VALUES($1) ON CONFLICT (message_id) DO NOTHING", messageId)
	if err != nil {
		return false, fmt.Errorf("failed to mark email processed: %w", err)
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return inserted > 0, nil
}

func (s *Storage) createPost(q Querier, post domain.Post, ownerEmail domain.Email) (domain.Post, error) {
	row := q.QueryRow(`
        INSERT INTO posts(id, title, description, image, transcript, url, user_id)
        SELECT $1, $2, $3, $4, $5, $6, u.id FROM users u WHERE u.email = $7
        RETURNING `+selfPostColumns(),
		post.Id, post.Title, post.Description, post.Image, post.Transcript, post.Url, ownerEmail)
	created, err := s.scanPost(row)
	if err != nil {
		if internal_errors.IsNotFound(err) {
			return domain.Post{}, &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: 404}
		}
		return domain.Post{}, err
	}
	created.OwnerEmail = ownerEmail
	return created, nil
}

func (s *Storage) posts(q Querier, ownerEmail domain.Email, boardId *domain.BoardId) ([]domain.Post, error) {
	query := "SELECT " + postColumns + " FROM posts p JOIN users u ON u.id = p.user_id WHERE u.email = $1"
	args := []interface{}{ownerEmail}
	if boardId == nil {
		query += " AND p.board_id IS NULL"
	} else {
		query += " AND p.board_id = $2"
		args = append(args, *boardId)
	}
	query += " ORDER BY p.created"

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		post, err := s.scanPostRows(rows)
		if err != nil {
			return nil, err
		}
		post.OwnerEmail = ownerEmail
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (s *Storage) scanPost(row *sql.Row) (domain.Post, error) {
	post, err := scanPostFrom(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Post{}, &internal_errors.ErrorWithStatusCode{Message: "Post not found", StatusCode: 404}
		}
		return domain.Post{}, fmt.Errorf("failed to query post: %w", err)
	}
	return post, nil
}

func (s *Storage) scanPostRows(rows *sql.Rows) (domain.Post, error) {
	post, err := scanPostFrom(rows)
	if err != nil {
		return domain.Post{}, fmt.Errorf("failed to scan post: %w", err)
	}
	return post, nil
}

func scanPostFrom(sc rowScanner) (domain.Post, error) {
	var post domain.Post
	var content sql.NullString
	var x, y sql.NullFloat64
	var boardId sql.NullString
	err := sc.Scan(&post.Id, &post.Title, &post.Description, &post.Image, &post.Transcript,
		&content, &post.Url, &x, &y, &boardId, &post.OwnerId, &post.CreatedAt)
	if err != nil {
		return domain.Post{}, err
	}
	if content.Valid {
		post.Content = &content.String
	}
	if x.Valid {
		post.X = &x.Float64
	}
	if y.Valid {
		post.Y = &y.Float64
	}
	if boardId.Valid {
		post.BoardId = &boardId.String
	}
	return post, nil
}

func requireRow(result sql.Result, notFoundMsg string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: notFoundMsg, StatusCode: 404}
	}
	return nil
}

func selfPostColumns() string {
	return "id, title, description, image, transcript, content, url, x, y, board_id, user_id, created"
}
