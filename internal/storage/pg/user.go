package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hardiksingla/insightboard/internal/domain"
	internal_errors "github.com/hardiksingla/insightboard/internal/errors"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// SaveUser inserts a new user account. A duplicate email maps to 400 so the
// signup handler can surface "User already exists" without inspecting pq
// internals.
func (s *Storage) SaveUser(user domain.User) (domain.UserId, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var id domain.UserId
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = s.saveUser(tx, user)
		return err
	})
	return id, err
}

// User fetches a single user by email.
func (s *Storage) User(email domain.Email) (domain.User, error) {
	return s.user(s.db, email)
}

func (s *Storage) saveUser(q Querier, user domain.User) (domain.UserId, error) {
	var passHash sql.NullString
	if user.PassHash != "" {
		passHash = sql.NullString{String: user.PassHash, Valid: true}
	}

	var id int64
	err := q.QueryRow("INSERT INTO users(email, name, image, pass_hash) VALUES($1, $2, $3, $4) RETURNING id",
		user.Email, user.Name, user.Image, passHash).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return -1, &internal_errors.ErrorWithStatusCode{Message: "User already exists", StatusCode: http.StatusBadRequest}
		}
		return -1, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

func (s *Storage) user(q Querier, email domain.Email) (domain.User, error) {
	var user domain.User
	var passHash sql.NullString
	err := q.QueryRow("SELECT id, email, name, image, pass_hash, created FROM users WHERE email = $1", email).
		Scan(&user.Id, &user.Email, &user.Name, &user.Image, &passHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	user.PassHash = passHash.String
	return user, nil
}
