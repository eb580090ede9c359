package service

import (
	"errors"
	"testing"

	"github.com/hardiksingla/insightboard/internal/domain"
	internalErrors "github.com/hardiksingla/insightboard/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockPostStorage mocks the PostStorage interface.
type MockPostStorage struct {
	postsFunc              func(ownerEmail domain.Email, boardId *domain.BoardId) ([]domain.Post, error)
	ownedPostFunc          func(id domain.PostId, ownerEmail domain.Email) (domain.Post, error)
	updatePostPositionFunc func(id domain.PostId, x, y float64) error
	assignPostBoardFunc    func(id domain.PostId, boardId *domain.BoardId) error
}

func (m *MockPostStorage) Posts(ownerEmail domain.Email, boardId *domain.BoardId) ([]domain.Post, error) {
	if m.postsFunc != nil {
		return m.postsFunc(ownerEmail, boardId)
	}
	return nil, nil
}

func (m *MockPostStorage) OwnedPost(id domain.PostId, ownerEmail domain.Email) (domain.Post, error) {
	if m.ownedPostFunc != nil {
		return m.ownedPostFunc(id, ownerEmail)
	}
	return domain.Post{Id: id}, nil
}

func (m *MockPostStorage) UpdatePostPosition(id domain.PostId, x, y float64) error {
	if m.updatePostPositionFunc != nil {
		return m.updatePostPositionFunc(id, x, y)
	}
	return nil
}

func (m *MockPostStorage) AssignPostBoard(id domain.PostId, boardId *domain.BoardId) error {
	if m.assignPostBoardFunc != nil {
		return m.assignPostBoardFunc(id, boardId)
	}
	return nil
}

func TestPostUpdatePosition(t *testing.T) {
	testCases := []struct {
		name       string
		lookupErr  error
		updateErr  error
		expectSave bool
		expectOk   bool
	}{
		{name: "Successful Update", expectSave: true, expectOk: true},
		{name: "Post Not Owned", lookupErr: internalErrors.NotFound("Post not found")},
		{name: "Storage Error", updateErr: errors.New("db down"), expectSave: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			saved := false
			storage := &MockPostStorage{
				ownedPostFunc: func(id domain.PostId, ownerEmail domain.Email) (domain.Post, error) {
					return domain.Post{Id: id}, tc.lookupErr
				},
				updatePostPositionFunc: func(id domain.PostId, x, y float64) error {
					saved = true
					assert.Equal(t, 120.5, x)
					assert.Equal(t, -44.0, y)
					return tc.updateErr
				},
			}
			svc := NewPost(storage)

			ok := svc.UpdatePosition("p1", "user@example.com", 120.5, -44.0)
			assert.Equal(t, tc.expectOk, ok)
			assert.Equal(t, tc.expectSave, saved)
		})
	}
}

func TestPostAssignBoard(t *testing.T) {
	boardId := domain.BoardId("b1")

	t.Run("Attach", func(t *testing.T) {
		var got *domain.BoardId
		storage := &MockPostStorage{
			assignPostBoardFunc: func(id domain.PostId, boardId *domain.BoardId) error {
				got = boardId
				return nil
			},
		}
		svc := NewPost(storage)

		assert.True(t, svc.AssignBoard("p1", "user@example.com", &boardId))
		require.NotNil(t, got)
		assert.Equal(t, boardId, *got)
	})

	t.Run("Detach", func(t *testing.T) {
		var got *domain.BoardId = &boardId
		storage := &MockPostStorage{
			assignPostBoardFunc: func(id domain.PostId, boardId *domain.BoardId) error {
				got = boardId
				return nil
			},
		}
		svc := NewPost(storage)

		assert.True(t, svc.AssignBoard("p1", "user@example.com", nil))
		assert.Nil(t, got)
	})

	t.Run("Not Owned", func(t *testing.T) {
		storage := &MockPostStorage{
			ownedPostFunc: func(id domain.PostId, ownerEmail domain.Email) (domain.Post, error) {
				return domain.Post{}, internalErrors.NotFound("Post not found")
			},
			assignPostBoardFunc: func(id domain.PostId, boardId *domain.BoardId) error {
				t.Fatal("must not write for a non-owned post")
				return nil
			},
		}
		svc := NewPost(storage)

		assert.False(t, svc.AssignBoard("p1", "other@example.com", &boardId))
	})
}

func TestPostAll(t *testing.T) {
	boardId := domain.BoardId("b1")
	storage := &MockPostStorage{
		postsFunc: func(ownerEmail domain.Email, got *domain.BoardId) ([]domain.Post, error) {
			require.NotNil(t, got)
			assert.Equal(t, boardId, *got)
			return []domain.Post{{Id: "p1"}}, nil
		},
	}
	svc := NewPost(storage)

	posts, err := svc.All("user@example.com", &boardId)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}
