package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hardiksingla/insightboard/internal/domain"
	"github.com/hardiksingla/insightboard/internal/middleware"
	"github.com/hardiksingla/insightboard/internal/service"
	"github.com/hardiksingla/insightboard/internal/youtube"
)

// Shared mocks and helpers for handler tests.

type MockAuthService struct {
	MockSignup    func(email domain.Email, name, password string) (domain.UserId, error)
	MockLogin     func(email domain.Email, password string) (string, error)
	MockFederated func(profile domain.FederatedProfile) (string, error)
}

func (m *MockAuthService) Signup(email domain.Email, name, password string) (domain.UserId, error) {
	if m.MockSignup != nil {
		return m.MockSignup(email, name, password)
	}
	return 0, nil
}

func (m *MockAuthService) Login(email domain.Email, password string) (string, error) {
	if m.MockLogin != nil {
		return m.MockLogin(email, password)
	}
	return "", nil
}

func (m *MockAuthService) Federated(profile domain.FederatedProfile) (string, error) {
	if m.MockFederated != nil {
		return m.MockFederated(profile)
	}
	return "", nil
}

type MockBoardService struct {
	MockCreate func(owner domain.Email, name, description string) (domain.Board, error)
	MockAll    func(owner domain.Email) ([]domain.Board, error)
}

func (m *MockBoardService) Create(owner domain.Email, name, description string) (domain.Board, error) {
	if m.MockCreate != nil {
		return m.MockCreate(owner, name, description)
	}
	return domain.Board{}, nil
}

func (m *MockBoardService) All(owner domain.Email) ([]domain.Board, error) {
	if m.MockAll != nil {
		return m.MockAll(owner)
	}
	return nil, nil
}

type MockPostService struct {
	MockAll            func(owner domain.Email, boardId *domain.BoardId) ([]domain.Post, error)
	MockGet            func(id domain.PostId, owner domain.Email) (domain.Post, error)
	MockUpdatePosition func(id domain.PostId, owner domain.Email, x, y float64) bool
	MockAssignBoard    func(id domain.PostId, owner domain.Email, boardId *domain.BoardId) bool
}

func (m *MockPostService) All(owner domain.Email, boardId *domain.BoardId) ([]domain.Post, error) {
	if m.MockAll != nil {
		return m.MockAll(owner, boardId)
	}
	return nil, nil
}

func (m *MockPostService) Get(id domain.PostId, owner domain.Email) (domain.Post, error) {
	if m.MockGet != nil {
		return m.MockGet(id, owner)
	}
	return domain.Post{Id: id}, nil
}

func (m *MockPostService) UpdatePosition(id domain.PostId, owner domain.Email, x, y float64) bool {
	if m.MockUpdatePosition != nil {
		return m.MockUpdatePosition(id, owner, x, y)
	}
	return true
}

func (m *MockPostService) AssignBoard(id domain.PostId, owner domain.Email, boardId *domain.BoardId) bool {
	if m.MockAssignBoard != nil {
		return m.MockAssignBoard(id, owner, boardId)
	}
	return true
}

type MockIngestService struct {
	MockSubmit func(ctx context.Context, sub service.Submission) (youtube.Link, error)
}

func (m *MockIngestService) Submit(ctx context.Context, sub service.Submission) (youtube.Link, error) {
	if m.MockSubmit != nil {
		return m.MockSubmit(ctx, sub)
	}
	return youtube.Link{Id: "vid", Type: youtube.LinkVideo}, nil
}

type MockSummaryService struct {
	MockGenerate func(ctx context.Context, id domain.PostId, prompt string) (string, error)
}

func (m *MockSummaryService) Generate(ctx context.Context, id domain.PostId, prompt string) (string, error) {
	if m.MockGenerate != nil {
		return m.MockGenerate(ctx, id, prompt)
	}
	return "", nil
}

type MockSyncService struct {
	MockHandleNotification func(ctx context.Context, n service.Notification) error
}

func (m *MockSyncService) HandleNotification(ctx context.Context, n service.Notification) error {
	if m.MockHandleNotification != nil {
		return m.MockHandleNotification(ctx, n)
	}
	return nil
}

func createRequest(t *testing.T, method, target string, body []byte) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// withUser simulates an authenticated request the way the auth middleware
// would populate it.
func withUser(req *http.Request, email domain.Email) *http.Request {
	user := &domain.User{Id: 7, Email: email, Name: "Test User"}
	return req.WithContext(context.WithValue(req.Context(), middleware.UserClaimsKey, user))
}
