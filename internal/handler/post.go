package handler

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hardiksingla/insightboard/internal/api"
	"github.com/hardiksingla/insightboard/internal/domain"
	"github.com/hardiksingla/insightboard/internal/logger"
	"github.com/hardiksingla/insightboard/internal/middleware"
	"github.com/hardiksingla/insightboard/internal/utils"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// GetPosts lists the caller's posts. Without a board query parameter it
// returns the unassigned posts shown on the main canvas; with one it returns
// that board's posts. Every post carries resolved canvas coordinates.
func (h *Handler) GetPosts(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}

	var boardId *domain.BoardId
	if b := r.URL.Query().Get("board"); b != "" {
		boardId = &b
	}

	posts, err := h.posts.All(user.Email, boardId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	resp := api.PostListResponse{Posts: make([]api.PostResponse, 0, len(posts))}
	for i := range posts {
		x, y := posts[i].Position(i)
		resp.Posts = append(resp.Posts, api.PostResponse{Post: posts[i], CanvasX: x, CanvasY: y})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")

	post, err := h.posts.Get(id, user.Email)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if r.URL.Query().Get("format") == "html" {
		h.writePostHTML(w, post)
		return
	}

	x, y := post.Position(0)
	writeJSON(w, http.StatusOK, api.PostResponse{Post: post, CanvasX: x, CanvasY: y})
}

// writePostHTML renders the post's generated content as sanitized HTML for
// embedding. Markdown should be rare (the model is asked for plain text) but
// content is rendered and sanitized regardless of where it came from.
func (h *Handler) writePostHTML(w http.ResponseWriter, post domain.Post) {
	content := ""
	if post.Content != nil {
		content = *post.Content
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(content), &buf); err != nil {
		logger.Log.Error("failed to render post content", "post", post.Id, "error", err)
		http.Error(w, "Can't render content", http.StatusInternalServerError)
		return
	}
	html := bluemonday.UGCPolicy().SanitizeBytes(buf.Bytes())

	writeJSON(w, http.StatusOK, api.PostHTMLResponse{Id: post.Id, HTML: string(html)})
}

// UpdatePosition reports {"updated": false} instead of an error status for a
// missing or non-owned post: the canvas applies positions optimistically and
// only needs to know whether the write stuck.
func (h *Handler) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")

	var req api.UpdatePositionRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	updated := h.posts.UpdatePosition(id, user.Email, *req.X, *req.Y)
	writeJSON(w, http.StatusOK, api.UpdatedResponse{Updated: updated})
}

func (h *Handler) AssignBoard(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")

	var req api.AssignBoardRequest
	if err := utils.Decode(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	var boardId *domain.BoardId
	if req.BoardId != "" {
		boardId = &req.BoardId
	}

	updated := h.posts.AssignBoard(id, user.Email, boardId)
	writeJSON(w, http.StatusOK, api.UpdatedResponse{Updated: updated})
}

func (h *Handler) GenerateContent(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")

	var req api.GenerateContentRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	content, err := h.summary.Generate(r.Context(), id, req.Prompt)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.GenerateContentResponse{Content: content})
}
