package api

import "github.com/hardiksingla/insightboard/internal/domain"

// Request DTOs

type UpdatePositionRequest struct {
	X *float64 `json:"x" validate:"required"`
	Y *float64 `json:"y" validate:"required"`
}

// AssignBoardRequest attaches a post to a board. An empty board id detaches
// the post ("Remove from Board").
type AssignBoardRequest struct {
	BoardId string `json:"board_id"`
}

type GenerateContentRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

// Response DTOs

// PostResponse carries the stored post plus the coordinates the canvas should
// draw it at (persisted position or the deterministic fallback layout).
type PostResponse struct {
	domain.Post
	CanvasX float64 `json:"canvasX"`
	CanvasY float64 `json:"canvasY"`
}

type PostListResponse struct {
	Posts []PostResponse `json:"posts"`
}

type PostHTMLResponse struct {
	Id   domain.PostId `json:"id"`
	HTML string        `json:"html"`
}

type UpdatedResponse struct {
	Updated bool `json:"updated"`
}

type GenerateContentResponse struct {
	Content string `json:"content"`
}
