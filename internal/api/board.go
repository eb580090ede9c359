package api

import "github.com/hardiksingla/insightboard/internal/domain"

// Request DTOs

type CreateBoardRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// Response DTOs

type BoardResponse struct {
	domain.Board
}

type BoardListResponse struct {
	Boards []BoardResponse `json:"boards"`
}
