package handler

import (
	"net/http"

	"github.com/hardiksingla/insightboard/internal/api"
	"github.com/hardiksingla/insightboard/internal/middleware"
	"github.com/hardiksingla/insightboard/internal/utils"
)

func (h *Handler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}

	var req api.CreateBoardRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	board, err := h.boards.Create(user.Email, req.Name, req.Description)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, api.BoardResponse{Board: board})
}

func (h *Handler) GetBoards(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}

	boards, err := h.boards.All(user.Email)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	resp := api.BoardListResponse{Boards: make([]api.BoardResponse, 0, len(boards))}
	for _, b := range boards {
		resp.Boards = append(resp.Boards, api.BoardResponse{Board: b})
	}
	writeJSON(w, http.StatusOK, resp)
}
