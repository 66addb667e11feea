package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"kanban/internal/model"
)

type boardsResponse struct {
	Boards []model.Board `json:"boards"`
}

// boardResponse always renders the tasks array, even when empty.
type boardResponse struct {
	*model.Board
	Tasks []model.Task `json:"tasks"`
}

func (s *Server) listBoards(c echo.Context) error {
	const op = "api.listBoards"

	boards, err := s.boards.List(c.Request().Context(), currentUser(c))
	if err != nil {
		return s.respondError(c, op, err)
	}
	return c.JSON(http.StatusOK, boardsResponse{Boards: boards})
}

func (s *Server) createBoard(c echo.Context) error {
	const op = "api.createBoard"

	var form boardForm
	if err := decode(c, &form); err != nil {
		return s.respondError(c, op, err)
	}
	board, err := s.boards.Create(c.Request().Context(), currentUser(c), form.Name)
	if err != nil {
		return s.respondError(c, op, err)
	}
	return c.JSON(http.StatusCreated, board)
}

func (s *Server) getBoard(c echo.Context) error {
	const op = "api.getBoard"

	idx, err := parseIdx("idx", c.Param("idx"))
	if err != nil {
		return s.respondError(c, op, err)
	}
	board, err := s.boards.Get(c.Request().Context(), currentUser(c), idx)
	if err != nil {
		return s.respondError(c, op, err)
	}
	tasks := board.Tasks
	if tasks == nil {
		tasks = []model.Task{}
	}
	return c.JSON(http.StatusOK, boardResponse{Board: board, Tasks: tasks})
}

func (s *Server) deleteBoard(c echo.Context) error {
	const op = "api.deleteBoard"

	idx, err := parseIdx("idx", c.Param("idx"))
	if err != nil {
		return s.respondError(c, op, err)
	}
	if err := s.boards.Delete(c.Request().Context(), currentUser(c), idx); err != nil {
		return s.respondError(c, op, err)
	}
	s.entry(c, op).WithField("board", idx).Info("board deleted")
	return c.JSON(http.StatusOK, map[string]string{"message": "KanbanBoard deleted successfully"})
}
