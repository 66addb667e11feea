package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"kanban/internal/board"
	"kanban/internal/service"
)

type reloadResponse struct {
	Status         string        `json:"status"`
	Message        string        `json:"message"`
	ReloadRequired bool          `json:"reloadRequired"`
	Columns        board.Columns `json:"columns"`
}

func (s *Server) listTasks(c echo.Context) error {
	boardIdx, err := parseIdx("boardIdx", c.QueryParam("boardIdx"))
	if err != nil {
		return s.respondError(c, "api.listTasks", err)
	}
	return s.writeTasks(c, boardIdx)
}

func (s *Server) listBoardTasks(c echo.Context) error {
	boardIdx, err := parseIdx("idx", c.Param("idx"))
	if err != nil {
		return s.respondError(c, "api.listTasks", err)
	}
	return s.writeTasks(c, boardIdx)
}

func (s *Server) writeTasks(c echo.Context, boardIdx uint) error {
	tasks, err := s.tasks.List(c.Request().Context(), currentUser(c), boardIdx)
	if err != nil {
		return s.respondError(c, "api.listTasks", err)
	}
	return c.JSON(http.StatusOK, tasks)
}

func (s *Server) createTask(c echo.Context) error {
	boardIdx, err := parseIdx("boardIdx", c.QueryParam("boardIdx"))
	if err != nil {
		return s.respondError(c, "api.createTask", err)
	}
	return s.insertTask(c, boardIdx)
}

func (s *Server) createBoardTask(c echo.Context) error {
	boardIdx, err := parseIdx("idx", c.Param("idx"))
	if err != nil {
		return s.respondError(c, "api.createTask", err)
	}
	return s.insertTask(c, boardIdx)
}

func (s *Server) insertTask(c echo.Context, boardIdx uint) error {
	const op = "api.createTask"

	var form createTaskForm
	if err := decode(c, &form); err != nil {
		return s.respondError(c, op, err)
	}
	task, err := s.tasks.Create(c.Request().Context(), currentUser(c), boardIdx, service.CreateTaskInput{
		Contents: form.Contents,
		Status:   form.Status,
		Location: form.Location,
	})
	if err != nil {
		return s.respondError(c, op, err)
	}
	return c.JSON(http.StatusCreated, task)
}

func (s *Server) getTask(c echo.Context) error {
	const op = "api.getTask"

	idx, err := parseIdx("idx", c.Param("idx"))
	if err != nil {
		return s.respondError(c, op, err)
	}
	task, err := s.tasks.Get(c.Request().Context(), currentUser(c), idx)
	if err != nil {
		return s.respondError(c, op, err)
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) updateTask(c echo.Context) error {
	const op = "api.updateTask"

	idx, err := parseIdx("idx", c.Param("idx"))
	if err != nil {
		return s.respondError(c, op, err)
	}
	var form updateTaskForm
	if err := decode(c, &form); err != nil {
		return s.respondError(c, op, err)
	}
	task, err := s.tasks.Update(c.Request().Context(), currentUser(c), idx, service.UpdateTaskInput{
		Contents: form.Contents,
		Status:   form.Status,
		Location: form.Location,
		Version:  form.Version,
	})
	if err != nil {
		return s.respondError(c, op, err)
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) deleteTask(c echo.Context) error {
	const op = "api.deleteTask"

	idx, err := parseIdx("idx", c.Param("idx"))
	if err != nil {
		return s.respondError(c, op, err)
	}
	task, err := s.tasks.Delete(c.Request().Context(), currentUser(c), idx)
	if err != nil {
		return s.respondError(c, op, err)
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) columns(c echo.Context) error {
	const op = "api.columns"

	boardIdx, err := parseIdx("idx", c.Param("idx"))
	if err != nil {
		return s.respondError(c, op, err)
	}
	cols, err := s.tasks.Columns(c.Request().Context(), currentUser(c), boardIdx)
	if err != nil {
		return s.respondError(c, op, err)
	}
	return c.JSON(http.StatusOK, cols)
}

func (s *Server) move(c echo.Context) error {
	const op = "api.move"

	boardIdx, err := parseIdx("idx", c.Param("idx"))
	if err != nil {
		return s.respondError(c, op, err)
	}
	var mv board.Move
	if err := decode(c, &mv); err != nil {
		return s.respondError(c, op, err)
	}

	res, err := s.tasks.Move(c.Request().Context(), currentUser(c), boardIdx, mv)
	if err != nil {
		if errors.Is(err, board.ErrDesynchronized) && res != nil {
			s.entry(c, op).WithError(err).Warn("board desynchronized, sent fresh columns")
			return c.JSON(http.StatusConflict, reloadResponse{
				Status:         "fail",
				Message:        board.ErrDesynchronized.Error(),
				ReloadRequired: true,
				Columns:        res.Columns,
			})
		}
		return s.respondError(c, op, err)
	}
	return c.JSON(http.StatusOK, res)
}
