package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"kanban/internal/board"
	"kanban/internal/repository"
	"kanban/internal/service"
)

type failResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func fail(c echo.Context, code int, message string) error {
	return c.JSON(code, failResponse{Status: "fail", Message: message})
}

// resolveError maps a service error onto a status code and client message.
func resolveError(err error) (int, string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Error()
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, repository.ErrNotFound),
		errors.Is(err, board.ErrTaskNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, service.ErrUserExists):
		return http.StatusConflict, err.Error()
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict, "task was modified concurrently"
	case errors.Is(err, board.ErrDesynchronized):
		return http.StatusConflict, board.ErrDesynchronized.Error()
	case errors.Is(err, board.ErrIndexOutOfRange),
		errors.Is(err, board.ErrSameColumn),
		errors.Is(err, board.ErrInvalidStatus),
		errors.Is(err, board.ErrEmptyContents):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}
}

// respondError logs err under op and writes the mapped response.
func (s *Server) respondError(c echo.Context, op string, err error) error {
	code, message := resolveError(err)
	log := s.entry(c, op).WithError(err)
	if code >= http.StatusInternalServerError {
		log.Error("request failed")
	} else {
		log.Debug("request rejected")
	}
	return fail(c, code, message)
}
