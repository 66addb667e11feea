package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"kanban/internal/board"
	"kanban/internal/repository"
	"kanban/internal/service"
)

func TestResolveError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{&service.ValidationError{Field: "name", Message: "required"}, http.StatusBadRequest},
		{service.ErrInvalidCredentials, http.StatusBadRequest},
		{fmt.Errorf("wrap: %w", service.ErrUnauthenticated), http.StatusUnauthorized},
		{fmt.Errorf("board 3: %w", service.ErrForbidden), http.StatusNotFound},
		{fmt.Errorf("find board: %w", repository.ErrNotFound), http.StatusNotFound},
		{service.ErrUserExists, http.StatusConflict},
		{fmt.Errorf("update task 1: %w", repository.ErrConflict), http.StatusConflict},
		{fmt.Errorf("%w: task 1: %w", board.ErrDesynchronized, errors.New("io")), http.StatusConflict},
		{board.ErrIndexOutOfRange, http.StatusBadRequest},
		{board.ErrSameColumn, http.StatusBadRequest},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if code, _ := resolveError(tc.err); code != tc.code {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.code, code)
		}
	}
}
