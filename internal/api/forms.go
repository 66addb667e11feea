package api

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"

	"kanban/internal/service"
)

const maxBodySize = 64 << 10

type signUpForm struct {
	Nickname string `json:"nickname"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type loginForm struct {
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

type boardForm struct {
	Name string `json:"name"`
}

type createTaskForm struct {
	Contents string `json:"contents"`
	Status   string `json:"status"`
	Location *int   `json:"location"`
}

type updateTaskForm struct {
	Contents *string `json:"contents"`
	Status   *string `json:"status"`
	Location *int    `json:"location"`
	Version  *int    `json:"version"`
}

type clientLogForm struct {
	Message string `json:"message"`
	Context any    `json:"context"`
	Stack   string `json:"stack"`
}

// decode reads a JSON body into dst. Any failure is a validation error.
func decode(c echo.Context, dst any) error {
	dec := sonic.ConfigStd.NewDecoder(io.LimitReader(c.Request().Body, maxBodySize))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return &service.ValidationError{Field: "body", Message: "request body is required"}
		}
		return &service.ValidationError{Field: "body", Message: "invalid JSON body"}
	}
	return nil
}

// parseIdx parses a positive decimal id.
func parseIdx(field, raw string) (uint, error) {
	raw = strings.TrimSpace(raw)
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, &service.ValidationError{Field: field, Message: "must be a positive integer"}
	}
	return uint(n), nil
}
