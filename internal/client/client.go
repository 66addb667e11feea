// Package client talks to the board API over HTTP. Its Client satisfies
// board.TaskStore so a Manager can run outside the server process.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"kanban/internal/model"
)

// ErrUnauthenticated is returned when the server rejects the session.
var ErrUnauthenticated = errors.New("unauthenticated")

// StatusError is a non-2xx answer other than 401.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Message)
}

// Client wraps http.Client with a cookie jar holding the session token.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New creates a Client for baseURL, e.g. "http://localhost:8080".
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Jar: jar, Timeout: 10 * time.Second},
	}, nil
}

func (c *Client) SignUp(ctx context.Context, nickname, password, email string) error {
	body := map[string]string{"nickname": nickname, "password": password, "email": email}
	return c.do(ctx, http.MethodPost, "/api/signUp", body, nil)
}

// Login stores the session cookie in the client's jar.
func (c *Client) Login(ctx context.Context, nickname, password string) error {
	body := map[string]string{"nickname": nickname, "password": password}
	return c.do(ctx, http.MethodPost, "/api/login", body, nil)
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/logout", nil, nil)
}

func (c *Client) CreateBoard(ctx context.Context, name string) (*model.Board, error) {
	var board model.Board
	if err := c.do(ctx, http.MethodPost, "/api/boards", map[string]string{"name": name}, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

func (c *Client) Boards(ctx context.Context) ([]model.Board, error) {
	var resp struct {
		Boards []model.Board `json:"boards"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/boards", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Boards, nil
}

func (c *Client) ListTasks(ctx context.Context, boardIdx uint) ([]model.Task, error) {
	var tasks []model.Task
	if err := c.do(ctx, http.MethodGet, tasksPath(boardIdx), nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, in model.NewTask) (*model.Task, error) {
	body := struct {
		Contents string       `json:"contents"`
		Status   model.Status `json:"status"`
		Location *int         `json:"location,omitempty"`
	}{in.Contents, in.Status, in.Location}

	var task model.Task
	if err := c.do(ctx, http.MethodPost, tasksPath(in.BoardIdx), body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) UpdateTask(ctx context.Context, taskIdx uint, patch model.TaskPatch) (*model.Task, error) {
	var task model.Task
	if err := c.do(ctx, http.MethodPut, taskPath(taskIdx), patch, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) DeleteTask(ctx context.Context, taskIdx uint) (*model.Task, error) {
	var task model.Task
	if err := c.do(ctx, http.MethodDelete, taskPath(taskIdx), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := sonic.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthenticated
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		var fail struct {
			Message string `json:"message"`
		}
		_ = sonic.Unmarshal(data, &fail)
		return &StatusError{Code: resp.StatusCode, Message: fail.Message}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func tasksPath(boardIdx uint) string {
	q := url.Values{"boardIdx": {strconv.FormatUint(uint64(boardIdx), 10)}}
	return "/api/tasks?" + q.Encode()
}

func taskPath(taskIdx uint) string {
	return "/api/tasks/" + strconv.FormatUint(uint64(taskIdx), 10)
}
