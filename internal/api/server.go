package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"kanban/internal/service"
)

// Server holds the HTTP handlers of the board API.
type Server struct {
	auth   *service.AuthService
	boards *service.BoardService
	tasks  *service.TaskService
	log    *logrus.Logger

	cookieSecure bool
	started      time.Time
}

// Options configures a Server.
type Options struct {
	CookieSecure bool
}

func New(auth *service.AuthService, boards *service.BoardService, tasks *service.TaskService, log *logrus.Logger, opts Options) *Server {
	return &Server{
		auth:         auth,
		boards:       boards,
		tasks:        tasks,
		log:          log,
		cookieSecure: opts.CookieSecure,
		started:      time.Now(),
	}
}

// NewEcho returns an echo instance with the common middleware installed.
func NewEcho(log *logrus.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = httpErrorHandler(log)

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(log))
	e.Use(middleware.Recover())
	return e
}

// Register wires up all API routes on the provided Echo instance.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/healthz", s.healthz)

	api := e.Group("/api")
	api.POST("/signUp", s.signUp)
	api.POST("/login", s.login)
	api.POST("/logout", s.logout)
	api.POST("/logs", s.clientLog)
	api.GET("/server-stats", s.serverStats)

	authed := api.Group("", s.session)
	authed.GET("/boards", s.listBoards)
	authed.POST("/boards", s.createBoard)
	authed.GET("/boards/:idx", s.getBoard)
	authed.DELETE("/boards/:idx", s.deleteBoard)
	authed.GET("/boards/:idx/tasks", s.listBoardTasks)
	authed.POST("/boards/:idx/tasks", s.createBoardTask)
	authed.GET("/boards/:idx/columns", s.columns)
	authed.POST("/boards/:idx/moves", s.move)

	authed.GET("/tasks", s.listTasks)
	authed.POST("/tasks", s.createTask)
	authed.GET("/tasks/:idx", s.getTask)
	authed.PUT("/tasks/:idx", s.updateTask)
	authed.DELETE("/tasks/:idx", s.deleteTask)
}
