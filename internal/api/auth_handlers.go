package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"kanban/internal/service"
)

type signUpResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (s *Server) signUp(c echo.Context) error {
	const op = "api.signUp"

	var form signUpForm
	if err := decode(c, &form); err != nil {
		return s.respondError(c, op, err)
	}
	user, err := s.auth.SignUp(c.Request().Context(), service.SignUpInput{
		Nickname: form.Nickname,
		Password: form.Password,
		Email:    form.Email,
	})
	if err != nil {
		return s.respondError(c, op, err)
	}

	s.entry(c, op).WithField("user", user.Idx).Info("user signed up")
	return c.JSON(http.StatusOK, signUpResponse{
		Status:  http.StatusOK,
		Message: fmt.Sprintf("%s signup success", user.Nickname),
	})
}

func (s *Server) login(c echo.Context) error {
	const op = "api.login"

	var form loginForm
	if err := decode(c, &form); err != nil {
		return s.respondError(c, op, err)
	}
	token, user, err := s.auth.Login(c.Request().Context(), form.Nickname, form.Password)
	if err != nil {
		return s.respondError(c, op, err)
	}

	c.SetCookie(&http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.auth.TokenTTL().Seconds()),
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	s.entry(c, op).WithField("user", user.Idx).Info("user logged in")
	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     tokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out successfully"})
}
