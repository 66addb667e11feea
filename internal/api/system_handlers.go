package api

import (
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type memoryStats struct {
	Alloc     uint64 `json:"alloc"`
	Sys       uint64 `json:"sys"`
	HeapInuse uint64 `json:"heapInuse"`
}

type serverStatsResponse struct {
	Goroutines    int         `json:"goroutines"`
	Memory        memoryStats `json:"memory"`
	UptimeSeconds int64       `json:"uptimeSeconds"`
}

func (s *Server) healthz(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

// clientLog records an error reported by a browser. It always succeeds.
func (s *Server) clientLog(c echo.Context) error {
	const op = "api.clientLog"
	log := s.entry(c, op)

	var form clientLogForm
	if err := decode(c, &form); err != nil {
		log.WithError(err).Warn("unreadable client log")
		return c.JSON(http.StatusOK, map[string]bool{"success": true})
	}
	log.WithFields(logrus.Fields{
		"source":  "client",
		"context": form.Context,
		"stack":   form.Stack,
	}).Error(form.Message)
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) serverStats(c echo.Context) error {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	return c.JSON(http.StatusOK, serverStatsResponse{
		Goroutines: runtime.NumGoroutine(),
		Memory: memoryStats{
			Alloc:     mem.Alloc,
			Sys:       mem.Sys,
			HeapInuse: mem.HeapInuse,
		},
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
	})
}
