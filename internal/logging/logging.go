package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"kanban/internal/config"
)

// Setup builds the process logger for the given environment. In dev and prod
// the output goes to logFile when one is configured.
func Setup(env, logFile string) (*logrus.Logger, io.Closer, error) {
	log := logrus.New()

	var out io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}
	if logFile != "" && env != config.EnvLocal {
		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closer = f
	}
	log.SetOutput(out)

	switch env {
	case config.EnvLocal:
		log.SetLevel(logrus.DebugLevel)
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case config.EnvDev:
		log.SetLevel(logrus.InfoLevel)
		log.SetFormatter(&logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		})
	default:
		log.SetLevel(logrus.WarnLevel)
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	return log, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
