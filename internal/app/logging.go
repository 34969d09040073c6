package app

import (
	"io"

	log "github.com/sirupsen/logrus"
)

// NewLogger создаёт logger по настройкам. Логи пишутся в out (обычно stderr),
// чтобы не смешиваться с выводом команд.
func NewLogger(cfg LogConfig, out io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	logger := log.New()
	logger.SetOutput(out)
	logger.SetLevel(level)
	if cfg.Format == LogFormatJSON {
		logger.SetFormatter(&log.JSONFormatter{})
	} else {
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}
