package app

import (
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// InitLogger applies the configured level and format to the standard logger.
// Unknown levels fall back to info.
func InitLogger() {
	level, err := log.ParseLevel(strings.TrimSpace(Config.Logger.Level))
	if err != nil {
		log.Warn("[LOGGER] Invalid log level ", Config.Logger.Level, ", using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)

	switch strings.ToLower(Config.Logger.Format) {
	case LogFormatJSON:
		log.SetFormatter(&log.JSONFormatter{})
	case LogFormatText, "":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		log.Warn("[LOGGER] Unknown log format ", Config.Logger.Format, ", using text")
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	log.WithField("level", level.String()).Info("[LOGGER] Logger initialized")
}
