package app

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
)

// readConfigFromENV overlays environment variables onto the loaded config.
// Variables that are not set leave the file values untouched.
func readConfigFromENV(envFile string) bool {
	if envFile != "" {
		err := godotenv.Load(envFile)
		if err != nil {
			log.Warn("[ENV] Error loading .env file: ", err.Error())
		} else {
			log.Debug("[ENV] Loaded env file: ", envFile)
		}
	}

	if err := envconfig.Process("", &Config); err != nil {
		log.Fatal("[ENV] Error reading config from env: ", err.Error())
	}

	if Config.Logger.Level == "" {
		log.Warn("[ENV] Setting LogLevel to debug")
		Config.Logger.Level = "debug"
	}

	return true
}
