package main

import (
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/dan13ram/bridge-reactor/app"
	"github.com/dan13ram/bridge-reactor/bridge"
	"github.com/dan13ram/bridge-reactor/oracle"
	"github.com/dan13ram/bridge-reactor/settings"
)

func main() {

	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

	var configPath string
	var envPath string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.StringVar(&envPath, "env", "", "path to env file")
	flag.Parse()

	var absConfigPath string
	var absEnvPath string
	if configPath != "" {
		absConfigPath, _ = filepath.Abs(configPath)
	}
	if envPath != "" {
		absEnvPath, _ = filepath.Abs(envPath)
	}

	app.InitConfig(absConfigPath, absEnvPath)
	app.InitLogger()
	app.InitDB()

	client := oracle.NewClient(app.Config.Oracle)
	holder := settings.NewHolder(
		client,
		time.Duration(app.Config.Oracle.TimeoutMillis)*time.Millisecond,
		time.Duration(app.Config.Oracle.RetryDelayMs)*time.Millisecond,
	)
	holder.Init()

	store := bridge.NewStore(app.DB)
	builders, prefixes := NewTxBuilders()
	healthcheck := app.NewHealthCheck()

	deps := Dependencies{
		Store:    store,
		Oracle:   client,
		Settings: holder,
		Requests: bridge.NewRequestService(store, holder, builders, prefixes),
		Health:   healthcheck,
	}

	var wg sync.WaitGroup

	services := CreateServices(&wg, deps)
	healthcheck.SetServices(services)

	wg.Add(1)
	services = append(services, NewHealthService(&wg, healthcheck))

	for _, service := range services {
		go service.Start()
	}

	log.Info("[MAIN] Server started")

	gracefulStop := make(chan os.Signal, 1)
	done := make(chan bool, 1)
	signal.Notify(gracefulStop, syscall.SIGINT, syscall.SIGTERM)
	go waitForExitSignals(gracefulStop, done)
	<-done

	log.Debug("[MAIN] Stopping server gracefully")

	for _, service := range services {
		service.Stop()
	}

	wg.Wait()

	healthcheck.PostHealth()

	if err := app.DB.Disconnect(); err != nil {
		log.WithError(err).Error("[MAIN] Error disconnecting from database")
	}
	log.Info("[MAIN] Server stopped")
}

func waitForExitSignals(gracefulStop chan os.Signal, done chan bool) {
	sig := <-gracefulStop
	log.Debug("[MAIN] Got signal: ", sig)
	done <- true
}
