package main

import (
	"time"

	"go.uber.org/zap"

	"recognicam-go/internal/config"
	"recognicam-go/internal/database"
	"recognicam-go/internal/logger"
	"recognicam-go/internal/models"
	"recognicam-go/internal/router"
	"recognicam-go/internal/scoring"
	"recognicam-go/internal/services"
	"recognicam-go/internal/session"
)

func main() {
	// Bootstrap logger with defaults; logging must exist before config
	// loading can be reported.
	log, err := logger.Init(logger.DefaultOptions("."))
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	if err := config.Init(".", log); err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Swap in the configured rotation policy now that config is loaded.
	lc := config.Conf.Logging
	log, err = logger.Init(logger.Options{
		Directory:  lc.Directory,
		MaxSize:    lc.MaxSize,
		MaxBackups: lc.MaxBackups,
		MaxAge:     lc.MaxAge,
		Compress:   lc.Compress,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	if err := database.Init(log); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}

	// Task profiles enrich behavioral-marker descriptions; the service
	// still scores unknown task types without them.
	catalog, err := models.LoadTaskCatalog(config.Conf.Server.TaskProfilesPath)
	if err != nil {
		log.Warn("Task catalog unavailable, using built-in marker text", zap.Error(err))
		catalog = &models.TaskCatalog{}
	}

	sessions := session.NewManager(config.Conf, log)
	sessions.StartSweeper()

	poller := services.NewPoller(
		time.Duration(config.Conf.Server.SnapshotPollMs)*time.Millisecond, log)

	scorer := scoring.NewScorer(config.Conf.Scoring, catalog)

	r := router.Setup(log, sessions, poller, scorer)

	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}
