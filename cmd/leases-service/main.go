package main

import (
	"fmt"
	"os"

	"github.com/aibek/estate-leases/internal/auth"
	"github.com/aibek/estate-leases/internal/config"
	"github.com/aibek/estate-leases/internal/db"
	httphandler "github.com/aibek/estate-leases/internal/http"
	"github.com/aibek/estate-leases/internal/http/middleware"
	"github.com/aibek/estate-leases/internal/logger"
	"github.com/aibek/estate-leases/internal/repository"
	"github.com/aibek/estate-leases/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	scheduleRepo := repository.NewScheduleRepository(database)
	scheduleService := service.NewScheduleService(scheduleRepo, log)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(scheduleService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment, cfg.HTTP.AllowedOrigins)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting leases service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
