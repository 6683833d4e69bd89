package main

import (
	"flag"
	"net/http"

	"github.com/sirupsen/logrus"

	"leavedesk/auth"
	"leavedesk/config"
	"leavedesk/database"
	"leavedesk/handlers"
	"leavedesk/leave"
	"leavedesk/logger"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.Server.LogLevel)

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logrus.Fatalf("Failed to open database: %v", err)
	}

	users := database.NewUserStore(db)
	leaves := database.NewLeaveStore(db)

	if err := database.EnsureAdmin(users, cfg.Admin); err != nil {
		logrus.Fatalf("Failed to ensure admin user: %v", err)
	}

	authenticator := auth.NewAuthenticator(users, auth.NewMemoryStore())
	engine := leave.NewEngine(leaves)
	handler := handlers.NewHandler(cfg, authenticator, engine)

	logrus.Infof("Starting server on %s", cfg.Server.Port)
	logrus.Infof("Database: %s", cfg.Database.Path)

	if err := http.ListenAndServe(cfg.Server.Port, handler.Routes()); err != nil {
		logrus.Fatalf("Could not start server: %s", err)
	}
}
