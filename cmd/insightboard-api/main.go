package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/hardiksingla/insightboard/internal/config"
	"github.com/hardiksingla/insightboard/internal/logger"
	"github.com/hardiksingla/insightboard/internal/router"
	"github.com/hardiksingla/insightboard/internal/setup"
)

func main() {
	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	deps, err := setup.SetupDependencies(cfg)
	if err != nil {
		logger.Log.Error("failed to initialize dependencies", "error", err)
		os.Exit(1)
	}
	defer deps.Storage.Cleanup()

	r := router.New(deps)

	httpPort := os.Getenv("PORT")
	if httpPort == "" {
		httpPort = fmt.Sprintf("%d", cfg.Public.Port)
	}

	logger.Log.Info("server started", "port", httpPort)
	if err := http.ListenAndServe(":"+httpPort, r); err != nil {
		logger.Log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
