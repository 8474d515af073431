package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/streamdesk/internal/buildinfo"
	"github.com/dmitrijs2005/streamdesk/internal/logging"
	"github.com/dmitrijs2005/streamdesk/internal/server"
	"github.com/dmitrijs2005/streamdesk/internal/server/config"
	"github.com/dmitrijs2005/streamdesk/internal/server/httpapi"
	"github.com/gin-gonic/gin"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.New(os.Stdout, cfg.LogLevel)
	gin.SetMode(httpapi.Mode(cfg))

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
