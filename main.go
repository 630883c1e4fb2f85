package main

import (
	"context"
	"os"

	"github.com/locvowork/calendar_report/internal/bootstrap"
	"github.com/locvowork/calendar_report/internal/logger"
)

func main() {
	code := run(context.Background())
	logger.Close()
	os.Exit(code)
}

func run(ctx context.Context) int {
	app := bootstrap.NewApp()
	if err := app.Initialize(ctx); err != nil {
		logger.ErrorLog(ctx, "Failed to initialize application: %v", err)
		return 1
	}

	if err := app.Run(ctx); err != nil {
		logger.ErrorLog(ctx, "Application failed: %v", err)
		return 1
	}
	return 0
}
