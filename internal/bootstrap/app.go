package bootstrap

import (
	"context"
	"fmt"

	"github.com/locvowork/calendar_report/internal/calendar"
	"github.com/locvowork/calendar_report/internal/config"
	"github.com/locvowork/calendar_report/internal/logger"
	"github.com/locvowork/calendar_report/internal/report"
	"github.com/locvowork/calendar_report/internal/service"
	"github.com/locvowork/calendar_report/pkg/richtext"
	"github.com/locvowork/calendar_report/pkg/simpleexcel"
)

type App struct {
	Service    service.ReportService
	InputPath  string
	OutputPath string
}

func NewApp() *App {
	return &App{
		InputPath:  config.InputPath,
		OutputPath: config.OutputPath,
	}
}

func (a *App) Initialize(ctx context.Context, envFiles ...string) error {
	// Load environment configuration
	if err := config.LoadEnvConfig(envFiles...); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}

	// Initialize logging
	if err := logger.InitLogging(config.DefaultEnvConfig.LOG_FILE_PATH, config.DefaultEnvConfig.LOG_LEVEL); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	widthMode, err := simpleexcel.ParseWidthMode(config.DefaultEnvConfig.REPORT_WIDTH_MODE)
	if err != nil {
		return fmt.Errorf("invalid REPORT_WIDTH_MODE: %w", err)
	}

	layout := simpleexcel.DefaultLayout()
	if path := config.DefaultEnvConfig.REPORT_LAYOUT_PATH; path != "" {
		if layout, err = simpleexcel.LoadLayoutFile(path); err != nil {
			return fmt.Errorf("failed to load report layout: %w", err)
		}
		logger.InfoLog(ctx, "Using report layout %s", path)
	}

	var renderOpts []richtext.Option
	if config.DefaultEnvConfig.REPORT_COMPOSE_STYLES {
		renderOpts = append(renderOpts, richtext.WithComposedStyles())
	}

	// Initialize dependencies
	writer := report.NewWriter(
		report.WithLayout(layout),
		report.WithRenderer(richtext.NewRenderer(renderOpts...)),
		report.WithWidthMode(widthMode),
	)
	a.Service = service.NewReportService(calendar.NewDecoder(), writer)
	return nil
}

func (a *App) Run(ctx context.Context) error {
	if a.Service == nil {
		return fmt.Errorf("app is not initialized")
	}
	logger.InfoLog(ctx, "Exporting %s to %s", a.InputPath, a.OutputPath)
	return a.Service.Export(ctx, a.InputPath, a.OutputPath)
}
