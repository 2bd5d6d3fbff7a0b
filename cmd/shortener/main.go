package main

import (
	"fmt"

	"github.com/fsdevblog/linkshort/internal/app"
	"github.com/fsdevblog/linkshort/internal/bmeta"
	"github.com/fsdevblog/linkshort/internal/config"
	"go.uber.org/zap"
)

const serviceName = "shortener"

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	meta := bmeta.New(buildVersion, buildDate, buildCommit)
	meta.Print()

	if err := run(meta); err != nil {
		panic(err)
	}
}

func run(meta bmeta.Meta) error {
	appConf, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := app.NewLogger(appConf.Log, serviceName)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	flush, err := app.InitSentry(appConf, meta.Release(serviceName))
	if err != nil {
		return fmt.Errorf("init sentry: %w", err)
	}
	defer flush()

	a, err := app.New(*appConf, logger)
	if err != nil {
		logger.Error("failed to init app", zap.Error(err))
		return err
	}

	a.Logger.Info("Starting server",
		zap.String("address", appConf.ServerAddress),
		zap.String("baseURL", appConf.BaseURL),
		zap.Bool("https", appConf.EnableHTTPS),
	)
	if err = a.Run(); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		return err
	}
	return nil
}
