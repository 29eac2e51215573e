// cmd/cocoa-report/run.go
package main

import (
	"context"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/David-Botos/cocoa-report/pkg/cleaner"
	"github.com/David-Botos/cocoa-report/pkg/config"
	"github.com/David-Botos/cocoa-report/pkg/connector"
	"github.com/David-Botos/cocoa-report/pkg/converter"
	"github.com/David-Botos/cocoa-report/pkg/export"
	"github.com/David-Botos/cocoa-report/pkg/loader"
	"github.com/David-Botos/cocoa-report/pkg/model"
	"github.com/David-Botos/cocoa-report/pkg/pipeline"
)

// runReport wires the configured components and runs the pipeline once
func runReport(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	convCfg := converter.DefaultConfig()
	if cfg.NullValues != nil {
		convCfg.NullValues = cfg.NullValues
	}
	typeConverter := converter.NewTypeConverterWithConfig(logger.Named("converter"), convCfg)

	dataCleaner, err := cleaner.NewDataCleaner(typeConverter, logger.Named("cleaner"))
	if err != nil {
		return err
	}

	factory := connector.NewConnectorFactory(cfg, logger.Named("connector"))

	var source loader.Loader
	switch cfg.Source {
	case config.SourceSnowflake:
		sf, err := factory.CreateSnowflakeConnector(ctx)
		if err != nil {
			return err
		}
		defer closeConnector(logger, sf)
		source = loader.NewSnowflakeLoader(sf, cfg.Item, model.SourceAreas(), logger.Named("loader"))
	default:
		source = loader.NewCSVLoader(cfg.InputPath, cfg.Delimiter, logger.Named("loader"))
	}

	p, err := pipeline.NewReportPipeline(source, dataCleaner, pipeline.Options{
		Item:       cfg.Item,
		Countries:  model.SourceAreas(),
		OutputPath: cfg.OutputPath,
		XLSXPath:   cfg.XLSXPath,
		Show:       cfg.Show,
	}, logger)
	if err != nil {
		return err
	}

	if cfg.PGExport {
		pg, err := factory.CreatePostgresConnector(ctx)
		if err != nil {
			return err
		}
		defer closeConnector(logger, pg)
		p.WithSink(export.NewPostgresSink(pg, pg.Schema(), logger.Named("export")))
	}

	logger.Info("Starting cocoa report",
		zap.String("runId", p.RunID()),
		zap.String("source", cfg.Source),
		zap.String("output", cfg.OutputPath))

	_, err = p.Run(ctx)
	return err
}

func closeConnector(logger *zap.Logger, c connector.DatabaseConnector) {
	if err := c.Close(); err != nil {
		logger.Warn("Failed to close connection",
			zap.String("driver", c.DriverName()),
			zap.Error(err))
	}
}
