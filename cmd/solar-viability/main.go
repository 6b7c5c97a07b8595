package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/iwvelando/solar-viability/internal/analysis"
	"github.com/iwvelando/solar-viability/internal/config"
	"github.com/iwvelando/solar-viability/internal/logging"
	"github.com/iwvelando/solar-viability/pkg/constants"
	"github.com/iwvelando/solar-viability/pkg/export"
	"github.com/iwvelando/solar-viability/pkg/output"
	"github.com/iwvelando/solar-viability/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	exportDir := flag.String("export", "", "directory to write one JSON export per project")
	flag.Parse()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	results, err := analysis.GetAnalyses(logger, *conf)
	if err != nil {
		logger.Fatal("failed to compute viability",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(os.Stdout, results, conf.Output.CurrencySymbol)
	case constants.OutputFormatCSV:
		output.CsvFormat(os.Stdout, results)
	case constants.OutputFormatJSON:
		if err := output.JSONFormat(os.Stdout, results); err != nil {
			logger.Fatal("failed to write output",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}

	dir := conf.Output.ExportDir
	if *exportDir != "" {
		dir = *exportDir
	}
	if dir != "" {
		if err := writeExports(dir, results, time.Now()); err != nil {
			logger.Fatal("failed to write exports",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		logger.Info(fmt.Sprintf("wrote %d export files to %s", len(results), dir),
			zap.String("op", "main"),
		)
	}
}

// writeExports writes one export document per report into dir.
func writeExports(dir string, results []analysis.Report, now time.Time) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory %s: %w", dir, err)
	}

	for _, result := range results {
		path := filepath.Join(dir, export.FileName(result.Name))
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		writeErr := export.Write(file, export.Build(result.Name, result.Metrics, now))
		closeErr := file.Close()
		if writeErr != nil {
			return writeErr
		}
		if closeErr != nil {
			return fmt.Errorf("failed to close %s: %w", path, closeErr)
		}
	}
	return nil
}
