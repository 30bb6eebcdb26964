package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/infrastructure/config"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/infrastructure/logging"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/interfaces/cli/commands"
)

func main() {
	// Command line flags
	var (
		scenarioDir = flag.String(
			"scenario",
			"",
			"Path to scenario directory containing CSV files",
		)
		itemsFile      = flag.String("items", "", "Path to items CSV file")
		templatesFile  = flag.String("templates", "", "Path to templates CSV file")
		operationsFile = flag.String("operations", "", "Path to operations journal CSV file")
		tenantID       = flag.String("tenant", "", "Tenant id to load the scenario under")
		outputDir      = flag.String("output", "", "Output directory for results (optional)")
		format         = flag.String("format", "text", "Output format: text, json")
		verbose        = flag.Bool("verbose", false, "Enable verbose output")
		help           = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logging.Init(cfg.AppName, cfg.AppLogLevel)

	tenant := *tenantID
	if tenant == "" {
		tenant = cfg.TenantID
	}

	cmd := commands.NewReplayCommand(commands.Config{
		ScenarioDir:     *scenarioDir,
		ItemsFile:       *itemsFile,
		TemplatesFile:   *templatesFile,
		OperationsFile:  *operationsFile,
		TenantID:        tenant,
		OutputDir:       *outputDir,
		Format:          *format,
		EventBufferSize: cfg.EventBufferSize,
		Verbose:         *verbose,
		Help:            *help,
	})

	if err := cmd.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
