package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/application/dto"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/application/services"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/application/services/shared"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/entities"
	domainservices "github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/services"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/infrastructure/events"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/infrastructure/repositories/csv"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/infrastructure/repositories/memory"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/interfaces/cli/output"
)

// Config holds configuration for the replay command
type Config struct {
	ScenarioDir     string
	ItemsFile       string
	TemplatesFile   string
	OperationsFile  string
	TenantID        string
	OutputDir       string
	Format          string
	EventBufferSize int
	Verbose         bool
	Help            bool
}

// ReplayCommand loads a CSV scenario and replays its production journal
// through the workflow ledger, then renders the resulting workflows
type ReplayCommand struct {
	config Config
}

// NewReplayCommand creates a new replay command with the given configuration
func NewReplayCommand(config Config) *ReplayCommand {
	return &ReplayCommand{config: config}
}

// Execute runs the replay command
func (c *ReplayCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}
	files, err := c.resolveInputFiles()
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	loader := csv.NewLoader()
	items, err := loader.LoadItems(files["items"], c.config.TenantID)
	if err != nil {
		return err
	}
	templates, err := loader.LoadTemplates(files["templates"], c.config.TenantID)
	if err != nil {
		return err
	}
	operations, err := loader.LoadOperations(files["operations"])
	if err != nil {
		return err
	}

	if result := domainservices.NewTemplateValidator().ValidateTemplates(templates); !result.IsValid() {
		return fmt.Errorf("template file %s is invalid: %s", files["templates"], strings.Join(result.Errors, "; "))
	}

	itemRepo := memory.NewItemRepository()
	templateRepo := memory.NewTemplateRepository()
	workflowRepo := memory.NewWorkflowRepository()
	eventStore := events.NewBoundedInMemoryEventStore(c.config.EventBufferSize)
	service := services.NewWorkflowService(itemRepo, templateRepo, workflowRepo, eventStore)

	defaultTemplateID := templates[0].ID
	for _, template := range templates {
		if err := templateRepo.SaveTemplate(template); err != nil {
			return err
		}
		if template.IsDefault {
			defaultTemplateID = template.ID
		}
	}
	for _, item := range items {
		if _, err := service.RegisterItem(ctx, item, defaultTemplateID); err != nil {
			return err
		}
	}

	start := time.Now()
	workflowIDs, consumption, err := c.replay(ctx, service, operations)
	if err != nil {
		return err
	}
	replayTime := time.Since(start)

	var reports []*dto.WorkflowReport
	for _, workflowID := range workflowIDs {
		report, err := service.Report(ctx, workflowID)
		if err != nil {
			return err
		}
		reports = append(reports, report)

		conservation, err := service.CheckConservation(ctx, workflowID)
		if err != nil {
			return err
		}
		if !conservation.Balanced {
			log.Warn().Str("workflowId", workflowID).
				Int("violations", len(conservation.Violations)).
				Msg("workflow is not piece-conserving after replay")
		}
	}

	if c.config.Verbose {
		fmt.Printf("Journal entries: %d, total pieces consumed: %d\n\n",
			len(operations), consumption.TotalConsumed())
	}

	return output.Generate(reports, output.Config{
		Format:     c.config.Format,
		OutputDir:  c.config.OutputDir,
		Verbose:    c.config.Verbose,
		ReplayTime: replayTime,
		InputFiles: files,
	})
}

// replay applies the journal in order. Identifiers are resolved to workflow
// ids once and reused so later entries address the same instance.
func (c *ReplayCommand) replay(
	ctx context.Context,
	service *services.WorkflowService,
	operations []csv.OperationRecord,
) ([]string, shared.ConsumptionMap, error) {
	workflowByKey := make(map[string]string)
	var workflowIDs []string
	consumption := shared.NewConsumptionMap()

	for i, op := range operations {
		key := op.ItemID + "|" + op.Identifier
		workflowID, known := workflowByKey[key]

		workflow, err := service.GetOrCreateWorkflow(ctx, op.ItemID, op.OperationType, op.Identifier, workflowID)
		if err != nil {
			return nil, nil, fmt.Errorf("journal entry %d (%s %s): %w", i+1, op.Action, op.BatchID, err)
		}
		if !known {
			workflowByKey[key] = workflow.ID
			workflowIDs = append(workflowIDs, workflow.ID)
		}

		switch op.Action {
		case csv.ActionOutcome:
			err = service.RecordOutcome(ctx, workflow.ID, op.OperationType, c.buildLedger(workflow, op))
		case csv.ActionConsume:
			if err = service.Consume(ctx, workflow.ID, op.OperationType, op.BatchID, op.Pieces); err == nil {
				consumption.Add(workflow.ID, op.BatchID, op.Pieces)
			}
		case csv.ActionReturn:
			if err = service.ReturnPieces(ctx, workflow.ID, op.OperationType, op.BatchID, op.Pieces); err == nil {
				consumption.Add(workflow.ID, op.BatchID, -op.Pieces)
			}
		case csv.ActionDelete:
			err = service.MarkOutcomeDeleted(ctx, workflow.ID, op.OperationType, op.BatchID)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("journal entry %d (%s %s): %w", i+1, op.Action, op.BatchID, err)
		}
	}
	return workflowIDs, consumption, nil
}

// buildLedger picks the ledger variant for an outcome entry: the workflow's
// first step gets the aggregate forging ledger when it is a forging step,
// every other step reports independent batch outcomes.
func (c *ReplayCommand) buildLedger(workflow *entities.ItemWorkflow, op csv.OperationRecord) entities.OutcomeLedger {
	first := workflow.StepAtOrder(1)
	if first != nil && first.OperationType == op.OperationType && op.OperationType == entities.Forging {
		return &entities.ForgingOutcome{Outcome: entities.OutcomeEntry{
			BatchID:         op.BatchID,
			InitialPieces:   op.Pieces,
			AvailablePieces: op.Pieces,
		}}
	}
	ledger := entities.NewBatchOutcomeLedger()
	ledger.Merge([]entities.OutcomeEntry{{
		BatchID:         op.BatchID,
		InitialPieces:   op.Pieces,
		AvailablePieces: op.Pieces,
	}})
	return ledger
}

func (c *ReplayCommand) resolveInputFiles() (map[string]string, error) {
	files := map[string]string{
		"items":      c.config.ItemsFile,
		"templates":  c.config.TemplatesFile,
		"operations": c.config.OperationsFile,
	}
	if c.config.ScenarioDir != "" {
		defaults := map[string]string{
			"items":      "items.csv",
			"templates":  "templates.csv",
			"operations": "operations.csv",
		}
		for name, filename := range defaults {
			if files[name] == "" {
				files[name] = filepath.Join(c.config.ScenarioDir, filename)
			}
		}
	}
	for name, path := range files {
		if path == "" {
			return nil, fmt.Errorf("missing %s file: pass -scenario or -%s", name, name)
		}
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("cannot read %s file %s: %w", name, path, err)
		}
	}
	if c.config.TenantID == "" {
		return nil, fmt.Errorf("tenant id cannot be empty")
	}
	switch c.config.Format {
	case "text", "json":
	default:
		return nil, fmt.Errorf("unsupported output format: %s", c.config.Format)
	}
	return files, nil
}

func (c *ReplayCommand) showHelp() {
	fmt.Println(`forgectl replay - replay a production journal through the workflow ledger

Usage:
  forgectl -scenario <dir> [flags]

The scenario directory must contain items.csv, templates.csv and
operations.csv. Individual files can be overridden with -items,
-templates and -operations.

Flags:
  -scenario    Path to scenario directory containing CSV files
  -items       Path to items CSV file
  -templates   Path to templates CSV file
  -operations  Path to operations journal CSV file
  -tenant      Tenant id to load the scenario under (default "default")
  -output      Output directory for results (optional)
  -format      Output format: text, json (default "text")
  -verbose     Enable verbose output
  -help        Show this help message`)
}
