package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/application/dto"
)

// Config holds configuration for output generation
type Config struct {
	Format     string
	OutputDir  string
	Verbose    bool
	ReplayTime time.Duration
	InputFiles map[string]string
}

// Generate renders replayed workflow reports in the specified format
func Generate(reports []*dto.WorkflowReport, config Config) error {
	switch config.Format {
	case "text":
		return generateTextOutput(reports, config)
	case "json":
		return generateJSONOutput(reports, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

func generateTextOutput(reports []*dto.WorkflowReport, config Config) error {
	fmt.Printf("Workflow Ledger Summary\n")
	fmt.Printf("=======================\n\n")
	fmt.Printf("Workflows: %d\n", len(reports))
	fmt.Printf("Replay Time: %v\n\n", config.ReplayTime)

	for _, report := range reports {
		fmt.Printf("Workflow %s  item=%s  identifier=%q  status=%s\n",
			report.WorkflowID, report.ItemCode, report.Identifier, report.Status)
		fmt.Printf("%-16s %-6s %-12s %-10s %-10s\n",
			"Operation", "Order", "Status", "Initial", "Available")
		fmt.Printf("%-16s %-6s %-12s %-10s %-10s\n",
			"----------------", "------", "------------", "----------", "----------")
		for _, step := range report.Steps {
			fmt.Printf("%-16s %-6d %-12s %-10d %-10d\n",
				step.OperationType, step.StepOrder, step.Status,
				step.InitialPieces, step.PiecesAvailableForNext)
			if config.Verbose {
				for _, outcome := range step.Outcomes {
					marker := ""
					if outcome.Deleted {
						marker = " (deleted)"
					}
					fmt.Printf("    batch %-12s initial=%-6d available=%-6d%s\n",
						outcome.BatchID, outcome.InitialPieces, outcome.AvailablePieces, marker)
				}
			}
		}
		fmt.Println()
	}
	return nil
}

func generateJSONOutput(reports []*dto.WorkflowReport, config Config) error {
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal reports: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Println(string(data))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(config.OutputDir, "workflows.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
