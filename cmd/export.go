package cmd

import (
	"context"
	"fmt"
	"os"

	"example.com/furnish/services/serial/config"
	"example.com/furnish/services/serial/internal/database"
	"example.com/furnish/services/serial/internal/models"
	"example.com/furnish/services/serial/internal/repository"
	"example.com/furnish/services/serial/internal/service"

	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportBranch string
	exportStatus string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the serial registry as CSV",
	Long: `Exports serial units matching the given filters as a CSV document,
to stdout or to a file. Useful for stock takes and ERP reconciliation.`,
	Run: func(cmd *cobra.Command, args []string) {
		runExport()
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout)")
	exportCmd.Flags().StringVar(&exportBranch, "branch", "", "Filter by warehouse id")
	exportCmd.Flags().StringVar(&exportStatus, "status", "", "Filter by lifecycle status")
}

// runExport renders the registry export
func runExport() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Info("Connecting to database...")
	db, err := database.Connect(&cfg.Database, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
	}()

	store := repository.NewGormStore(db)
	refs := repository.NewGormReferenceDirectory(db)
	svc := service.NewSerialService(store, refs, log)

	filter := repository.ListFilter{BranchID: exportBranch}
	if exportStatus != "" {
		status, ok := models.ParseUnitStatus(exportStatus)
		if !ok {
			log.Fatalf("Invalid status filter: %s", exportStatus)
		}
		filter.Status = &status
	}

	csvDoc, err := svc.ExportCSV(context.Background(), filter)
	if err != nil {
		log.Fatalf("Failed to export registry: %v", err)
	}

	if exportOutput == "" {
		fmt.Print(csvDoc)
		return
	}

	if err := os.WriteFile(exportOutput, []byte(csvDoc), 0o644); err != nil {
		log.Fatalf("Failed to write export file: %v", err)
	}
	log.Infof("Wrote export to %s", exportOutput)
}
