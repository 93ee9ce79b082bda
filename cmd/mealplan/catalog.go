package mealplan

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/saadjs/mealplan-cli/internal/service"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Export and import ingredients, meals and the schedule",
}

var (
	exportFormat   string
	exportOut      string
	exportSchedule bool
	importFormat   string
	importIn       string
	importMode     string
	importDryRun   bool
)

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog as json or yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := service.DetectFormat(exportFormat, exportOut)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			data, err := service.ExportCatalog(sqldb, exportSchedule)
			if err != nil {
				return err
			}
			if strings.TrimSpace(exportOut) == "" || exportOut == "-" {
				return service.EncodeCatalog(cmd.OutOrStdout(), data, format)
			}
			f, err := os.Create(exportOut)
			if err != nil {
				return fmt.Errorf("create export file: %w", err)
			}
			defer f.Close()
			if err := service.EncodeCatalog(f, data, format); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d ingredient(s) and %d meal(s) to %s\n", len(data.Ingredients), len(data.Meals), exportOut)
			return nil
		})
	},
}

var catalogImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a catalog or a plain ingredient list (json or yaml)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(importIn) == "" {
			return fmt.Errorf("--in is required")
		}
		format, err := service.DetectFormat(importFormat, importIn)
		if err != nil {
			return err
		}
		mode, err := service.ParseImportMode(importMode)
		if err != nil {
			return err
		}
		var r io.Reader
		if importIn == "-" {
			r = cmd.InOrStdin()
		} else {
			f, err := os.Open(importIn)
			if err != nil {
				return fmt.Errorf("open import file: %w", err)
			}
			defer f.Close()
			r = f
		}
		data, err := service.DecodeCatalog(r, format)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			report, err := service.ImportCatalog(sqldb, data, service.ImportOptions{
				Mode:     mode,
				DryRun:   importDryRun,
				Progress: importProgress(cmd, len(data.Ingredients)+len(data.Meals), "importing"),
			})
			if err != nil {
				return err
			}
			printImportReport(cmd.OutOrStdout(), report, importDryRun)
			return nil
		})
	},
}

func printImportReport(out io.Writer, report service.ImportReport, dryRun bool) {
	prefix := "Import report"
	if dryRun {
		prefix = "Dry run"
	}
	fmt.Fprintf(out, "%s: inserted=%d updated=%d skipped=%d conflicts=%d\n", prefix, report.Inserted, report.Updated, report.Skipped, report.Conflicts)
	for _, w := range report.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
}

var catalogPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Add new ingredients from the configured ingredients file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			report, err := service.PullIngredientsFile(sqldb)
			if err != nil {
				return err
			}
			printImportReport(cmd.OutOrStdout(), report, false)
			return nil
		})
	},
}

var catalogPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Write the ingredient catalog to the configured ingredients file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			path, err := service.IngredientsFilePath(sqldb)
			if err != nil {
				return err
			}
			if path == "" {
				return fmt.Errorf("no ingredients file configured; set %s first", service.ConfigIngredientsFile)
			}
			if err := service.WriteIngredientsFile(sqldb, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote ingredients to %s\n", path)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogExportCmd, catalogImportCmd, catalogPullCmd, catalogPushCmd)

	catalogExportCmd.Flags().StringVar(&exportFormat, "format", "", "json or yaml (default from --out extension, else json)")
	catalogExportCmd.Flags().StringVar(&exportOut, "out", "", "Output file (default stdout)")
	catalogExportCmd.Flags().BoolVar(&exportSchedule, "schedule", false, "Include the weekly schedule")
	catalogImportCmd.Flags().StringVar(&importFormat, "format", "", "json or yaml (default from --in extension, else json)")
	catalogImportCmd.Flags().StringVar(&importIn, "in", "", "Input file ('-' for stdin)")
	catalogImportCmd.Flags().StringVar(&importMode, "mode", string(service.ImportModeSkip), "Conflict mode: fail, skip, merge or replace")
	catalogImportCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Validate and report without writing")
}
