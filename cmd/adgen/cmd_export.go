package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"adgen/internal/export"
)

var (
	exportID  string
	exportOut string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a saved campaign",
	Long: `Exports the selected campaign (latest by default) as a JSON document or a
zip bundle. The bundle holds the campaign document, keyword and variation
sidecars, and every asset previously generated for this campaign with the
asset commands.`,
}

var exportJSONCmd = &cobra.Command{
	Use:   "json",
	Short: "Export the campaign as a JSON document",
	RunE:  func(cmd *cobra.Command, args []string) error { return runExport(false) },
}

var exportZipCmd = &cobra.Command{
	Use:   "zip",
	Short: "Export the campaign as a zip bundle",
	RunE:  func(cmd *cobra.Command, args []string) error { return runExport(true) },
}

func runExport(asZip bool) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	item, err := findHistoryItem(a, exportID)
	if err != nil {
		return err
	}
	a.campaignID = item.ID
	a.orch.LoadHistoryItem(*item)
	snap := a.orch.Snapshot()

	var (
		data []byte
		name string
	)
	if asZip {
		export.LoadAssets(a.assetDir(), &snap)
		data, name, err = export.ExportZip(snap)
	} else {
		data, name, err = export.ExportJSON(snap)
	}
	if err != nil {
		return err
	}

	outDir := exportOut
	if outDir == "" {
		outDir = a.cfg.Export.Directory
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(outDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	fmt.Printf("Exported %s\n", path)
	return nil
}

func init() {
	exportCmd.PersistentFlags().StringVar(&exportID, "id", "latest", "history item id to export")
	exportCmd.PersistentFlags().StringVar(&exportOut, "out", "", "output directory (default from config)")
	exportCmd.AddCommand(exportJSONCmd, exportZipCmd)
	rootCmd.AddCommand(exportCmd)
}
