package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AnshRaj112/bellaciao-guestbook/internal/export"
	"github.com/AnshRaj112/bellaciao-guestbook/internal/models"
	"github.com/AnshRaj112/bellaciao-guestbook/internal/services"
)

var (
	exportSearch string
	exportFilter string
	exportPage   int
	exportLimit  int
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write one page of guest entries as CSV",
	Long: `Runs the same query as the admin dashboard and writes that single page
in the dashboard's CSV format. --out auto names the file
<prefix>-entries-<date>.csv in the current directory.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportSearch, "search", "", "Match name (case-insensitive) or phone substring")
	exportCmd.Flags().StringVar(&exportFilter, "filter", "all", "Date filter: all, today or week")
	exportCmd.Flags().IntVar(&exportPage, "page", 1, "Page number")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 0, "Entries per page (default DEFAULT_PAGE_LIMIT)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "-", `Output file, "-" for stdout or "auto"`)
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	svc := services.NewEntryService(store, nil, services.EntryServiceOptions{
		Location:         cfg.Location,
		DefaultPageLimit: cfg.DefaultPageLimit,
		MaxPageLimit:     cfg.MaxPageLimit,
	})

	page, err := svc.List(ctx, models.EntryQuery{
		Search: exportSearch,
		Filter: models.ParseDateFilter(exportFilter),
		Page:   exportPage,
		Limit:  exportLimit,
	})
	if err != nil {
		return err
	}

	if exportOut == "-" {
		return export.WriteCSV(cmd.OutOrStdout(), page.Entries, svc.Location())
	}

	name := exportOut
	if name == "auto" {
		name = export.Filename(cfg.ExportPrefix, svc.Now().In(svc.Location()))
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := export.WriteCSV(f, page.Entries, svc.Location()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d entries to %s\n", len(page.Entries), name)
	return nil
}
