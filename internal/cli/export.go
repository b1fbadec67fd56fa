package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/swamp-dev/mastery/internal/career"
	"github.com/swamp-dev/mastery/internal/clock"
	"github.com/swamp-dev/mastery/internal/export"
)

var (
	exportFrom string
	exportTo   string
	exportOut  string
)

var exportCmd = &cobra.Command{
	Use:   "export <daily|tasks|domains|hollywood>",
	Short: "Export records as CSV",
	Long: `Export writes one of four CSV reports. Daily, tasks and domains cover a date
range (default: the last 30 days); hollywood covers every month with career data.

Use --out - to write to stdout.

Examples:
  mastery export daily
  mastery export tasks --from 2026-09-01 --to 2026-09-30
  mastery export hollywood --out -`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "first day (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "last day (YYYY-MM-DD, default today)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default export.dir/mastery-<kind>-<date>.csv)")
}

func runExport(cmd *cobra.Command, args []string) error {
	kind, err := export.ParseKind(args[0])
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	end := a.today()
	if exportTo != "" {
		if end, err = clock.ParseDate(exportTo); err != nil {
			return fmt.Errorf("invalid --to %q (want YYYY-MM-DD)", exportTo)
		}
	}
	start := end.AddDate(0, 0, -29)
	if exportFrom != "" {
		if start, err = clock.ParseDate(exportFrom); err != nil {
			return fmt.Errorf("invalid --from %q (want YYYY-MM-DD)", exportFrom)
		}
	}
	if start.After(end) {
		return fmt.Errorf("--from %s is after --to %s", clock.FormatDate(start), clock.FormatDate(end))
	}

	if exportOut == "-" {
		return writeExport(cmd.Context(), a, os.Stdout, kind, start, end)
	}

	path := exportOut
	if path == "" {
		path = filepath.Join(a.cfg.Export.Dir, export.Filename(kind, a.clock.Now()))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := writeExport(cmd.Context(), a, f, kind, start, end); err != nil {
		return err
	}
	fmt.Printf("Exported: %s\n", path)
	return nil
}

func writeExport(ctx context.Context, a *app, w io.Writer, kind export.Kind, start, end time.Time) error {
	switch kind {
	case export.Hollywood:
		months, err := a.career.Months(ctx)
		if err != nil {
			return err
		}
		counts := make([]career.Counts, len(months))
		for i, m := range months {
			counts[i] = a.career.Counts(ctx, m)
		}
		return export.WriteHollywood(w, counts)
	case export.Tasks:
		return export.WriteTasks(w, export.Load(ctx, a.store, start, end))
	case export.Domains:
		return export.WriteDomains(w, a.catalog, export.Load(ctx, a.store, start, end))
	default:
		return export.WriteDaily(w, a.catalog, export.Load(ctx, a.store, start, end))
	}
}
