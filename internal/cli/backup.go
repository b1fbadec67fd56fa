package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/swamp-dev/mastery/internal/backup"
)

var (
	backupOut     string
	backupReplace bool
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create and restore full JSON backups",
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Write every stored key to a JSON backup file",
	RunE:  runBackupCreate,
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Restore a JSON backup",
	Long: `Restore reads a backup created by 'mastery backup create', validates it and
writes its keys back. With --replace every existing key is removed first;
otherwise backed-up keys overwrite and other keys are kept.`,
	Args: cobra.ExactArgs(1),
	RunE: runBackupRestore,
}

func init() {
	backupCreateCmd.Flags().StringVarP(&backupOut, "out", "o", "", "output file (default export.dir/mastery-backup-<date>.json)")
	backupRestoreCmd.Flags().BoolVar(&backupReplace, "replace", false, "clear existing data before restoring")

	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupRestoreCmd)
}

func runBackupCreate(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	doc, err := a.backups.Create(cmd.Context())
	if err != nil {
		return err
	}

	path := backupOut
	if path == "" {
		path = filepath.Join(a.cfg.Export.Dir, backup.Filename(a.clock.Now()))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating backup directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := backup.Write(f, doc); err != nil {
		return err
	}
	fmt.Printf("✓ Backed up %d entries to %s\n", doc.Metadata.TotalEntries, path)
	return nil
}

func runBackupRestore(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening backup: %w", err)
	}
	defer f.Close()

	doc, err := backup.Read(f)
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.backups.Restore(cmd.Context(), doc, backupReplace)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Restored %d of %d entries from backup of %s\n",
		res.Restored, len(doc.Entries), doc.Metadata.BackupDate.Format("2006-01-02 15:04"))
	for _, k := range res.Failed {
		fmt.Printf("  ✗ %s\n", k)
	}
	if len(res.Failed) > 0 {
		return fmt.Errorf("%d entries could not be restored", len(res.Failed))
	}
	return nil
}
