package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/kebairia/catbackup/internal/operations"
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <backup-info-file>",
		Short: "Print the records of a backup info file (.json or .json.zst)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := operations.LoadBackupInfo(args[0])
			if err != nil {
				return err
			}
			return printRecords(cmd.OutOrStdout(), records)
		},
	}
}

func printRecords(out io.Writer, records []operations.BackupRecord) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILENAME\tSIZE\tCREATED\tPATH\tTEXT")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", r.Filename, r.Size, r.Created, r.Path, r.Text)
	}
	fmt.Fprintf(w, "\n%d files\n", len(records))
	return w.Flush()
}
