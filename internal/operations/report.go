package operations

import (
	"fmt"
	"io"
	"strings"
)

// Report is the outcome of one BackupAll call.
type Report struct {
	RunID       string
	Folder      string
	Total       int
	Succeeded   int
	Records     []BackupRecord
	InfoFile    string
	Aborted     bool
	AbortReason string
}

// OK reports whether at least one picture was archived.
func (r Report) OK() bool {
	return r.Succeeded > 0
}

// WriteSummary prints the end-of-run block shown to the user.
func (r Report) WriteSummary(w io.Writer, logFile string) {
	rule := strings.Repeat("=", 50)

	fmt.Fprintf(w, "\n%s\n", rule)
	if r.Aborted {
		fmt.Fprintf(w, " BACKUP ABORTED: %s\n", r.AbortReason)
	} else {
		fmt.Fprintln(w, " BACKUP COMPLETE")
	}
	fmt.Fprintf(w, "%s\n", rule)
	fmt.Fprintf(w, " Uploaded: %d of %d pictures\n", r.Succeeded, r.Total)
	fmt.Fprintf(w, " Disk folder: %s\n", r.Folder)
	if r.InfoFile != "" {
		fmt.Fprintf(w, " Backup info file: %s\n", r.InfoFile)
	}
	if logFile != "" {
		fmt.Fprintf(w, " Operation log: %s\n", logFile)
	}
}
