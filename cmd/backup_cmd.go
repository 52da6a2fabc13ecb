package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/kebairia/catbackup/internal/operations"
	"github.com/kebairia/catbackup/internal/progress"
	"github.com/kebairia/catbackup/internal/prompt"
	"github.com/spf13/cobra"
)

// ErrNoUploads makes the process exit non-zero when nothing was archived.
var ErrNoUploads = errors.New("no pictures were uploaded")

type backupFlags struct {
	token string
	texts []string
	yes   bool
}

func newBackupCmd() *cobra.Command {
	var flags backupFlags

	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Fetch captioned cat pictures and upload them to the disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runBackup(ctx, cmd, flags)
		},
	}

	backupCmd.Flags().StringVarP(&flags.token, "token", "t", "", "disk token (overrides config, env and vault)")
	backupCmd.Flags().StringArrayVar(&flags.texts, "text", nil, "caption to back up; repeat for several (skips the caption prompt)")
	backupCmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "start without asking for confirmation")
	return backupCmd
}

func runBackup(ctx context.Context, cmd *cobra.Command, flags backupFlags) error {
	out := cmd.OutOrStdout()
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "CAT PICTURE BACKUP TO THE CLOUD DISK")
	fmt.Fprintln(out, strings.Repeat("=", 60))

	p := prompt.New(cmd.InOrStdin(), out)

	// 1) Token
	token, source, err := operations.ResolveToken(ctx, cfg, flags.token, p.Token)
	if err != nil {
		return err
	}
	if source != operations.TokenFromPrompt {
		fmt.Fprintf(out, "Token loaded from %s\n", source)
	}

	// 2) Captions
	texts := cleanTexts(flags.texts)
	if len(flags.texts) == 0 {
		if texts, err = p.Captions(); err != nil {
			return fmt.Errorf("read captions: %w", err)
		}
	}
	if len(texts) == 0 {
		fmt.Fprintln(out, "No captions entered, nothing to do.")
		return nil
	}

	// 3) Confirmation
	ok, err := p.Confirm(prompt.Options{Yes: flags.yes}, texts)
	if err != nil {
		return fmt.Errorf("read confirmation: %w", err)
	}
	if !ok {
		fmt.Fprintln(out, "Operation cancelled")
		return nil
	}
	fmt.Fprintln(out)

	// 4) Run
	om := operations.NewOperationManager(cfg, token,
		operations.WithLogger(log),
		operations.WithProgress(progress.NewBar(out, "Uploading pictures")),
	)
	report := om.BackupAll(ctx, texts)
	report.WriteSummary(out, cfg.Log.File)

	if !report.OK() {
		return ErrNoUploads
	}
	return nil
}

// cleanTexts drops captions that are blank after trimming.
func cleanTexts(texts []string) []string {
	var cleaned []string
	for _, t := range texts {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	return cleaned
}
