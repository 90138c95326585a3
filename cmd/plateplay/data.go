package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/abrezinsky/plateplay/internal/backup"
	"github.com/abrezinsky/plateplay/internal/locale"
	"github.com/abrezinsky/plateplay/internal/models"
	"github.com/abrezinsky/plateplay/internal/repository"
	"github.com/abrezinsky/plateplay/internal/services"
)

// store bundles the repository and board service used by offline commands
type store struct {
	repo   *repository.Repository
	boards *services.BoardService
}

func openStore(cmd *cobra.Command) (*store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	repo, err := repository.New(cfg.DB)
	if err != nil {
		return nil, err
	}
	log := newCommandLogger(cmd, cfg)
	return &store{
		repo:   repo,
		boards: services.NewBoardService(log, repo, services.NewSettingsService(log, repo)),
	}, nil
}

func ownerFlag(cmd *cobra.Command) (string, error) {
	owner, _ := cmd.Flags().GetString("owner")
	if owner == "" {
		return "", fmt.Errorf("--owner is required")
	}
	return owner, nil
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write every board to a JSONL backup (stdout without a file)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer s.repo.Close()

			var w io.Writer = cmd.OutOrStdout()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Create(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := backup.ExportJSONL(cmd.Context(), s.repo, w); err != nil {
				return err
			}
			if f, ok := w.(*os.File); ok && f != os.Stdout {
				return f.Sync()
			}
			return nil
		},
	}
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Load boards from a JSONL backup or JSON array for an owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := ownerFlag(cmd)
			if err != nil {
				return err
			}
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			boards, err := backup.ReadBoards(r)
			if err != nil {
				return err
			}

			s, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer s.repo.Close()

			result, err := importBoards(cmd.Context(), s.boards, owner, boards, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d created, %d updated, %d failed\n", result.Created, result.Updated, len(result.Failed))
			for _, f := range result.Failed {
				fmt.Fprintf(out, "  board #%d %s: %s\n", f.Index, f.ID, f.Error)
			}
			return nil
		},
	}
	cmd.Flags().String("owner", "", "owner the boards are imported for")
	return cmd
}

// importBoards stores boards for owner with a progress bar on progress
func importBoards(ctx context.Context, svc *services.BoardService, owner string, boards []models.Board, progress io.Writer) (*services.ImportResult, error) {
	bar := progressbar.NewOptions(len(boards),
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription("Importing boards"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	defer bar.Finish()

	return svc.ImportWithProgress(ctx, owner, boards, func() {
		_ = bar.Add(1)
	})
}

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create demo boards with generated dishes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := ownerFlag(cmd)
			if err != nil {
				return err
			}
			count, _ := cmd.Flags().GetInt("count")

			s, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer s.repo.Close()

			ids, err := s.boards.SeedSample(cmd.Context(), owner, count)
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return err
		},
	}
	cmd.Flags().String("owner", "", "owner of the demo boards")
	cmd.Flags().Int("count", 1, fmt.Sprintf("number of boards (1-%d)", services.MaxSeedBoards))
	return cmd
}

func newCoverageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coverage <board-id>",
		Short: "Show translation coverage of a board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := ownerFlag(cmd)
			if err != nil {
				return err
			}
			s, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer s.repo.Close()

			cov, err := s.boards.Coverage(cmd.Context(), owner, args[0])
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "LANG\tNAME\tFILLED\tPERCENT")
			for _, lang := range locale.Tracked {
				c := cov[lang]
				fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%d%%\n", lang, locale.Label(lang), c.Filled, c.Total, c.Percent)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().String("owner", "", "owner of the board")
	return cmd
}
