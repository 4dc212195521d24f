package commands

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bankflow/internal/iif"
	"github.com/cleared-dev/bankflow/internal/ui"
)

func newCheckCommand() *cobra.Command {
	var repoDir string

	cmd := &cobra.Command{
		Use:   "check [file.iif]",
		Short: "Validate an IIF export (default: the newest in exports/)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			} else {
				latest, err := latestExport(repoDir)
				if err != nil {
					return err
				}
				path = latest
			}

			res, err := iif.ValidateFile(path)
			if err != nil {
				return err
			}
			out := ui.New(cmd.OutOrStdout())
			out.Header(filepath.Base(path))
			printExportResult(out, res)
			if !res.Valid {
				return fmt.Errorf("%s: %d error(s)", path, len(res.Errors))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "project directory, used when no file is given")

	return cmd
}

// latestExport returns the newest export under repoDir. Export names are
// timestamps, so the last one by name is the newest.
func latestExport(repoDir string) (string, error) {
	paths, err := iif.List(repoDir)
	if err != nil {
		return "", err
	}
	if len(paths) == 0 {
		return "", errors.New("no exports in " + filepath.Join(repoDir, iif.ExportDir))
	}
	return paths[len(paths)-1], nil
}
