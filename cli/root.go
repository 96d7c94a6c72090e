// Package cli is the command line entry point: the HTTP server and the
// offline maze tools.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/spf13/cobra"
)

// errReported marks failures whose message was already printed.
var errReported = errors.New("failed")

// NewRootCommand assembles the command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "vinom-maze",
		Short:         "Grid maze loader, solver and game server",
		Long:          `Load, validate, solve, generate and play text grid mazes, or serve them over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCommand(),
		newCheckCommand(),
		newSolveCommand(),
		newGenerateCommand(),
		newPlayCommand(),
	)
	return root
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a maze file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := maze.Load(args[0])
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", maze.KindOf(err), err)
				return errReported
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %dx%d start %s end %s\n", g.Height(), g.Width(), g.Start(), g.End())
			return nil
		},
	}
}
