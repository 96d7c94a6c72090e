package cli

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/beka-birhanu/vinom-maze/config"
	"github.com/beka-birhanu/vinom-maze/game"
	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/beka-birhanu/vinom-maze/render"
	"github.com/beka-birhanu/vinom-maze/solver"
	"github.com/spf13/cobra"
)

func newSolveCommand() *cobra.Command {
	var (
		draw    bool
		color   bool
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "solve <file>",
		Short: "Find the shortest path through a maze",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := maze.Load(args[0])
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", maze.KindOf(err), err)
				return errReported
			}

			s := game.NewSession(g)
			defer s.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			res, err := s.AwaitSolution(ctx)
			if err != nil {
				return fmt.Errorf("solver did not finish within %s: %w", timeout, err)
			}

			out := cmd.OutOrStdout()
			if res.Status != solver.Found {
				fmt.Fprintln(out, "unsolvable")
				return errReported
			}
			fmt.Fprintf(out, "shortest path: %d steps\n", len(res.Path)-1)
			if draw {
				fmt.Fprint(out, render.Session(s, render.Options{Color: color, Path: true, Explored: true}))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&draw, "render", false, "Draw the maze with the path.")
	cmd.Flags().BoolVar(&color, "color", true, "Use ANSI colours when drawing.")
	cmd.Flags().DurationVar(&timeout, "timeout", config.Envs.SolveTimeout, "Give up after this long.")
	return cmd
}

func newGenerateCommand() *cobra.Command {
	var (
		cols, rows int
		seed       int64
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print a random perfect maze in file format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			g, err := maze.Generate(cols, rows, rand.New(rand.NewSource(seed)))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), g.String())
			return nil
		},
	}
	cmd.Flags().IntVar(&cols, "cols", 10, "Number of room columns.")
	cmd.Flags().IntVar(&rows, "rows", 10, "Number of room rows.")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed; 0 picks one.")
	return cmd
}
