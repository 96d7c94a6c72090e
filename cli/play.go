package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/beka-birhanu/vinom-maze/config"
	"github.com/beka-birhanu/vinom-maze/game"
	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/beka-birhanu/vinom-maze/render"
	"github.com/beka-birhanu/vinom-maze/solver"
	"github.com/spf13/cobra"
)

const playHelp = "w/a/s/d move  h highlight  q autoplay  r reset  x exit"

func newPlayCommand() *cobra.Command {
	var (
		color    bool
		interval time.Duration
		timeout  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "play <file>",
		Short: "Play a maze in the terminal",
		Long:  "Play a maze in the terminal, one command per line: " + playHelp + ".",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := maze.Load(args[0])
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", maze.KindOf(err), err)
				return errReported
			}

			s := game.NewSession(g)
			defer s.Close()
			p := &player{
				session:  s,
				out:      cmd.OutOrStdout(),
				opts:     render.Options{Color: color},
				interval: interval,
				timeout:  timeout,
			}
			return p.run(cmd.InOrStdin())
		},
	}
	cmd.Flags().BoolVar(&color, "color", true, "Use ANSI colours.")
	cmd.Flags().DurationVar(&interval, "poll", config.Envs.SolvePollInterval, "Interval between solver polls.")
	cmd.Flags().DurationVar(&timeout, "timeout", config.Envs.SolveTimeout, "How long play waits for the solver.")
	return cmd
}

type player struct {
	session  *game.Session
	out      io.Writer
	opts     render.Options
	interval time.Duration
	timeout  time.Duration
}

func (p *player) draw(note string) {
	fmt.Fprint(p.out, render.Session(p.session, p.opts))
	fmt.Fprintln(p.out, render.Status(p.session))
	if note != "" {
		fmt.Fprintln(p.out, note)
	}
}

// solvability waits for the solver once, before play starts.
func (p *player) solvability() string {
	if p.session.AwaitSolvable(p.interval, p.timeout) {
		return fmt.Sprintf("solvable: shortest path %d steps", len(p.session.Solution())-1)
	}
	if p.session.SolverStatus() == solver.Pending {
		return fmt.Sprintf("no path found within %s, treating the maze as unsolvable", p.timeout)
	}
	return "unsolvable"
}

// run reports solvability, then reads commands until x or the end of input.
func (p *player) run(in io.Reader) error {
	p.draw(p.solvability() + "\n" + playHelp)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		for _, key := range strings.TrimSpace(scanner.Text()) {
			if !p.handle(key) {
				return nil
			}
		}
	}
	return scanner.Err()
}

// handle applies one key and reports whether play continues.
func (p *player) handle(key rune) bool {
	note := ""
	switch key {
	case 'x':
		return false
	case 'h':
		if p.session.ToggleHighlight() {
			note = "highlight on"
		} else {
			note = "highlight off"
		}
	case 'r':
		p.session.Reset()
		note = "reset"
	case 'q':
		if !p.session.AwaitSolvable(p.interval, p.timeout) {
			note = "no path known"
			break
		}
		moves := p.session.AutoPlay()
		note = fmt.Sprintf("autoplay: %d steps", len(moves))
	default:
		dir, err := maze.ParseDirection(string(key))
		if err != nil {
			note = playHelp
			break
		}
		wasFinished := p.session.Finished()
		if m := p.session.Step(dir); !m.Moved() {
			note = "blocked"
		}
		if !wasFinished && p.session.Finished() {
			note = fmt.Sprintf("reached the end in %d steps", p.session.Steps())
		}
	}
	p.draw(note)
	return true
}
