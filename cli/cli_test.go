package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	squareMaze  = "5 5\n#####\n#S  #\n# # #\n#  E#\n#####\n"
	blockedMaze = "3 7\n#######\n#S #E #\n#######\n"
)

func writeMaze(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "maze.txt")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.Execute()
	return out.String(), err
}

func TestCheck(t *testing.T) {
	out, err := run(t, "", "check", writeMaze(t, squareMaze))
	require.NoError(t, err)
	assert.Equal(t, "ok: 5x5 start (1,1) end (3,3)\n", out)

	out, err = run(t, "", "check", writeMaze(t, "3 3\n###\n#S#\n"))
	assert.ErrorIs(t, err, errReported)
	assert.True(t, strings.HasPrefix(out, "MalformedFormat: "), out)

	out, err = run(t, "", "check", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
	assert.True(t, strings.HasPrefix(out, "ResourceNotFound: "), out)
}

func TestSolve(t *testing.T) {
	out, err := run(t, "", "solve", "--render", "--color=false", writeMaze(t, squareMaze))
	require.NoError(t, err)
	assert.Equal(t, "shortest path: 4 steps\n#####\n#@  #\n#*# #\n#**E#\n#####\n", out)

	out, err = run(t, "", "solve", writeMaze(t, blockedMaze))
	assert.ErrorIs(t, err, errReported)
	assert.Equal(t, "unsolvable\n", out)
}

func TestGenerate(t *testing.T) {
	a, err := run(t, "", "generate", "--cols", "6", "--rows", "4", "--seed", "3")
	require.NoError(t, err)
	b, err := run(t, "", "generate", "--cols", "6", "--rows", "4", "--seed", "3")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "9 13\n"), a)

	out, err := run(t, "", "check", writeMaze(t, a))
	require.NoError(t, err)
	assert.Contains(t, out, "ok: 9x13")

	_, err = run(t, "", "generate", "--cols", "0")
	assert.Error(t, err)
}

func TestPlay(t *testing.T) {
	out, err := run(t, "w\ndd\nss\nx\nd\n", "play", "--color=false", writeMaze(t, squareMaze))
	require.NoError(t, err)
	assert.Contains(t, out, "blocked")
	assert.Contains(t, out, "reached the end in 4 steps")
	assert.NotContains(t, out, "steps 5", "input after x is ignored")
}

func TestPlayReportsSolvabilityFirst(t *testing.T) {
	out, err := run(t, "x\n", "play", "--color=false", "--poll", "0", writeMaze(t, squareMaze))
	require.NoError(t, err)
	require.Contains(t, out, "solvable: shortest path 4 steps")
	assert.Less(t, strings.Index(out, "solvable: shortest path 4 steps"), strings.Index(out, playHelp))

	out, err = run(t, "q\nx\n", "play", "--color=false", "--poll", "0", writeMaze(t, blockedMaze))
	require.NoError(t, err)
	assert.Contains(t, out, "unsolvable\n")
	assert.Contains(t, out, "no path known")
}

func TestPlayAutoplayAndReset(t *testing.T) {
	out, err := run(t, "h\nd\nr\nq\n", "play", "--color=false", "--poll", "10ms", "--timeout", "2s", writeMaze(t, squareMaze))
	require.NoError(t, err)
	assert.Contains(t, out, "highlight on")
	assert.Contains(t, out, "reset")
	assert.Contains(t, out, "autoplay: 4 steps")
	assert.Contains(t, out, "#S  #\n", "reset clears highlights")
}
