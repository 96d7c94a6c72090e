package maze

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	corridorMaze = "3 5\n#####\n#S E#\n#####\n"
	dottedMaze   = "5 7\n#######\n#S.  .#\n# ### #\n#.   E#\n#######\n"
)

func TestParseValid(t *testing.T) {
	t.Run("corridor", func(t *testing.T) {
		g, err := Parse(strings.NewReader(corridorMaze))
		require.NoError(t, err)

		assert.Equal(t, 5, g.Width())
		assert.Equal(t, 3, g.Height())
		assert.Equal(t, Position{X: 1, Y: 1}, g.Start())
		assert.Equal(t, Position{X: 3, Y: 1}, g.End())

		c, ok := g.CellAt(Position{X: 2, Y: 1})
		assert.True(t, ok)
		assert.Equal(t, Path, c)
	})

	t.Run("windows line endings", func(t *testing.T) {
		text := strings.ReplaceAll(corridorMaze, "\n", "\r\n")
		g, err := Parse(strings.NewReader(text))
		require.NoError(t, err)
		assert.Equal(t, corridorMaze, g.String())
	})

	t.Run("lines after the grid are ignored", func(t *testing.T) {
		g, err := Parse(strings.NewReader(corridorMaze + "trailing notes\n"))
		require.NoError(t, err)
		assert.Equal(t, 3, g.Height())
	})

	t.Run("round trip is byte identical", func(t *testing.T) {
		for _, text := range []string{corridorMaze, dottedMaze} {
			g, err := Parse(strings.NewReader(text))
			require.NoError(t, err)

			out, err := g.MarshalText()
			require.NoError(t, err)
			assert.Equal(t, text, string(out))
		}
	})

	t.Run("every row has the declared width", func(t *testing.T) {
		g, err := Parse(strings.NewReader(dottedMaze))
		require.NoError(t, err)
		for _, row := range g.Rows() {
			assert.Len(t, row, g.Width())
		}
		assert.Equal(t, 1, g.Height()%2)
		assert.Equal(t, 1, g.Width()%2)
	})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		kind ErrorKind
		line int
	}{
		{name: "missing end", text: "3 3\n###\n#S#\n", kind: MalformedFormat},
		{name: "empty input", text: "", kind: MalformedFormat, line: 1},
		{name: "non numeric dimensions", text: "a b\n", kind: MalformedFormat, line: 1},
		{name: "single dimension", text: "3\n###\n", kind: MalformedFormat, line: 1},
		{name: "extra dimension", text: "3 5 7\n", kind: MalformedFormat, line: 1},
		{name: "zero height", text: "0 5\n", kind: MalformedFormat, line: 1},
		{name: "negative width", text: "3 -5\n", kind: MalformedFormat, line: 1},
		{name: "short row", text: "3 5\n####\n#S E#\n#####\n", kind: SizeMismatch, line: 2},
		{name: "long row", text: "3 5\n#####\n#S  E#\n#####\n", kind: SizeMismatch, line: 3},
		{name: "unexpected character", text: "3 5\n#####\n#SXE#\n#####\n", kind: UnexpectedCharacter, line: 3},
		{name: "highlight is not a file character", text: "3 5\n#####\n#SHE#\n#####\n", kind: UnexpectedCharacter, line: 3},
		{name: "two starts", text: "3 5\n#####\n#SSE#\n#####\n", kind: MalformedFormat},
		{name: "no start", text: "3 5\n#####\n#  E#\n#####\n", kind: MalformedFormat},
		{name: "last row open", text: "3 5\n#####\n#S E#\n## ##\n", kind: SizeMismatch, line: 4},
		{name: "fewer rows than declared", text: "5 5\n#####\n#S E#\n#####\n", kind: SizeMismatch},
		{name: "even height", text: "4 5\n#####\n#S E#\n#   #\n#####\n", kind: MalformedFormat, line: 1},
		{name: "even width", text: "3 4\n####\n#SE#\n####\n", kind: MalformedFormat, line: 1},
		{name: "open first row", text: "3 5\n## ##\n#S E#\n#####\n", kind: MalformedFormat},
		{name: "open side column", text: "3 5\n#####\nS  E#\n#####\n", kind: MalformedFormat},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, err := Parse(strings.NewReader(tc.text))
			require.Error(t, err)
			assert.Nil(t, g)

			var le *LoadError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, tc.kind, le.Kind)
			assert.Equal(t, tc.kind, KindOf(err))
			if tc.line > 0 {
				assert.Equal(t, tc.line, le.Line)
			}
		})
	}
}

func TestUnexpectedCharacterIsMalformed(t *testing.T) {
	_, err := Parse(strings.NewReader("3 5\n#####\n#S?E#\n#####\n"))
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrUnexpectedCharacter)
	assert.ErrorIs(t, err, ErrMalformedFormat)
	assert.NotErrorIs(t, err, ErrSizeMismatch)
	assert.Contains(t, err.Error(), "'?'")

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, '?', le.Char)
}

func TestParseLongLines(t *testing.T) {
	const wide = 1<<20 + 1

	t.Run("oversized row is a size mismatch", func(t *testing.T) {
		text := "3 5\n#####\n" + strings.Repeat("#", 2<<20) + "\n#####\n"
		_, err := Parse(strings.NewReader(text))
		require.Error(t, err)
		assert.Equal(t, SizeMismatch, KindOf(err))
		assert.NotErrorIs(t, err, ErrResourceNotFound)

		var le *LoadError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, 3, le.Line)
	})

	t.Run("rows wider than a scanner buffer load", func(t *testing.T) {
		walls := strings.Repeat("#", wide)
		text := fmt.Sprintf("3 %d\n%s\n#S%sE#\n%s\n", wide, walls, strings.Repeat(" ", wide-4), walls)
		g, err := Parse(strings.NewReader(text))
		require.NoError(t, err)
		assert.Equal(t, wide, g.Width())
		assert.Equal(t, Position{X: wide - 2, Y: 1}, g.End())
	})

	t.Run("last line without newline", func(t *testing.T) {
		g, err := Parse(strings.NewReader(strings.TrimSuffix(corridorMaze, "\n")))
		require.NoError(t, err)
		assert.Equal(t, corridorMaze, g.String())
	})
}

func TestLoad(t *testing.T) {
	t.Run("reads a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "maze.txt")
		require.NoError(t, os.WriteFile(path, []byte(dottedMaze), 0o600))

		g, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, dottedMaze, g.String())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrResourceNotFound)
		assert.ErrorIs(t, err, fs.ErrNotExist)
		assert.NotErrorIs(t, err, ErrMalformedFormat)
	})

	t.Run("read failure", func(t *testing.T) {
		_, err := Parse(iotest.ErrReader(errors.New("disk on fire")))
		require.Error(t, err)
		assert.Equal(t, ResourceNotFound, KindOf(err))
	})
}
