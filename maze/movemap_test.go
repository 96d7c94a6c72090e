package maze

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const squareMaze = "5 5\n#####\n#S  #\n# # #\n#  E#\n#####\n"

func TestMoveMapValid(t *testing.T) {
	g := mustParse(t, squareMaze)
	m := NewMoveMap(g)

	assert.Equal(t, 5, m.Width())
	assert.Equal(t, 5, m.Height())

	assert.True(t, m.Valid(Position{X: 1, Y: 1}), "start is traversable")
	assert.True(t, m.Valid(Position{X: 3, Y: 3}), "end is traversable")
	assert.True(t, m.Valid(Position{X: 2, Y: 1}))
	assert.False(t, m.Valid(Position{X: 2, Y: 2}))
	assert.False(t, m.Valid(Position{X: 0, Y: 0}))
	assert.False(t, m.Valid(Position{X: -1, Y: 1}))
	assert.False(t, m.Valid(Position{X: 5, Y: 1}))
	assert.False(t, m.Valid(Position{X: 1, Y: 5}))
}

func TestMoveMapIgnoresLaterRewrites(t *testing.T) {
	g := mustParse(t, squareMaze)
	m := NewMoveMap(g)

	p := Position{X: 2, Y: 1}
	assert.NoError(t, g.Rewrite(p, Highlight))
	assert.True(t, m.Valid(p))
	assert.True(t, NewMoveMap(g).Valid(p), "highlighted cells stay traversable")
}

func TestNeighbors(t *testing.T) {
	g := mustParse(t, squareMaze)
	m := NewMoveMap(g)

	tests := []struct {
		name string
		at   Position
		n    Connectivity
		want []bool
	}{
		{
			name: "eight around start",
			at:   Position{X: 1, Y: 1},
			n:    Eight,
			want: []bool{false, false, false, false, true, false, true, false},
		},
		{
			name: "four around start",
			at:   Position{X: 1, Y: 1},
			n:    Four,
			want: []bool{false, false, true, true},
		},
		{
			name: "eight around centre wall",
			at:   Position{X: 2, Y: 2},
			n:    Eight,
			want: []bool{true, true, true, true, true, true, true, true},
		},
		{
			name: "four around end",
			at:   Position{X: 3, Y: 3},
			n:    Four,
			want: []bool{true, true, false, false},
		},
		{
			name: "corner outside grid",
			at:   Position{X: 0, Y: 0},
			n:    Eight,
			want: []bool{false, false, false, false, false, true, false, false},
		},
		{
			name: "unknown connectivity behaves as eight",
			at:   Position{X: 1, Y: 1},
			n:    Connectivity(6),
			want: []bool{false, false, false, false, true, false, true, false},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Neighbors(m, tc.at, tc.n))
		})
	}
}

func TestCardinalOffsetsMatchDirections(t *testing.T) {
	assert.Equal(t, Directions[North], CardinalOffsets[0])
	assert.Equal(t, Directions[West], CardinalOffsets[1])
	assert.Equal(t, Directions[South], CardinalOffsets[2])
	assert.Equal(t, Directions[East], CardinalOffsets[3])
}
