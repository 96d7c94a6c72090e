package maze

import (
	"errors"
	"fmt"
	"strings"
)

// Direction is one of the four compass directions an agent can step in.
type Direction string

const (
	North Direction = "North"
	South Direction = "South"
	East  Direction = "East"
	West  Direction = "West"
)

var (
	// Directions maps each compass direction to its unit offset.
	Directions = map[Direction]Position{
		North: {X: 0, Y: -1},
		South: {X: 0, Y: 1},
		East:  {X: 1, Y: 0},
		West:  {X: -1, Y: 0},
	}

	ErrUnknownDirection = errors.New("unknown direction")
)

// Position addresses a single cell. X is the column and Y the row.
type Position struct {
	X int `json:"x" bson:"x"`
	Y int `json:"y" bson:"y"`
}

// Add returns the position offset by d.
func (p Position) Add(d Position) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Move represents a single step attempt from one cell to another.
type Move struct {
	From      Position  `json:"from"`
	To        Position  `json:"to"`
	Direction Direction `json:"direction"`
}

// Moved reports whether the step actually changed the agent's position.
func (m Move) Moved() bool {
	return m.From != m.To
}

// ParseDirection converts user input into a Direction. It accepts full names,
// n/s/e, up/down/left/right and the w/a/s/d keyboard layout, so "w" is North.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "north", "n", "w", "up":
		return North, nil
	case "west", "a", "left":
		return West, nil
	case "south", "s", "down":
		return South, nil
	case "east", "e", "d", "right":
		return East, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// DirectionBetween returns the direction leading from one position to a
// 4-adjacent one. The boolean is false when the positions are not adjacent.
func DirectionBetween(from, to Position) (Direction, bool) {
	delta := Position{X: to.X - from.X, Y: to.Y - from.Y}
	for dir, offset := range Directions {
		if offset == delta {
			return dir, true
		}
	}
	return "", false
}
