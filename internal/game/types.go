// internal/game/types.go
//
// Core type definitions for the Minesweeper board engine.
// Defines:
//   - Cell: fixed-shape record for a single grid square.
//   - Outcome: result signal of a reveal (unchanged/revealed/exploded/won).
//   - State: coarse session state (playing/won/lost).
//   - Config: board dimensions and mine count.

package game

import "fmt"

// Cell holds the state of one square on the board.
type Cell struct {
	IsMine        bool `json:"isMine"`        // Fixed at generation time.
	IsRevealed    bool `json:"isRevealed"`    // Monotonic: never reverts to false.
	IsFlagged     bool `json:"isFlagged"`     // Only toggled while unrevealed.
	AdjacentMines int  `json:"adjacentMines"` // Mines among the 8 neighbours (0 for mine cells).
}

// Outcome is the signal returned by Board.Reveal.
type Outcome int

const (
	// Unchanged: the target was already revealed or is flagged.
	Unchanged Outcome = iota
	// Revealed: one or more cells were revealed and the game continues.
	Revealed
	// Exploded: the target cell was a mine.
	Exploded
	// Won: every non-mine cell is now revealed.
	Won
)

var outcomeNames = [...]string{"unchanged", "revealed", "exploded", "won"}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return fmt.Sprintf("outcome(%d)", int(o))
	}
	return outcomeNames[o]
}

// MarshalText lets outcomes encode as their names in JSON.
func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// State represents where a session is in its lifecycle.
// Possible values:
//   - "playing": reveals and flags are accepted.
//   - "won":     every safe cell has been revealed.
//   - "lost":    a mine was revealed.
type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won"
	StateLost    State = "lost"
)

// Finished reports whether s is a terminal state.
func (s State) Finished() bool { return s == StateWon || s == StateLost }

// Config describes the board to generate.
type Config struct {
	Rows  int `json:"rows"`
	Cols  int `json:"cols"`
	Mines int `json:"mines"`
}

// DefaultConfig is the classic 6x6 board with 6 mines.
func DefaultConfig() Config {
	return Config{Rows: defaultRows, Cols: defaultCols, Mines: defaultMines}
}

// Validate checks dimensions and mine count.
func (c Config) Validate() error {
	if c.Rows <= 0 || c.Cols <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, c.Rows, c.Cols)
	}
	// Checked by division so Rows*Cols below cannot overflow.
	if c.Rows > maxCells/c.Cols {
		return fmt.Errorf("%w: %dx%d exceeds %d cells", ErrInvalidDimensions, c.Rows, c.Cols, maxCells)
	}
	if c.Mines < 0 || c.Mines > c.Rows*c.Cols {
		return fmt.Errorf("%w: %d mines must be in range [0, %d]", ErrInvalidMineCount, c.Mines, c.Rows*c.Cols)
	}
	return nil
}
