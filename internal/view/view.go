// internal/view/view.go
//
// Read-only render model for a session. Renderers (JSON clients, the terminal
// UI, the plain-text dump) only ever see this, never the engine's cells, so a
// hidden mine is not leaked until the game is lost.

package view

import (
	"math"
	"strconv"
	"strings"

	"github.com/robalobadob/minesweeper/internal/game"
)

// CellState is what a player is allowed to see of a cell.
type CellState string

const (
	Hidden   CellState = "hidden"
	Flagged  CellState = "flagged"
	Revealed CellState = "revealed"
	Mine     CellState = "mine"
)

// Palette used by the canvas client.
const (
	ColorHidden   = "#3498db"
	ColorRevealed = "#ddd"
	ColorMine     = "red"
	ColorDigit    = "black"
	ColorFlag     = "yellow"
)

type Cell struct {
	State CellState `json:"state"`
	Count int       `json:"count,omitempty"`
}

// Background is the fill colour of the square.
func (c Cell) Background() string {
	if c.State == Revealed || c.State == Mine {
		return ColorRevealed
	}
	return ColorHidden
}

// Marker returns what to draw on top of the background and its colour.
// Empty text means nothing is drawn.
func (c Cell) Marker() (text, color string) {
	switch c.State {
	case Mine:
		return "*", ColorMine
	case Flagged:
		return "F", ColorFlag
	case Revealed:
		if c.Count > 0 {
			return strconv.Itoa(c.Count), ColorDigit
		}
	}
	return "", ""
}

type Board struct {
	Rows      int        `json:"rows"`
	Cols      int        `json:"cols"`
	Mines     int        `json:"mines"`
	MinesLeft int        `json:"minesLeft"`
	State     game.State `json:"state"`
	Cells     [][]Cell   `json:"cells"`
}

// FromSnapshot builds the player-facing board.
// Lost games expose every mine; won games show the remaining mines as flagged.
func FromSnapshot(snap game.SessionSnapshot) Board {
	b := Board{
		Rows:      snap.Config.Rows,
		Cols:      snap.Config.Cols,
		Mines:     snap.Config.Mines,
		MinesLeft: snap.Config.Mines - snap.Flags,
		State:     snap.State,
		Cells:     make([][]Cell, len(snap.Cells)),
	}
	for r, row := range snap.Cells {
		b.Cells[r] = make([]Cell, len(row))
		for c, cell := range row {
			b.Cells[r][c] = cellView(cell, snap.State)
		}
	}
	if snap.State == game.StateWon {
		b.MinesLeft = 0
	}
	return b
}

func cellView(c game.Cell, st game.State) Cell {
	switch {
	case c.IsMine && (c.IsRevealed || st == game.StateLost):
		return Cell{State: Mine}
	case c.IsMine && st == game.StateWon:
		return Cell{State: Flagged}
	case c.IsRevealed:
		return Cell{State: Revealed, Count: c.AdjacentMines}
	case c.IsFlagged:
		return Cell{State: Flagged}
	}
	return Cell{State: Hidden}
}

// Text renders the board as a grid with row/column headers.
// Hidden "-", flag "F", mine "*", empty ".", otherwise the digit.
func Text(b Board) string {
	var sb strings.Builder
	sb.WriteString("   ")
	for c := 0; c < b.Cols; c++ {
		sb.WriteString(strconv.Itoa(c % 10))
		sb.WriteByte(' ')
	}
	sb.WriteByte('\n')
	for r, row := range b.Cells {
		sb.WriteString(strconv.Itoa(r % 10))
		sb.WriteString(": ")
		for _, cell := range row {
			sb.WriteString(Glyph(cell))
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Glyph is the single-character form of a cell used by text renderers.
func Glyph(c Cell) string {
	switch c.State {
	case Hidden:
		return "-"
	case Revealed:
		if c.Count == 0 {
			return "."
		}
	}
	text, _ := c.Marker()
	return text
}

// CellAt maps a pixel position inside the canvas to a grid coordinate.
// The result may be outside the grid; the engine rejects that.
func CellAt(px, py, cellSize float64) (row, col int) {
	return int(math.Floor(py / cellSize)), int(math.Floor(px / cellSize))
}

// CellSize fits a rows x cols grid into 90% of a viewport.
func CellSize(viewW, viewH float64, rows, cols int) float64 {
	return math.Min(viewW*0.9/float64(cols), viewH*0.9/float64(rows))
}
