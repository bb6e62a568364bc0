// internal/game/engine.go
//
// Board engine for a single Minesweeper grid.
// Responsibilities:
//   - Generate a board: place mines uniformly at random, then count neighbours.
//   - Reveal cells, flood-filling outward from cells with no adjacent mines.
//   - Toggle flags on unrevealed cells.
//   - Detect the win condition (every non-mine cell revealed).
//
// Notes:
//   - Coordinates are zero-based (row, col); anything outside the grid is rejected
//     with ErrOutOfBounds and leaves the board untouched.
//   - A flood fill never reveals a mine. Only the cell the caller targets can explode.
//   - The engine does not refuse calls on a finished board; Session does that.
package game

import (
	"errors"
	"fmt"
	"math/rand"
)

const (
	defaultRows  = 6
	defaultCols  = 6
	defaultMines = 6

	// maxCells bounds rows*cols so a board always fits in memory.
	maxCells = 1 << 20
)

var (
	ErrInvalidDimensions = errors.New("rows and cols must be positive")
	ErrInvalidMineCount  = errors.New("mine count out of range")
	ErrOutOfBounds       = errors.New("coordinates out of bounds")
)

// Pos is a zero-based grid coordinate.
type Pos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Board is a rows x cols grid of cells with a fixed set of mines.
// A Board is not safe for concurrent use.
type Board struct {
	rows, cols int
	mines      int
	cells      [][]Cell

	// safeRevealed counts revealed non-mine cells; the board is won when it
	// reaches rows*cols - mines.
	safeRevealed int
}

// New generates a board for cfg. The same seed always yields the same layout.
func New(cfg Config, seed int64) (*Board, error) {
	b, err := newEmpty(cfg)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))
	for _, idx := range rng.Perm(cfg.Rows * cfg.Cols)[:cfg.Mines] {
		b.cells[idx/cfg.Cols][idx%cfg.Cols].IsMine = true
	}
	b.countAdjacent()
	return b, nil
}

// NewWithMines builds a board with mines at exactly the given positions.
// Duplicate or out-of-grid positions are rejected.
func NewWithMines(rows, cols int, mines []Pos) (*Board, error) {
	b, err := newEmpty(Config{Rows: rows, Cols: cols, Mines: len(mines)})
	if err != nil {
		return nil, err
	}
	for _, p := range mines {
		if err := b.checkBounds(p.Row, p.Col); err != nil {
			return nil, err
		}
		if b.cells[p.Row][p.Col].IsMine {
			return nil, fmt.Errorf("%w: duplicate mine at (%d, %d)", ErrInvalidMineCount, p.Row, p.Col)
		}
		b.cells[p.Row][p.Col].IsMine = true
	}
	b.countAdjacent()
	return b, nil
}

func newEmpty(cfg Config) (*Board, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cells := make([][]Cell, cfg.Rows)
	for r := range cells {
		cells[r] = make([]Cell, cfg.Cols)
	}
	return &Board{rows: cfg.Rows, cols: cfg.Cols, mines: cfg.Mines, cells: cells}, nil
}

// countAdjacent fills AdjacentMines for every non-mine cell.
func (b *Board) countAdjacent() {
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			if b.cells[r][c].IsMine {
				continue
			}
			n := 0
			b.eachNeighbour(r, c, func(nr, nc int) {
				if b.cells[nr][nc].IsMine {
					n++
				}
			})
			b.cells[r][c].AdjacentMines = n
		}
	}
}

// eachNeighbour calls fn for every in-grid cell around (row, col). Edges are
// clamped, not wrapped, so a corner has three neighbours.
func (b *Board) eachNeighbour(row, col int, fn func(r, c int)) {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r, c := row+dr, col+dc
			if r >= 0 && r < b.rows && c >= 0 && c < b.cols {
				fn(r, c)
			}
		}
	}
}

// Neighbours returns the in-grid cells around (row, col) in row-major order.
func (b *Board) Neighbours(row, col int) ([]Pos, error) {
	if err := b.checkBounds(row, col); err != nil {
		return nil, err
	}
	out := make([]Pos, 0, 8)
	b.eachNeighbour(row, col, func(r, c int) {
		out = append(out, Pos{Row: r, Col: c})
	})
	return out, nil
}

// Reveal opens the cell at (row, col).
//
// Rules:
//   - Out of bounds → ErrOutOfBounds, nothing changes.
//   - Already revealed or flagged → Unchanged.
//   - Mine → the cell is revealed and the outcome is Exploded.
//   - Zero adjacent mines → neighbours are revealed the same way, transitively.
//     Mines and flagged cells are skipped by the cascade.
//   - Afterwards Won if every non-mine cell is revealed, else Revealed.
func (b *Board) Reveal(row, col int) (Outcome, error) {
	if err := b.checkBounds(row, col); err != nil {
		return Unchanged, err
	}
	cell := &b.cells[row][col]
	if cell.IsRevealed || cell.IsFlagged {
		return Unchanged, nil
	}
	cell.IsRevealed = true
	if cell.IsMine {
		return Exploded, nil
	}
	b.safeRevealed++
	if cell.AdjacentMines == 0 {
		b.flood(row, col)
	}
	if b.CheckWin() {
		return Won, nil
	}
	return Revealed, nil
}

// flood reveals the zero-count region around (row, col) with an explicit stack.
// Each cell is pushed at most once because it is marked revealed before pushing.
func (b *Board) flood(row, col int) {
	stack := []Pos{{row, col}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		b.eachNeighbour(p.Row, p.Col, func(r, c int) {
			n := &b.cells[r][c]
			if n.IsRevealed || n.IsFlagged || n.IsMine {
				return
			}
			n.IsRevealed = true
			b.safeRevealed++
			if n.AdjacentMines == 0 {
				stack = append(stack, Pos{r, c})
			}
		})
	}
}

// ToggleFlag flips the flag on an unrevealed cell and reports whether anything
// changed. Revealed cells are left alone.
func (b *Board) ToggleFlag(row, col int) (bool, error) {
	if err := b.checkBounds(row, col); err != nil {
		return false, err
	}
	cell := &b.cells[row][col]
	if cell.IsRevealed {
		return false, nil
	}
	cell.IsFlagged = !cell.IsFlagged
	return true, nil
}

// CheckWin reports whether every non-mine cell has been revealed.
func (b *Board) CheckWin() bool {
	return b.safeRevealed == b.rows*b.cols-b.mines
}

func (b *Board) Rows() int  { return b.rows }
func (b *Board) Cols() int  { return b.cols }
func (b *Board) Mines() int { return b.mines }

// Config returns the parameters the board was generated with.
func (b *Board) Config() Config { return Config{Rows: b.rows, Cols: b.cols, Mines: b.mines} }

// Cell returns a copy of the cell at (row, col).
func (b *Board) Cell(row, col int) (Cell, error) {
	if err := b.checkBounds(row, col); err != nil {
		return Cell{}, err
	}
	return b.cells[row][col], nil
}

// FlagCount returns the number of flagged cells.
func (b *Board) FlagCount() int {
	n := 0
	for _, row := range b.cells {
		for _, c := range row {
			if c.IsFlagged {
				n++
			}
		}
	}
	return n
}

// Snapshot returns a deep copy of the grid for renderers.
func (b *Board) Snapshot() [][]Cell {
	out := make([][]Cell, b.rows)
	for r := range b.cells {
		out[r] = append([]Cell(nil), b.cells[r]...)
	}
	return out
}

func (b *Board) checkBounds(row, col int) error {
	if row < 0 || row >= b.rows || col < 0 || col >= b.cols {
		return fmt.Errorf("%w: (%d, %d) not in %dx%d grid", ErrOutOfBounds, row, col, b.rows, b.cols)
	}
	return nil
}
