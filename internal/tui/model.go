// Package tui is a terminal front end for a single session: the keyboard
// stands in for the mouse, lipgloss for the canvas.
package tui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/robalobadob/minesweeper/internal/game"
	"github.com/robalobadob/minesweeper/internal/view"
)

// Terminal equivalents of the canvas palette.
var termColors = map[string]lipgloss.Color{
	view.ColorHidden:   lipgloss.Color("#3498db"),
	view.ColorRevealed: lipgloss.Color("#dddddd"),
	view.ColorMine:     lipgloss.Color("9"),
	view.ColorDigit:    lipgloss.Color("0"),
	view.ColorFlag:     lipgloss.Color("11"),
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	statusStyle = lipgloss.NewStyle().Faint(true)
	lostStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	wonStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

const help = "arrows/hjkl move · space/enter reveal · f flag · n new · q quit"

// Model is the bubbletea model for one session.
type Model struct {
	sess   *game.Session
	cursor game.Pos
	err    string
}

func New(sess *game.Session) Model {
	return Model{sess: sess}
}

func (m Model) Init() tea.Cmd { return nil }

// Cursor returns the highlighted cell.
func (m Model) Cursor() game.Pos { return m.cursor }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	k := key.String()
	if k == "ctrl+c" || k == "q" {
		return m, tea.Quit
	}
	m.err = ""

	// After "Game Over!" / "You Win!" any key starts a new board.
	if m.sess.State().Finished() {
		m.restart()
		return m, nil
	}

	cfg := m.sess.Snapshot().Config
	switch k {
	case "up", "k":
		m.cursor.Row = max(m.cursor.Row-1, 0)
	case "down", "j":
		m.cursor.Row = min(m.cursor.Row+1, cfg.Rows-1)
	case "left", "h":
		m.cursor.Col = max(m.cursor.Col-1, 0)
	case "right", "l":
		m.cursor.Col = min(m.cursor.Col+1, cfg.Cols-1)
	case " ", "enter":
		if _, _, err := m.sess.Reveal(m.cursor.Row, m.cursor.Col); err != nil {
			m.err = err.Error()
		}
	case "f":
		if _, _, err := m.sess.ToggleFlag(m.cursor.Row, m.cursor.Col); err != nil {
			m.err = err.Error()
		}
	case "n":
		m.restart()
	}
	return m, nil
}

func (m *Model) restart() {
	if err := m.sess.Restart(); err != nil {
		m.err = err.Error()
	}
	m.cursor = game.Pos{}
}

func (m Model) View() string {
	b := view.FromSnapshot(m.sess.Snapshot())
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("minesweeper"))
	sb.WriteString("  ")
	sb.WriteString(statusStyle.Render(minesLeft(b)))
	sb.WriteString("\n\n")

	for r, row := range b.Cells {
		for c, cell := range row {
			sb.WriteString(cellStyle(cell, r == m.cursor.Row && c == m.cursor.Col).Render(" " + view.Glyph(cell) + " "))
		}
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')

	switch b.State {
	case game.StateLost:
		sb.WriteString(lostStyle.Render("Game Over!") + statusStyle.Render(" press any key for a new board"))
	case game.StateWon:
		sb.WriteString(wonStyle.Render("You Win!") + statusStyle.Render(" press any key for a new board"))
	default:
		sb.WriteString(statusStyle.Render(help))
	}
	if m.err != "" {
		sb.WriteString("\n" + lostStyle.Render(m.err))
	}
	sb.WriteByte('\n')
	return sb.String()
}

func minesLeft(b view.Board) string {
	return "mines left: " + strconv.Itoa(b.MinesLeft)
}

func cellStyle(c view.Cell, selected bool) lipgloss.Style {
	st := lipgloss.NewStyle().Background(termColors[c.Background()])
	if _, color := c.Marker(); color != "" {
		st = st.Foreground(termColors[color]).Bold(true)
	}
	if selected {
		st = st.Reverse(true)
	}
	return st
}
