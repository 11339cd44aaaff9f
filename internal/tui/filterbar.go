package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// renderFilterBar renders the network chips and the favorites chip as two
// bordered boxes, with the last update line above them.
func (m Model) renderFilterBar() string {
	var types strings.Builder
	for i, tt := range m.types {
		focused := m.focus == focusTypes && m.typeCursor == i
		active := i == m.activeType && m.mode != listFavorites && m.mode != listSearch
		types.WriteString(m.renderChip(tt.Label(), active, focused))
		if i < len(m.types)-1 {
			types.WriteString(" ")
		}
	}

	typesBorder := stylePanelNormal
	if m.focus == focusTypes {
		typesBorder = stylePanelFocused
	}
	typesBox := typesBorder.Render(types.String())

	favFocused := m.focus == focusTypes && m.typeCursor == len(m.types)
	favChip := m.renderChip("★ "+m.strings.Favorites, m.mode == listFavorites, favFocused)
	favBorder := stylePanelNormal
	if favFocused {
		favBorder = stylePanelFocused
	}
	favBox := favBorder.Render(favChip)

	boxes := lipgloss.JoinHorizontal(lipgloss.Top, typesBox, favBox)

	if !m.lastUpdate.IsZero() {
		remaining := refreshInterval - m.now().Sub(m.lastUpdate)
		if remaining < 0 {
			remaining = 0
		}
		updateText := fmt.Sprintf("  Last update:\t%s\t(refresh in %ds)",
			m.lastUpdate.Format("15:04:05"), int(remaining/time.Second))
		return styleMuted.Render(updateText) + "\n" + boxes
	}

	return boxes
}

// renderChip renders a single chip with cursor highlighting.
func (m Model) renderChip(label string, active bool, focused bool) string {
	if focused {
		if active {
			return styleChipCursor.Render("[" + label + "]")
		}
		return styleChipCursor.Render(" " + label + " ")
	}
	if active {
		return styleLine.Render("[" + label + "]")
	}
	return styleMuted.Render(" " + label + " ")
}

// handleTypeKeys handles key events when the chip bar is focused. The
// cursor position after the last network is the favorites chip.
func (m Model) handleTypeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "left":
		if m.typeCursor > 0 {
			m.typeCursor--
		}
		return m, nil

	case "l", "right":
		if m.typeCursor < len(m.types) {
			m.typeCursor++
		}
		return m, nil

	case " ", "enter":
		if m.typeCursor == len(m.types) {
			return m.showFavorites()
		}
		return m.selectType(m.typeCursor)

	case "v":
		return m.showFavorites()

	case "tab":
		m.focus = focusList
		return m, nil

	case "shift+tab", "esc", "/":
		m.focus = focusSearch
		m.searchInput.Focus()
		return m, nil

	case "q":
		return m, tea.Quit
	}

	return m, nil
}

// selectType switches the left panel to the lines of network i.
func (m Model) selectType(i int) (Model, tea.Cmd) {
	if i == m.activeType && m.mode == listLines && len(m.lines) > 0 {
		m.focus = focusList
		return m, nil
	}
	m.activeType = i
	m.lines = nil
	m.lineCursor = 0
	m.focus = focusList
	return m.showLines()
}
