package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bcntransit/bcnt-cli/internal/models"
	"github.com/bcntransit/bcnt-cli/internal/output"
)

// View renders the entire TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Layout: header + search bar + filter bar + panels + status bar
	header := renderHeader()
	searchBar := m.renderSearchBar()
	filterBar := m.renderFilterBar()
	statusBar := m.renderStatusBar()

	headerHeight := lipgloss.Height(header)
	searchHeight := lipgloss.Height(searchBar)
	filterHeight := lipgloss.Height(filterBar)
	statusHeight := lipgloss.Height(statusBar)
	panelHeight := m.height - headerHeight - searchHeight - filterHeight - statusHeight
	if panelHeight < 3 {
		panelHeight = 3
	}

	// Panel widths: ~35% left, ~65% right
	leftWidth := m.width*35/100 - 2 // subtract border
	rightWidth := m.width - leftWidth - 4
	if leftWidth < 20 {
		leftWidth = 20
	}
	if rightWidth < 20 {
		rightWidth = 20
	}

	leftPanel := m.renderList(leftWidth, panelHeight-2)
	rightPanel := m.renderBoard(rightWidth, panelHeight-2)

	leftBorder := stylePanelNormal
	if m.focus == focusList {
		leftBorder = stylePanelFocused
	}
	leftPanel = leftBorder.
		Width(leftWidth).
		Height(panelHeight - 2).
		Render(leftPanel)

	rightBorder := stylePanelNormal
	if m.focus == focusBoard {
		rightBorder = stylePanelFocused
	}
	rightPanel = rightBorder.
		Width(rightWidth).
		Height(panelHeight - 2).
		Render(rightPanel)

	panels := lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, rightPanel)

	return lipgloss.JoinVertical(lipgloss.Left, header, searchBar, filterBar, panels, statusBar)
}

// renderHeader renders the brand line.
func renderHeader() string {
	logo := styleLogo.Render("▌bcnt")
	tagline := styleMuted.Render("  Barcelona · metro · bus · tram · rodalies · fgc")
	return logo + tagline
}

// renderSearchBar renders the search input at the top.
func (m Model) renderSearchBar() string {
	border := stylePanelNormal
	if m.focus == focusSearch {
		border = stylePanelFocused
	}

	label := styleHeader.Render("Search: ")
	return border.Width(m.width - 2).Render(label + m.searchInput.View())
}

// listTitle names what the left panel shows.
func (m Model) listTitle() string {
	switch m.mode {
	case listStations:
		title := m.strings.Stations
		if m.selectedLine != nil {
			title += " · " + m.selectedLine.Name
		}
		return strings.ToUpper(title)
	case listSearch:
		return strings.ToUpper(m.strings.Stations) + " · " + m.searchInput.Value()
	case listFavorites:
		return "★ " + strings.ToUpper(m.strings.Favorites)
	}
	return strings.ToUpper(m.strings.Lines) + " · " + m.currentType().Label()
}

// renderList renders the left panel.
func (m Model) renderList(width, height int) string {
	title := styleHeader.Render(truncate(m.listTitle(), width))

	if m.listLoading {
		return title + "\n" + styleLoading.Render(" Loading...")
	}
	if m.listErr != nil {
		return title + "\n" + styleError.Render(" "+m.strings.ConnectionError+": "+m.listErr.Error())
	}

	maxVisible := height - 2 // account for title + spacing
	if maxVisible < 1 {
		maxVisible = 1
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")

	if m.mode == listLines {
		if len(m.lines) == 0 {
			return title + "\n" + styleMuted.Render(" "+m.strings.NoResults)
		}
		start, end := visibleRange(m.lineCursor, len(m.lines), maxVisible)
		for i := start; i < end; i++ {
			b.WriteString(renderLineItem(m.lines[i], width, i == m.lineCursor && m.focus == focusList))
			if i < end-1 {
				b.WriteString("\n")
			}
		}
		return b.String()
	}

	if len(m.stations) == 0 {
		empty := m.strings.NoResults
		if m.mode == listFavorites {
			empty = m.strings.FavoritesEmpty
		}
		return title + "\n" + styleMuted.Render(" "+empty)
	}

	start, end := visibleRange(m.listCursor, len(m.stations), maxVisible)
	for i := start; i < end; i++ {
		st := m.stations[i]
		b.WriteString(m.renderStationItem(st, width, i == m.listCursor && m.focus == focusList))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderLineItem(l models.Line, width int, selected bool) string {
	name := l.Name
	if name == "" {
		name = l.Code
	}
	alert := ""
	if l.HasAlerts {
		alert = " " + styleAlert.Render("⚠")
	}
	desc := truncate(l.Description, width-len(name)-8)

	if selected {
		return styleSelected.Render(" > ") + lineBadge(name, l.Color) + " " + desc + alert
	}
	return "   " + lineBadge(name, l.Color) + " " + styleMuted.Render(desc) + alert
}

func (m Model) renderStationItem(st models.Station, width int, selected bool) string {
	star := "  "
	if m.isFavorite(st) {
		star = styleFavorite.Render("★ ")
	}

	var meta string
	if m.mode != listStations {
		parts := []string{st.TransportType.Label()}
		if st.LineName != "" {
			parts = append(parts, st.LineName)
		}
		meta = " " + styleMuted.Render(strings.Join(parts, " · "))
	}
	alert := ""
	if st.HasAlerts {
		alert = " " + styleAlert.Render("⚠")
	}

	name := truncate(st.Name, width-6)
	if selected {
		return styleSelected.Render(" > ") + star + styleSelected.Render(name) + meta + alert
	}
	return "   " + star + name + meta + alert
}

// renderBoard renders the routes of the selected station with live
// countdowns.
func (m Model) renderBoard(width, height int) string {
	title := strings.ToUpper(m.strings.Routes)
	if m.selectedStation != nil {
		title += " · " + m.selectedStation.Name
		if m.isFavorite(*m.selectedStation) {
			title += " ★"
		}
	}
	titleStr := styleHeader.Render(truncate(title, width))

	if m.selectedStation == nil {
		return titleStr + "\n" + styleMuted.Render(" Select a station to view arrivals")
	}
	if m.routesLoading && len(m.routes) == 0 {
		return titleStr + "\n" + styleLoading.Render(" Loading arrivals...")
	}
	if m.routesErr != nil {
		return titleStr + "\n" + styleError.Render(" "+m.strings.ConnectionError+": "+m.routesErr.Error())
	}
	if len(m.routes) == 0 {
		return titleStr + "\n" + styleMuted.Render(" "+m.strings.NoNextTrips)
	}

	var b strings.Builder
	b.WriteString(titleStr)
	b.WriteString("\n")

	// Each route takes two lines
	maxVisible := (height - 2) / 2
	if maxVisible < 1 {
		maxVisible = 1
	}
	start, end := visibleRange(m.boardCursor, len(m.routes), maxVisible)

	now := m.now().Unix()
	for i := start; i < end; i++ {
		b.WriteString(m.renderRoute(m.routes[i], now, i == m.boardCursor && m.focus == focusBoard))
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

// renderRoute renders a route header and its next trips.
func (m Model) renderRoute(r models.Route, now int64, selected bool) string {
	cursor := " "
	if selected {
		cursor = styleSelected.Render(">")
	}
	header := fmt.Sprintf("%s%s → %s", cursor, lineBadge(r.LineName, r.Color), r.Destination)

	trips := r.Upcoming(now, output.DepartedGrace)
	if len(trips) == 0 {
		return header + "\n   " + styleMuted.Render(m.strings.NoNextTrips)
	}
	if len(trips) > boardTrips {
		trips = trips[:boardTrips]
	}

	labels := make([]string, 0, len(trips))
	for j, trip := range trips {
		labels = append(labels, m.renderTrip(trip, now, j == 0))
	}
	return header + "\n   " + strings.Join(labels, styleMuted.Render("  ·  "))
}

// renderTrip renders one countdown label. The soonest trip is styled
// urgent when it is less than a minute away.
func (m Model) renderTrip(trip models.NextTrip, now int64, first bool) string {
	d := m.formatter.Format(trip.Arrival, now)

	var label string
	switch {
	case first && d.Urgent:
		label = styleUrgent.Render(d.Text)
	case d.ShowExactTime:
		label = styleTime.Render(d.Text)
	default:
		label = styleCountdown.Render(d.Text)
	}

	if trip.IsDelayed() {
		loc := m.formatter.Location()
		planned := time.Unix(trip.PlannedTime(), 0).In(loc).Format("15:04")
		actual := time.Unix(trip.Arrival, 0).In(loc).Format("15:04")
		label += " " + styleMuted.Render(planned+" →") + " " + styleTime.Render(actual) + " " + formatDelay(trip.DelayMinutes)
	}
	if trip.Platform != "" {
		label += " " + stylePlatform.Render(m.strings.Platform+" "+trip.Platform)
	}
	return label
}

// renderStatusBar renders context-aware keyboard hints and the last status
// message at the bottom.
func (m Model) renderStatusBar() string {
	var hints string
	switch m.focus {
	case focusSearch:
		hints = "Enter:search  Tab:networks  Esc:clear  Ctrl+C:quit"
	case focusTypes:
		hints = "h/l:move  Enter:select  v:favorites  Tab:list  Esc:search  q:quit"
	case focusList:
		hints = "j/k:navigate  Enter:select  f:favorite  v:favorites  Esc:back  /:search  q:quit"
	case focusBoard:
		hints = "j/k:navigate  f:favorite  r:refresh  v:favorites  Esc:list  /:search  q:quit"
	}

	if m.status != "" {
		hints = m.status + "  │  " + hints
	}
	return styleStatusBar.Width(m.width).Render(" " + hints)
}

// visibleRange calculates the start and end indices for a scrollable list.
func visibleRange(cursor, total, maxVisible int) (int, int) {
	if total <= maxVisible {
		return 0, total
	}

	start := cursor - maxVisible/2
	if start < 0 {
		start = 0
	}
	end := start + maxVisible
	if end > total {
		end = total
		start = end - maxVisible
		if start < 0 {
			start = 0
		}
	}
	return start, end
}

// truncate truncates a string to the given width in runes.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "~"
}
