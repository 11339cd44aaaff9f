package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bcntransit/bcnt-cli/internal/favorites"
	"github.com/bcntransit/bcnt-cli/internal/models"
)

// Update handles all messages and key events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case linesResultMsg:
		return m.handleLinesResult(msg)

	case stationsResultMsg:
		return m.handleStationsResult(msg)

	case routesResultMsg:
		return m.handleRoutesResult(msg)

	case favoritesResultMsg:
		return m.handleFavoritesResult(msg)

	case favoriteToggledMsg:
		return m.handleFavoriteToggled(msg)

	case refreshTickMsg:
		return m.handleRefreshTick()

	case countdownTickMsg:
		return m.handleCountdownTick(msg)

	case prefsChangedMsg:
		return m.handlePrefsChanged(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Pass remaining messages to textinput when focused
	if m.focus == focusSearch {
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleLinesResult(msg linesResultMsg) (tea.Model, tea.Cmd) {
	// Ignore stale results
	if msg.seq != m.listSeq || m.mode != listLines {
		return m, nil
	}
	m.listLoading = false
	m.listErr = msg.err
	if msg.err != nil {
		return m, nil
	}
	m.lines = msg.lines
	m.lineCursor = 0
	return m, nil
}

func (m Model) handleStationsResult(msg stationsResultMsg) (tea.Model, tea.Cmd) {
	// Ignore stale results
	if msg.seq != m.listSeq {
		return m, nil
	}
	m.listLoading = false
	m.listErr = msg.err
	if msg.err != nil {
		return m, nil
	}

	m.stations = msg.stations
	m.listCursor = 0

	// Search results auto-select the first station, like a direct hit
	if m.mode == listSearch && len(m.stations) > 0 {
		m.focus = focusList
		m.searchInput.Blur()
		return m.selectStation(m.stations[0])
	}
	if len(m.stations) > 0 && m.focus == focusSearch {
		m.focus = focusList
		m.searchInput.Blur()
	}
	return m, nil
}

func (m Model) handleRoutesResult(msg routesResultMsg) (tea.Model, tea.Cmd) {
	// Ignore if station changed
	if m.selectedStation == nil || msg.stationCode != m.selectedStation.Code || msg.tt != m.selectedStation.TransportType {
		return m, nil
	}
	m.routesLoading = false
	m.routesErr = msg.err
	if msg.err != nil {
		return m, nil
	}

	models.SortRoutes(msg.routes)
	m.routes = msg.routes
	if m.boardCursor >= len(m.routes) {
		m.boardCursor = len(m.routes) - 1
	}
	if m.boardCursor < 0 {
		m.boardCursor = 0
	}
	m.lastUpdate = msg.fetched

	return m.scheduleCountdown()
}

func (m Model) handleFavoritesResult(msg favoritesResultMsg) (tea.Model, tea.Cmd) {
	m.favsErr = msg.err
	if msg.err != nil {
		m.logger.Debug("favorites unavailable", "err", msg.err)
		if m.mode == listFavorites {
			m.listLoading = false
			m.listErr = msg.err
		}
		return m, nil
	}

	m.favorites = msg.favorites
	m.favs = favorites.NewSet(msg.favorites)

	if m.mode == listFavorites {
		m.listLoading = false
		m.listErr = nil
		m.stations = favoriteStations(msg.favorites)
		if m.listCursor >= len(m.stations) {
			m.listCursor = len(m.stations) - 1
		}
		if m.listCursor < 0 {
			m.listCursor = 0
		}
	}
	return m, nil
}

// favoriteStations lists favorites as stations, grouped by network.
func favoriteStations(favs []models.Favorite) []models.Station {
	var out []models.Station
	for _, g := range favorites.GroupByType(favs) {
		for _, f := range g.Favorites {
			out = append(out, models.Station{
				Code:          f.StationCode,
				Name:          f.StationName,
				TransportType: g.Type,
				LineCode:      f.LineCode,
				LineName:      f.DisplayLine(),
			})
		}
	}
	return out
}

func (m Model) handleFavoriteToggled(msg favoriteToggledMsg) (tea.Model, tea.Cmd) {
	m.favs.Apply(msg.fav, msg.isFavorite)

	switch {
	case msg.err != nil:
		m.logger.Warn("favorite toggle failed", "err", msg.err)
		m.status = m.strings.FavoriteError
	case msg.isFavorite:
		m.status = m.strings.FavoriteAdded
	default:
		m.status = m.strings.FavoriteDeleted
	}

	if msg.err == nil && m.mode == listFavorites {
		return m, fetchFavorites(m.client)
	}
	return m, nil
}

func (m Model) handleRefreshTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{refreshTick()}

	// Silently refresh board, keeping existing data visible until new data arrives
	if m.selectedStation != nil {
		cmds = append(cmds, fetchRoutes(m.client, *m.selectedStation))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleCountdownTick(msg countdownTickMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.tickSeq {
		return m, nil
	}
	return m.scheduleCountdown()
}

// scheduleCountdown starts a new redraw chain and invalidates pending ticks.
func (m Model) scheduleCountdown() (Model, tea.Cmd) {
	m.tickSeq++
	d, ok := nextRedraw(m.routes, m.now().Unix())
	if !ok {
		return m, nil
	}
	return m, countdownTick(d, m.tickSeq)
}

func (m Model) handlePrefsChanged(msg prefsChangedMsg) (tea.Model, tea.Cmd) {
	var next tea.Cmd
	if m.watcher != nil {
		next = waitForPrefsChange(m.watcher, m.prefs)
	}
	if msg.err != nil {
		m.logger.Warn("reading prefs failed", "err", msg.err)
		return m, next
	}
	if msg.theme != "" && msg.theme != m.theme {
		m.setTheme(msg.theme)
	}
	if msg.language == m.strings.Lang {
		return m, next
	}

	m.client.SetLanguage(msg.language)
	m.setLanguage(msg.language)

	cmds := []tea.Cmd{next}
	if m.selectedStation != nil {
		cmds = append(cmds, fetchRoutes(m.client, *m.selectedStation))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	}

	switch m.focus {
	case focusSearch:
		return m.handleSearchKeys(msg)
	case focusTypes:
		return m.handleTypeKeys(msg)
	case focusList:
		return m.handleListKeys(msg)
	case focusBoard:
		return m.handleBoardKeys(msg)
	}

	return m, nil
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		query := strings.TrimSpace(m.searchInput.Value())
		if query == "" {
			return m, nil
		}
		m.listSeq++
		m.mode = listSearch
		m.listLoading = true
		m.listErr = nil
		m.stations = nil
		return m, searchStations(m.client, query, m.listSeq)

	case "esc":
		m.searchInput.SetValue("")
		return m, nil

	case "tab":
		m.focus = focusTypes
		m.searchInput.Blur()
		return m, nil

	case "shift+tab":
		if m.selectedStation != nil {
			m.focus = focusBoard
		} else {
			m.focus = focusList
		}
		m.searchInput.Blur()
		return m, nil
	}

	// Forward to textinput
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	total := len(m.stations)
	cursor := &m.listCursor
	if m.mode == listLines {
		total = len(m.lines)
		cursor = &m.lineCursor
	}
	// Defensive clamp at start of handler to prevent out-of-bounds scroll
	*cursor = clamp(*cursor, total)

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "tab":
		m.focus = focusBoard
		return m, nil

	case "shift+tab":
		m.focus = focusTypes
		return m, nil

	case "/":
		m.focus = focusSearch
		m.searchInput.Focus()
		return m, nil

	case "esc", "backspace":
		if m.mode == listStations || m.mode == listFavorites || m.mode == listSearch {
			return m.showLines()
		}
		m.focus = focusSearch
		m.searchInput.Focus()
		return m, nil

	case "j", "down":
		if *cursor < total-1 {
			*cursor++
		}
		return m, nil

	case "k", "up":
		if *cursor > 0 {
			*cursor--
		}
		return m, nil

	case "pgdown":
		*cursor = clamp(*cursor+m.pageSize(), total)
		return m, nil

	case "pgup":
		*cursor = clamp(*cursor-m.pageSize(), total)
		return m, nil

	case "home":
		*cursor = 0
		return m, nil

	case "end":
		*cursor = clamp(total-1, total)
		return m, nil

	case "v":
		return m.showFavorites()

	case "f":
		if st := m.cursorStation(); st != nil {
			return m.toggleFavorite(*st)
		}
		return m, nil

	case "enter":
		if total == 0 {
			return m, nil
		}
		if m.mode == listLines {
			line := m.lines[m.lineCursor]
			m.selectedLine = &line
			m.mode = listStations
			m.listSeq++
			m.listLoading = true
			m.listErr = nil
			m.stations = nil
			m.listCursor = 0
			return m, fetchStations(m.client, m.currentType(), line.Code, m.listSeq)
		}
		return m.selectStation(m.stations[m.listCursor])
	}

	return m, nil
}

func (m Model) handleBoardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.boardCursor = clamp(m.boardCursor, len(m.routes))

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "tab", "/":
		m.focus = focusSearch
		m.searchInput.Focus()
		return m, nil

	case "shift+tab", "esc":
		m.focus = focusList
		return m, nil

	case "j", "down":
		if m.boardCursor < len(m.routes)-1 {
			m.boardCursor++
		}
		return m, nil

	case "k", "up":
		if m.boardCursor > 0 {
			m.boardCursor--
		}
		return m, nil

	case "home":
		m.boardCursor = 0
		return m, nil

	case "end":
		m.boardCursor = clamp(len(m.routes)-1, len(m.routes))
		return m, nil

	case "r":
		if m.selectedStation != nil {
			return m, fetchRoutes(m.client, *m.selectedStation)
		}
		return m, nil

	case "v":
		return m.showFavorites()

	case "f":
		if m.selectedStation != nil {
			return m.toggleFavorite(*m.selectedStation)
		}
		return m, nil
	}

	return m, nil
}

// selectStation shows the board of st.
func (m Model) selectStation(st models.Station) (Model, tea.Cmd) {
	if st.TransportType == "" {
		st.TransportType = m.currentType()
	}
	m.selectedStation = &st
	m.routes = nil
	m.routesLoading = true
	m.routesErr = nil
	m.boardCursor = 0
	m.tickSeq++ // drop ticks of the previous board
	return m, fetchRoutes(m.client, st)
}

// toggleFavorite flips st optimistically; the reconciled state arrives as a
// favoriteToggledMsg.
func (m Model) toggleFavorite(st models.Station) (Model, tea.Cmd) {
	if st.TransportType == "" {
		st.TransportType = m.currentType()
	}
	fav := st.ToFavorite()
	current := m.isFavorite(st)
	m.favs.Apply(fav, !current)
	m.status = ""
	return m, toggleFavorite(m.client, fav, current)
}

func (m Model) showFavorites() (Model, tea.Cmd) {
	m.mode = listFavorites
	m.focus = focusList
	m.listSeq++
	m.listLoading = true
	m.listErr = nil
	m.stations = nil
	m.listCursor = 0
	return m, fetchFavorites(m.client)
}

func (m Model) showLines() (Model, tea.Cmd) {
	m.mode = listLines
	m.selectedLine = nil
	m.stations = nil
	m.listCursor = 0
	m.listErr = nil
	if len(m.lines) > 0 {
		m.listLoading = false
		return m, nil
	}
	m.listSeq++
	m.listLoading = true
	return m, fetchLines(m.client, m.currentType(), m.listSeq)
}

func (m Model) pageSize() int {
	size := m.height - 12 // header, search bar, type bar, status
	if size < 1 {
		size = 10
	}
	return size
}

// clamp keeps a cursor inside [0, total).
func clamp(cursor, total int) int {
	if total <= 0 || cursor < 0 {
		return 0
	}
	if cursor >= total {
		return total - 1
	}
	return cursor
}
