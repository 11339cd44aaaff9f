package tui

import (
	"io"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/bcntransit/bcnt-cli/internal/api"
	"github.com/bcntransit/bcnt-cli/internal/countdown"
	"github.com/bcntransit/bcnt-cli/internal/favorites"
	"github.com/bcntransit/bcnt-cli/internal/locale"
	"github.com/bcntransit/bcnt-cli/internal/models"
	"github.com/bcntransit/bcnt-cli/internal/prefs"
)

type focusPanel int

const (
	focusSearch focusPanel = iota
	focusTypes
	focusList
	focusBoard
)

// listMode selects what the left panel shows.
type listMode int

const (
	listLines listMode = iota
	listStations
	listSearch
	listFavorites
)

// boardTrips is the number of trips shown per route.
const boardTrips = 3

// Model is the root Bubble Tea model for the TUI.
type Model struct {
	client  *api.Client
	prefs   *prefs.Store
	watcher *prefs.Watcher
	theme   prefs.ThemeMode
	logger  *log.Logger
	now     func() time.Time

	width  int
	height int

	strings   locale.Strings
	formatter *countdown.Formatter

	searchInput textinput.Model
	focus       focusPanel

	// Type bar
	types      []models.TransportType
	typeCursor int
	activeType int

	// Left panel
	mode         listMode
	lines        []models.Line
	lineCursor   int
	selectedLine *models.Line
	stations     []models.Station
	listCursor   int
	listLoading  bool
	listErr      error
	listSeq      int

	// Right panel
	selectedStation *models.Station
	routes          []models.Route
	boardCursor     int
	routesLoading   bool
	routesErr       error
	lastUpdate      time.Time

	// Favorites
	favs      favorites.Set
	favorites []models.Favorite
	favsErr   error

	// Countdown redraws; ticks carrying an older seq are dropped
	tickSeq int

	status string
}

// Option configures the model.
type Option func(*Model)

// WithPrefs attaches the preferences store. Language and theme changes
// written by other processes are picked up while the TUI runs.
func WithPrefs(store *prefs.Store) Option {
	return func(m *Model) {
		m.prefs = store
	}
}

// WithLogger sets the logger for background failures.
func WithLogger(l *log.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates a new TUI model.
func New(client *api.Client, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = "Search station..."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 40

	m := Model{
		client:      client,
		logger:      log.New(io.Discard),
		now:         time.Now,
		searchInput: ti,
		focus:       focusSearch,
		types:       lineTypes(),
		mode:        listLines,
		listLoading: true,
		favs:        favorites.Set{},
	}
	for _, opt := range opts {
		opt(&m)
	}

	m.setLanguage(client.Language())

	if m.prefs != nil {
		if lang, err := m.prefs.Language(); err == nil {
			client.SetLanguage(lang)
			m.setLanguage(lang)
		}
		if mode, err := m.prefs.ThemeMode(); err == nil {
			m.setTheme(mode)
		}
		w, err := m.prefs.Watch()
		if err != nil {
			m.logger.Warn("prefs watch disabled", "err", err)
		} else {
			m.watcher = w
		}
	}

	return m
}

// lineTypes returns the networks that are browsed by line.
func lineTypes() []models.TransportType {
	var out []models.TransportType
	for _, t := range models.TransportTypes {
		if t.HasLines() {
			out = append(out, t)
		}
	}
	return out
}

func (m *Model) setLanguage(lang string) {
	m.strings = locale.For(lang)
	m.formatter = countdown.NewFormatter(m.strings, m.client.Timezone())
}

// setTheme switches the shared styles to the palette of mode.
func (m *Model) setTheme(mode prefs.ThemeMode) {
	m.theme = mode
	applyTheme(mode)
}

func (m Model) currentType() models.TransportType {
	return m.types[m.activeType]
}

// Init loads the first network, the favorites and starts the refresh loop.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
		fetchLines(m.client, m.currentType(), m.listSeq),
		fetchFavorites(m.client),
		refreshTick(),
	}
	if m.watcher != nil {
		cmds = append(cmds, waitForPrefsChange(m.watcher, m.prefs))
	}
	return tea.Batch(cmds...)
}

// Close releases the prefs watcher.
func (m Model) Close() error {
	if m.watcher != nil {
		return m.watcher.Close()
	}
	return nil
}

// isFavorite reports whether st is a favorite.
func (m Model) isFavorite(st models.Station) bool {
	return m.favs.Has(st.TransportType, st.Code)
}

// cursorStation returns the station under the list cursor, if any.
func (m Model) cursorStation() *models.Station {
	if m.mode == listLines || m.listCursor < 0 || m.listCursor >= len(m.stations) {
		return nil
	}
	st := m.stations[m.listCursor]
	return &st
}
