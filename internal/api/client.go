package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/bcntransit/bcnt-cli/internal/cache"
	"github.com/bcntransit/bcnt-cli/internal/locale"
	"github.com/bcntransit/bcnt-cli/internal/models"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultCacheTTL = 24 * time.Hour
	defaultTimezone = "Europe/Madrid"
)

// Cache interface for caching HTTP responses
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
}

// Client is the API client for the BCN Transit backend
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	timezone   *time.Location
	cache      Cache
	cacheErr   error
	tokens     oauth2.TokenSource
	logger     *log.Logger

	mu       sync.RWMutex
	language string
}

// ClientOption configures the Client
type ClientOption func(*Client)

// WithTimeout sets the HTTP client timeout
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithCache enables caching with the provided cache implementation.
// Only static data (lines, stations, connections, accesses) is cached.
func WithCache(cache Cache) ClientOption {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithDefaultCache enables caching in the default cache directory. A
// non-positive ttl keeps entries for a day. When the directory cannot be
// created the client runs uncached and the failure is logged.
func WithDefaultCache(ttl time.Duration) ClientOption {
	return func(c *Client) {
		if ttl <= 0 {
			ttl = defaultCacheTTL
		}
		fc, err := cache.NewFileCache(cache.DefaultCacheDir(), ttl)
		if err != nil {
			c.cacheErr = err
			return
		}
		c.cache = fc
	}
}

// WithBaseURL overrides the backend URL
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithAPIKey sets the key sent as X-API-Key
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithTokenSource attaches bearer tokens from ts to every request
func WithTokenSource(ts oauth2.TokenSource) ClientOption {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithStaticToken attaches a fixed bearer token. Empty tokens are ignored.
func WithStaticToken(token string) ClientOption {
	return func(c *Client) {
		if token != "" {
			c.tokens = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
		}
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(l *log.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithLanguage sets the Accept-Language sent to the backend
func WithLanguage(lang string) ClientOption {
	return func(c *Client) {
		c.language = locale.Normalize(lang)
	}
}

// WithTimezone sets the location used for naive timestamps
func WithTimezone(loc *time.Location) ClientOption {
	return func(c *Client) {
		if loc != nil {
			c.timezone = loc
		}
	}
}

// NewClient creates a new API client
func NewClient(opts ...ClientOption) (*Client, error) {
	tz, err := time.LoadLocation(defaultTimezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL:  BaseURL,
		timezone: tz,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
		language: locale.Default,
	}

	for _, opt := range opts {
		opt(c)
	}
	if c.cacheErr != nil {
		c.logger.Warn("cache disabled", "err", c.cacheErr)
	}

	if c.tokens != nil {
		hc := *c.httpClient
		base := hc.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		hc.Transport = &oauth2.Transport{
			Source: oauth2.ReuseTokenSource(nil, c.tokens),
			Base:   base,
		}
		c.httpClient = &hc
	}

	return c, nil
}

// Timezone returns the client's timezone
func (c *Client) Timezone() *time.Location {
	return c.timezone
}

// Language returns the language sent to the backend
func (c *Client) Language() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.language
}

// SetLanguage changes the language of subsequent requests
func (c *Client) SetLanguage(lang string) {
	c.mu.Lock()
	c.language = locale.Normalize(lang)
	c.mu.Unlock()
}

func validateType(tt models.TransportType) error {
	if _, err := models.ParseTransportType(string(tt)); err != nil {
		return ErrInvalidValue("type", tt)
	}
	return nil
}

func validateLineType(tt models.TransportType) error {
	if err := validateType(tt); err != nil {
		return err
	}
	if !tt.HasLines() {
		return NewValidationError("type", fmt.Sprintf("%s has no lines", tt))
	}
	return nil
}

func path(format string, args ...interface{}) string {
	for i, a := range args {
		if s, ok := a.(string); ok {
			args[i] = url.PathEscape(s)
		}
	}
	return fmt.Sprintf(format, args...)
}

// GetLines fetches the lines of a network
func (c *Client) GetLines(ctx context.Context, tt models.TransportType) ([]models.Line, error) {
	body, err := c.GetLinesRaw(ctx, tt)
	if err != nil {
		return nil, err
	}

	var resp []models.LineResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse lines response: %w", err)
	}

	lines := make([]models.Line, 0, len(resp))
	for _, entry := range resp {
		line := entry.ToLine()
		if line.TransportType == "" {
			line.TransportType = tt
		}
		lines = append(lines, *line)
	}

	return lines, nil
}

// GetLinesRaw fetches the lines of a network and returns raw JSON
func (c *Client) GetLinesRaw(ctx context.Context, tt models.TransportType) (json.RawMessage, error) {
	if err := validateLineType(tt); err != nil {
		return nil, err
	}
	return c.get(ctx, path(EndpointLines, string(tt)), nil, true)
}

// GetStationsByLine fetches the stations of a line in travel order
func (c *Client) GetStationsByLine(ctx context.Context, tt models.TransportType, lineCode string) ([]models.Station, error) {
	body, err := c.GetStationsByLineRaw(ctx, tt, lineCode)
	if err != nil {
		return nil, err
	}
	return c.parseStations(body, tt, "stations")
}

// GetStationsByLineRaw fetches the stations of a line and returns raw JSON
func (c *Client) GetStationsByLineRaw(ctx context.Context, tt models.TransportType, lineCode string) (json.RawMessage, error) {
	if err := validateLineType(tt); err != nil {
		return nil, err
	}
	if strings.TrimSpace(lineCode) == "" {
		return nil, ErrMissingField("line")
	}
	return c.get(ctx, path(EndpointLineStations, string(tt), lineCode), nil, true)
}

func (c *Client) parseStations(body []byte, tt models.TransportType, what string) ([]models.Station, error) {
	var resp []models.StationResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse %s response: %w", what, err)
	}

	stations := make([]models.Station, 0, len(resp))
	for _, entry := range resp {
		s := entry.ToStation()
		if s.TransportType == "" {
			s.TransportType = tt
		}
		stations = append(stations, *s)
	}

	return stations, nil
}

// GetStationRoutes fetches the routes serving a station, soonest first
func (c *Client) GetStationRoutes(ctx context.Context, tt models.TransportType, stationCode string) ([]models.Route, error) {
	body, err := c.GetStationRoutesRaw(ctx, tt, stationCode)
	if err != nil {
		return nil, err
	}

	var resp []models.RouteResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse routes response: %w", err)
	}

	routes := make([]models.Route, 0, len(resp))
	for _, entry := range resp {
		r := entry.ToRoute()
		if r.TransportType == "" {
			r.TransportType = tt
		}
		routes = append(routes, *r)
	}
	models.SortRoutes(routes)

	return routes, nil
}

// GetStationRoutesRaw fetches the routes of a station and returns raw JSON
func (c *Client) GetStationRoutesRaw(ctx context.Context, tt models.TransportType, stationCode string) (json.RawMessage, error) {
	if err := validateLineType(tt); err != nil {
		return nil, err
	}
	if strings.TrimSpace(stationCode) == "" {
		return nil, ErrMissingField("station")
	}
	return c.get(ctx, path(EndpointStationRoutes, string(tt), stationCode), nil, false)
}

// GetStationConnections fetches the lines reachable from a station
func (c *Client) GetStationConnections(ctx context.Context, tt models.TransportType, stationCode string) ([]models.Connection, error) {
	body, err := c.GetStationConnectionsRaw(ctx, tt, stationCode)
	if err != nil {
		return nil, err
	}

	var resp []models.ConnectionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse connections response: %w", err)
	}

	conns := make([]models.Connection, 0, len(resp))
	for _, entry := range resp {
		conns = append(conns, *entry.ToConnection())
	}

	return conns, nil
}

// GetStationConnectionsRaw fetches station connections and returns raw JSON
func (c *Client) GetStationConnectionsRaw(ctx context.Context, tt models.TransportType, stationCode string) (json.RawMessage, error) {
	if err := validateLineType(tt); err != nil {
		return nil, err
	}
	if strings.TrimSpace(stationCode) == "" {
		return nil, ErrMissingField("station")
	}
	return c.get(ctx, path(EndpointStationConnections, string(tt), stationCode), nil, true)
}

// GetStationAccesses fetches the street entrances of a station
func (c *Client) GetStationAccesses(ctx context.Context, tt models.TransportType, stationCode string) ([]models.Access, error) {
	body, err := c.GetStationAccessesRaw(ctx, tt, stationCode)
	if err != nil {
		return nil, err
	}

	var resp []models.AccessResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse accesses response: %w", err)
	}

	accesses := make([]models.Access, 0, len(resp))
	for _, entry := range resp {
		accesses = append(accesses, *entry.ToAccess())
	}

	return accesses, nil
}

// GetStationAccessesRaw fetches station accesses and returns raw JSON
func (c *Client) GetStationAccessesRaw(ctx context.Context, tt models.TransportType, stationCode string) (json.RawMessage, error) {
	if err := validateLineType(tt); err != nil {
		return nil, err
	}
	if strings.TrimSpace(stationCode) == "" {
		return nil, ErrMissingField("station")
	}
	return c.get(ctx, path(EndpointStationAccesses, string(tt), stationCode), nil, true)
}

// GetAlerts fetches the service alerts of a network
func (c *Client) GetAlerts(ctx context.Context, tt models.TransportType) ([]models.Alert, error) {
	body, err := c.GetAlertsRaw(ctx, tt)
	if err != nil {
		return nil, err
	}

	var resp []models.AlertResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse alerts response: %w", err)
	}

	alerts := make([]models.Alert, 0, len(resp))
	for _, entry := range resp {
		alerts = append(alerts, *entry.ToAlert(c.timezone))
	}

	return alerts, nil
}

// GetAlertsRaw fetches the alerts of a network and returns raw JSON
func (c *Client) GetAlertsRaw(ctx context.Context, tt models.TransportType) (json.RawMessage, error) {
	if err := validateLineType(tt); err != nil {
		return nil, err
	}
	return c.get(ctx, path(EndpointAlerts, string(tt)), nil, false)
}

// GetBicingStation fetches live availability of a bike-share dock
func (c *Client) GetBicingStation(ctx context.Context, stationID string) (*models.BicingStation, error) {
	body, err := c.GetBicingStationRaw(ctx, stationID)
	if err != nil {
		return nil, err
	}

	var resp models.BicingStationResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse bicing response: %w", err)
	}

	return resp.ToBicingStation(), nil
}

// GetBicingStationRaw fetches a bike-share dock and returns raw JSON
func (c *Client) GetBicingStationRaw(ctx context.Context, stationID string) (json.RawMessage, error) {
	if strings.TrimSpace(stationID) == "" {
		return nil, ErrMissingField("station")
	}
	return c.get(ctx, path(EndpointBicingStation, stationID), nil, false)
}

// SearchStations searches stations of every network by name. A search
// matching nothing returns ErrNoResults.
func (c *Client) SearchStations(ctx context.Context, query string) ([]models.Station, error) {
	body, err := c.SearchStationsRaw(ctx, query)
	if err != nil {
		return nil, err
	}
	stations, err := c.parseStations(body, "", "search")
	if err != nil {
		return nil, err
	}
	if len(stations) == 0 {
		return nil, fmt.Errorf("search %q: %w", strings.TrimSpace(query), ErrNoResults)
	}
	return stations, nil
}

// SearchStationsRaw searches stations and returns raw JSON
func (c *Client) SearchStationsRaw(ctx context.Context, query string) (json.RawMessage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrMissingField("name")
	}
	params := url.Values{}
	params.Set("name", query)
	return c.get(ctx, EndpointSearch, params, false)
}

// GetSearchHistory fetches the user's recent search queries
func (c *Client) GetSearchHistory(ctx context.Context) ([]string, error) {
	body, err := c.GetSearchHistoryRaw(ctx)
	if err != nil {
		return nil, err
	}

	var history []string
	if err := json.Unmarshal(body, &history); err != nil {
		return nil, fmt.Errorf("failed to parse search history response: %w", err)
	}

	return history, nil
}

// GetSearchHistoryRaw fetches the search history and returns raw JSON
func (c *Client) GetSearchHistoryRaw(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, EndpointSearchHistory, nil, false)
}

// RegisterUser registers this device with the backend
func (c *Client) RegisterUser(ctx context.Context, req models.RegisterRequest) (bool, error) {
	if req.FCMToken == "" {
		return false, ErrMissingField("fcmToken")
	}
	body, err := c.send(ctx, http.MethodPost, EndpointRegister, nil, req)
	if err != nil {
		return false, err
	}
	return parseBool(body, "register")
}

// GetNotificationsConfiguration reports whether alerts are pushed to the user
func (c *Client) GetNotificationsConfiguration(ctx context.Context) (bool, error) {
	body, err := c.GetNotificationsConfigurationRaw(ctx)
	if err != nil {
		return false, err
	}
	return parseBool(body, "notifications")
}

// GetNotificationsConfigurationRaw fetches the subscription state as raw JSON
func (c *Client) GetNotificationsConfigurationRaw(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, EndpointNotificationsConfig, nil, false)
}

// ToggleNotifications enables or disables pushed alerts. The result is the
// server's acknowledgement, not the new state.
func (c *Client) ToggleNotifications(ctx context.Context, enabled bool) (bool, error) {
	body, err := c.send(ctx, http.MethodPost, fmt.Sprintf(EndpointNotificationsToggle, enabled), nil, nil)
	if err != nil {
		return false, err
	}
	return parseBool(body, "notifications toggle")
}

// GetFavorites fetches the user's favorite stations
func (c *Client) GetFavorites(ctx context.Context) ([]models.Favorite, error) {
	body, err := c.GetFavoritesRaw(ctx)
	if err != nil {
		return nil, err
	}

	var favs []models.Favorite
	if err := json.Unmarshal(body, &favs); err != nil {
		return nil, fmt.Errorf("failed to parse favorites response: %w", err)
	}

	return favs, nil
}

// GetFavoritesRaw fetches the favorites and returns raw JSON
func (c *Client) GetFavoritesRaw(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, EndpointFavorites, nil, false)
}

// AddFavorite saves a station as favorite
func (c *Client) AddFavorite(ctx context.Context, fav models.Favorite) (bool, error) {
	if fav.Type == "" {
		return false, ErrMissingField("type")
	}
	if fav.StationCode == "" {
		return false, ErrMissingField("station_code")
	}
	body, err := c.send(ctx, http.MethodPost, EndpointFavorites, nil, fav)
	if err != nil {
		return false, err
	}
	return parseBool(body, "add favorite")
}

// DeleteFavorite removes a favorite by network and station code
func (c *Client) DeleteFavorite(ctx context.Context, tt, itemID string) (bool, error) {
	params, err := favoriteParams(tt, itemID)
	if err != nil {
		return false, err
	}
	body, err := c.send(ctx, http.MethodDelete, EndpointFavorites, params, nil)
	if err != nil {
		return false, err
	}
	return parseBool(body, "delete favorite")
}

// HasFavorite reports whether a station is a favorite
func (c *Client) HasFavorite(ctx context.Context, tt, itemID string) (bool, error) {
	params, err := favoriteParams(tt, itemID)
	if err != nil {
		return false, err
	}
	body, err := c.get(ctx, EndpointFavoriteExists, params, false)
	if err != nil {
		return false, err
	}
	return parseBool(body, "favorite exists")
}

func favoriteParams(tt, itemID string) (url.Values, error) {
	if tt == "" {
		return nil, ErrMissingField("type")
	}
	if itemID == "" {
		return nil, ErrMissingField("item_id")
	}
	params := url.Values{}
	params.Set("type", tt)
	params.Set("item_id", itemID)
	return params, nil
}

func parseBool(body []byte, what string) (bool, error) {
	var ok bool
	if err := json.Unmarshal(body, &ok); err != nil {
		return false, fmt.Errorf("failed to parse %s response: %w", what, err)
	}
	return ok, nil
}

// get performs a GET request, using the cache when cacheable is set
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, cacheable bool) ([]byte, error) {
	reqURL := c.baseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	key := c.Language() + " " + reqURL
	if cacheable && c.cache != nil {
		if data, ok := c.cache.Get(key); ok {
			c.logger.Debug("cache hit", "path", endpoint)
			return data, nil
		}
	}

	body, err := c.doRequest(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	if cacheable && c.cache != nil {
		if err := c.cache.Set(key, body); err != nil {
			c.logger.Warn("cache write failed", "path", endpoint, "err", err)
		}
	}

	return body, nil
}

// send performs a mutating request with an optional JSON payload
func (c *Client) send(ctx context.Context, method, endpoint string, params url.Values, payload interface{}) ([]byte, error) {
	reqURL := c.baseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	return c.doRequest(ctx, method, reqURL, body)
}

// doRequest performs an HTTP request against the backend
func (c *Client) doRequest(ctx context.Context, method, reqURL string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", c.Language())
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	endpoint := extractEndpoint(reqURL)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Check for context errors
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", ErrTimeout, ctx.Err())
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("request", "method", method, "path", endpoint, "status", resp.StatusCode, "duration", time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if msg := errorDetail(resp.Body); msg != "" {
			return nil, NewAPIErrorWithMessage(resp.StatusCode, endpoint, msg)
		}
		return nil, NewAPIError(resp.StatusCode, resp.Status, endpoint)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

// errorDetail extracts the "detail" message of an error body, if any
func errorDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Detail  interface{} `json:"detail"`
		Message string      `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	if s, ok := payload.Detail.(string); ok && s != "" {
		return s
	}
	return payload.Message
}

// extractEndpoint extracts the endpoint path from a full URL
func extractEndpoint(fullURL string) string {
	u, err := url.Parse(fullURL)
	if err != nil {
		return fullURL
	}
	return u.Path
}
