package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/bcntransit/bcnt-cli/internal/cache"
	"github.com/bcntransit/bcnt-cli/internal/models"
	"github.com/bcntransit/bcnt-cli/internal/testutil"
)

func TestNewClient(t *testing.T) {
	client, err := NewClient()
	testutil.AssertNil(t, err)
	testutil.AssertTrue(t, client != nil)
	testutil.AssertTrue(t, client.httpClient != nil)
	testutil.AssertEqual(t, client.baseURL, BaseURL)
	testutil.AssertTrue(t, client.timezone != nil)
	testutil.AssertEqual(t, client.Language(), "es")
}

func TestNewClient_WithTimeout(t *testing.T) {
	customTimeout := 30 * time.Second
	client, err := NewClient(WithTimeout(customTimeout))
	testutil.AssertNil(t, err)
	testutil.AssertEqual(t, client.httpClient.Timeout, customTimeout)
}

func TestNewClient_WithHTTPClient(t *testing.T) {
	customClient := &http.Client{Timeout: 5 * time.Second}
	client, err := NewClient(WithHTTPClient(customClient))
	testutil.AssertNil(t, err)
	testutil.AssertEqual(t, client.httpClient, customClient)
}

func TestNewClient_WithCache(t *testing.T) {
	mockCache := newMockCache()
	client, err := NewClient(WithCache(mockCache))
	testutil.AssertNil(t, err)
	testutil.AssertTrue(t, client.cache != nil)
}

func TestNewClient_WithDefaultCache(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)

	client, err := NewClient(WithDefaultCache(2 * time.Hour))
	testutil.AssertNil(t, err)
	fc, ok := client.cache.(*cache.FileCache)
	testutil.AssertTrue(t, ok)
	testutil.AssertEqual(t, fc.Dir(), filepath.Join(dir, "bcnt"))
	testutil.AssertEqual(t, fc.TTL(), 2*time.Hour)

	client, err = NewClient(WithDefaultCache(0))
	testutil.AssertNil(t, err)
	fc, ok = client.cache.(*cache.FileCache)
	testutil.AssertTrue(t, ok)
	testutil.AssertEqual(t, fc.TTL(), defaultCacheTTL)
}

func TestNewClient_WithDefaultCacheUnavailable(t *testing.T) {
	// A regular file where the cache directory should go
	blocker := filepath.Join(t.TempDir(), "cache")
	testutil.AssertNil(t, os.WriteFile(blocker, []byte("x"), 0600))
	t.Setenv("XDG_CACHE_HOME", blocker)

	client, err := NewClient(WithDefaultCache(time.Hour))
	testutil.AssertNil(t, err)
	testutil.AssertTrue(t, client.cache == nil)
	testutil.AssertError(t, client.cacheErr)
}

func TestNewClient_WithBaseURL(t *testing.T) {
	client, err := NewClient(WithBaseURL("http://localhost:8000/"))
	testutil.AssertNil(t, err)
	testutil.AssertEqual(t, client.baseURL, "http://localhost:8000")
}

func TestNewClient_WithLanguage(t *testing.T) {
	client, err := NewClient(WithLanguage("ca-ES"))
	testutil.AssertNil(t, err)
	testutil.AssertEqual(t, client.Language(), "ca")

	client.SetLanguage("fr")
	testutil.AssertEqual(t, client.Language(), "es")
}

func TestClient_Timezone(t *testing.T) {
	client, err := NewClient()
	testutil.AssertNil(t, err)
	tz := client.Timezone()
	testutil.AssertTrue(t, tz != nil)
	testutil.AssertEqual(t, tz.String(), "Europe/Madrid")
}

func TestClient_Headers(t *testing.T) {
	ms := testutil.NewJSONServer(http.StatusOK, testutil.SampleLinesResponse)
	defer ms.Close()

	client, err := NewClient(
		WithBaseURL(ms.URL),
		WithAPIKey("secret-key"),
		WithStaticToken("token-123"),
		WithLanguage("en"),
	)
	testutil.AssertNil(t, err)

	_, err = client.GetLines(context.Background(), models.Metro)
	testutil.AssertNil(t, err)

	req := ms.LastRequest()
	testutil.AssertEqual(t, req.Header.Get("X-API-Key"), "secret-key")
	testutil.AssertEqual(t, req.Header.Get("Authorization"), "Bearer token-123")
	testutil.AssertEqual(t, req.Header.Get("Accept-Language"), "en")
	testutil.AssertEqual(t, len(req.Header.Get("X-Request-Id")), 36)
}

func TestClient_RequestIDsAreUnique(t *testing.T) {
	ms := testutil.NewJSONServer(http.StatusOK, testutil.SampleEmptyResponse)
	defer ms.Close()

	client := newTestClient(ms.URL)
	_, _ = client.GetAlerts(context.Background(), models.Metro)
	_, _ = client.GetAlerts(context.Background(), models.Metro)

	reqs := ms.Requests()
	testutil.AssertLen(t, reqs, 2)
	testutil.AssertTrue(t, reqs[0].Header.Get("X-Request-Id") != reqs[1].Header.Get("X-Request-Id"))
}

func TestClient_NoAuthWithoutToken(t *testing.T) {
	ms := testutil.NewJSONServer(http.StatusOK, testutil.SampleEmptyResponse)
	defer ms.Close()

	client := newTestClient(ms.URL)
	_, err := client.GetAlerts(context.Background(), models.Tram)
	testutil.AssertNil(t, err)
	testutil.AssertEqual(t, ms.LastRequest().Header.Get("Authorization"), "")
	testutil.AssertEqual(t, ms.LastRequest().Header.Get("X-API-Key"), "")
}

type failingTokenSource struct{}

func (failingTokenSource) Token() (*oauth2.Token, error) {
	return nil, errors.New("token unavailable")
}

func TestClient_TokenSourceError(t *testing.T) {
	ms := testutil.NewJSONServer(http.StatusOK, testutil.SampleEmptyResponse)
	defer ms.Close()

	client, err := NewClient(WithBaseURL(ms.URL), WithTokenSource(failingTokenSource{}))
	testutil.AssertNil(t, err)

	_, err = client.GetAlerts(context.Background(), models.Metro)
	testutil.AssertError(t, err)
	testutil.AssertEqual(t, ms.RequestCount(), 0)
}

func TestGetLines_Success(t *testing.T) {
	ms := testutil.NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		testutil.AssertEqual(t, r.Method, "GET")
		testutil.AssertEqual(t, r.URL.Path, "/metro/lines")

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(testutil.SampleLinesResponse))
	})
	defer ms.Close()

	client := newTestClient(ms.URL)

	lines, err := client.GetLines(context.Background(), models.Metro)
	testutil.AssertNil(t, err)
	testutil.AssertLen(t, lines, 2)
	testutil.AssertEqual(t, lines[1].Name, "L3")
	testutil.AssertEqual(t, lines[1].Color, "#3EA12F")
	testutil.AssertTrue(t, lines[1].HasAlerts)
	testutil.AssertEqual(t, ms.RequestCount(), 1)
}

func TestGetLines_InvalidJSON(t *testing.T) {
	ms := testutil.NewJSONServer(http.StatusOK, `invalid json`)
	defer ms.Close()

	client := newTestClient(ms.URL)

	_, err := client.GetLines(context.Background(), models.Metro)
	testutil.AssertError(t, err)
}

func TestGetLines_Validation(t *testing.T) {
	client := newTestClient("http://127.0.0.1:0")

	tests := []struct {
		name string
		tt   models.TransportType
	}{
		{"unknown type", models.TransportType("ferry")},
		{"bicing has no lines", models.Bicing},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.GetLines(context.Background(), tt.tt)
			var ve *ValidationError
			testutil.AssertTrue(t, errors.As(err, &ve))
			testutil.AssertEqual(t, ve.Field, "type")
		})
	}
}

func TestGetLines_HTTPError(t *testing.T) {
	ms := testutil.NewJSONServer(http.StatusInternalServerError, `{"error":"server error"}`)
	defer ms.Close()

	client := newTestClient(ms.URL)

	_, err := client.GetLines(context.Background(), models.Bus)
	testutil.AssertErrorIs(t, err, ErrServerError)
}

func TestGetStationsByLine_Success(t *testing.T) {
	ms := testutil.NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		testutil.AssertEqual(t, r.URL.Path, "/metro/lines/1/stations")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(testutil.SampleStationsResponse))
	})
	defer ms.Close()

	client := newTestClient(ms.URL)

	stations, err := client.GetStationsByLine(context.Background(), models.Metro, "1")
	testutil.AssertNil(t, err)
	testutil.AssertLen(t, stations, 2)
	testutil.AssertEqual(t, stations[1].Name, "Catalunya")
	testutil.AssertEqual(t, stations[1].GroupCode, "6660127")
	testutil.AssertEqual(t, stations[1].TransportType, models.Metro)
}

func TestGetStationsByLine_MissingLine(t *testing.T) {
	client := newTestClient("http://127.0.0.1:0")
	_, err := client.GetStationsByLine(context.Background(), models.Metro, " ")
	var ve *ValidationError
	testutil.AssertTrue(t, errors.As(err, &ve))
	testutil.AssertEqual(t, ve.Field, "line")
}

func TestGetStationRoutes_Success(t *testing.T) {
	ms := testutil.NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		testutil.AssertEqual(t, r.URL.Path, "/metro/stations/127/routes")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(testutil.SampleRoutesResponse))
	})
	defer ms.Close()

	client := newTestClient(ms.URL)

	routes, err := client.GetStationRoutes(context.Background(), models.Metro, "127")
	testutil.AssertNil(t, err)
	testutil.AssertLen(t, routes, 2)
	testutil.AssertEqual(t, routes[0].Destination, "Fondo")
	testutil.AssertLen(t, routes[0].NextTrips, 2)
	testutil.AssertEqual(t, routes[0].NextTrips[1].DelayMinutes, 2)
	testutil.AssertTrue(t, routes[1].SoonestTrip() == nil)
}

func TestGetStationRoutes_EscapesPath(t *testing.T) {
	ms := testutil.NewJSONServer(http.StatusOK, testutil.SampleEmptyResponse)
	defer ms.Close()

	client := newTestClient(ms.URL)
	_, err := client.GetStationRoutes(context.Background(), models.Bus, "a/b")
	testutil.AssertNil(t, err)
	testutil.AssertEqual(t, ms.LastRequest().URL.EscapedPath(), "/bus/stations/a%2Fb/routes")
}

func TestGetStationRoutes_NotCached(t *testing.T) {
	mc := newMockCache()
	ms := testutil.NewJSONServer(http.StatusOK, testutil.SampleRoutesResponse)
	defer ms.Close()

	client := newTestClient(ms.URL)
	client.cache = mc

	for i := 0; i < 2; i++ {
		_, err := client.GetStationRoutes(context.Background(), models.Metro, "127")
		testutil.AssertNil(t, err)
	}
	testutil.AssertEqual(t, ms.RequestCount(), 2)
	testutil.AssertEqual(t, mc.size(), 0)
}

func TestGetStationConnectionsAndAccesses(t *testing.T) {
	ms := testutil.NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		switch {
		case strings.HasSuffix(r.URL.Path, "/connections"):
			_, _ = w.Write([]byte(testutil.SampleConnectionsResponse))
		case strings.HasSuffix(r.URL.Path, "/accesses"):
			_, _ = w.Write([]byte(testutil.SampleAccessesResponse))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	defer ms.Close()

	client := newTestClient(ms.URL)

	conns, err := client.GetStationConnections(context.Background(), models.Metro, "127")
	testutil.AssertNil(t, err)
	testutil.AssertLen(t, conns, 2)
	testutil.AssertEqual(t, conns[1].TransportType, models.Rodalies)

	accesses, err := client.GetStationAccesses(context.Background(), models.Metro, "127")
	testutil.AssertNil(t, err)
	testutil.AssertLen(t, accesses, 2)
	testutil.AssertTrue(t, accesses[0].HasElevator())
	testutil.AssertFalse(t, accesses[1].HasElevator())
}

func TestGetAlerts_Success(t *testing.T) {
	ms := testutil.NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		testutil.AssertEqual(t, r.URL.Path, "/metro/alerts")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(testutil.SampleAlertsResponse))
	})
	defer ms.Close()

	client := newTestClient(ms.URL)

	alerts, err := client.GetAlerts(context.Background(), models.Metro)
	testutil.AssertNil(t, err)
	testutil.AssertLen(t, alerts, 1)
	testutil.AssertEqual(t, alerts[0].Header("ca"), "Servei interromput")
	testutil.AssertTrue(t, alerts[0].Affects("L1"))
	testutil.AssertEqual(t, alerts[0].Begin.Location().String(), "Europe/Madrid")
}

func TestGetBicingStation_Success(t *testing.T) {
	ms := testutil.NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		testutil.AssertEqual(t, r.URL.Path, "/bicing/stations/42")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(testutil.SampleBicingResponse))
	})
	defer ms.Close()

	client := newTestClient(ms.URL)

	st, err := client.GetBicingStation(context.Background(), "42")
	testutil.AssertNil(t, err)
	testutil.AssertEqual(t, st.Bikes(), 8)
	testutil.AssertTrue(t, st.InService())
}

func TestGetBicingStation_NotFound(t *testing.T) {
	ms := testutil.NewJSONServer(http.StatusNotFound, testutil.SampleErrorResponse)
	defer ms.Close()

	client := newTestClient(ms.URL)

	_, err := client.GetBicingStation(context.Background(), "999")
	testutil.AssertErrorIs(t, err, ErrNotFound)

	var apiErr *APIError
	testutil.AssertTrue(t, errors.As(err, &apiErr))
	testutil.AssertEqual(t, apiErr.Message, "Station not found")
	testutil.AssertEqual(t, apiErr.Endpoint, "/bicing/stations/999")
}

func TestSearchStations_Success(t *testing.T) {
	ms := testutil.NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		testutil.AssertEqual(t, r.URL.Path, "/results")
		testutil.AssertEqual(t, r.URL.Query().Get("name"), "Catalunya")

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(testutil.SampleSearchResponse))
	})
	defer ms.Close()

	client := newTestClient(ms.URL)

	stations, err := client.SearchStations(context.Background(), " Catalunya ")
	testutil.AssertNil(t, err)
	testutil.AssertLen(t, stations, 2)
	testutil.AssertEqual(t, stations[1].TransportType, models.Rodalies)
}

func TestSearchStations_NoMatches(t *testing.T) {
	ms := testutil.NewJSONServer(http.StatusOK, `[]`)
	defer ms.Close()

	client := newTestClient(ms.URL)

	stations, err := client.SearchStations(context.Background(), "Zzyzx")
	testutil.AssertErrorIs(t, err, ErrNoResults)
	testutil.AssertContains(t, err.Error(), `"Zzyzx"`)
	testutil.AssertLen(t, stations, 0)

	// The raw variant passes the empty array through untouched
	raw, err := client.SearchStationsRaw(context.Background(), "Zzyzx")
	testutil.AssertNil(t, err)
	testutil.AssertEqual(t, string(raw), "[]")
}

func TestSearchStations_EmptyQuery(t *testing.T) {
	client, _ := NewClient()

	stations, err := client.SearchStations(context.Background(), "")
	testutil.AssertError(t, err)
	testutil.AssertLen(t, stations, 0)
}

func TestGetSearchHistory(t *testing.T) {
	ms := testutil.NewJSONServer(http.StatusOK, testutil.SampleSearchHistoryResponse)
	defer ms.Close()

	client := newTestClient(ms.URL)

	history, err := client.GetSearchHistory(context.Background())
	testutil.AssertNil(t, err)
	testutil.AssertSliceEqual(t, history, []string{"Catalunya", "Sants", "Glòries"})
	testutil.AssertEqual(t, ms.LastRequest().URL.Path, "/results/history")
}

func TestGetLinesRaw_Success(t *testing.T) {
	ms := testutil.NewJSONServer(http.StatusOK, testutil.SampleLinesResponse)
	defer ms.Close()

	client := newTestClient(ms.URL)

	rawJSON, err := client.GetLinesRaw(context.Background(), models.Tram)
	testutil.AssertNil(t, err)
	testutil.AssertTrue(t, json.Valid(rawJSON))
}

func TestClient_WithCache(t *testing.T) {
	mockCache := newMockCache()

	ms := testutil.NewJSONServer(http.StatusOK, testutil.SampleLinesResponse)
	defer ms.Close()

	client := newTestClient(ms.URL)
	client.cache = mockCache

	// First call - should hit the server
	_, err := client.GetLines(context.Background(), models.Metro)
	testutil.AssertNil(t, err)
	testutil.AssertEqual(t, ms.RequestCount(), 1)

	// Second call - should use cache
	lines, err := client.GetLines(context.Background(), models.Metro)
	testutil.AssertNil(t, err)
	testutil.AssertLen(t, lines, 2)
	testutil.AssertEqual(t, ms.RequestCount(), 1)

	// Another language is cached separately
	client.SetLanguage("ca")
	_, err = client.GetLines(context.Background(), models.Metro)
	testutil.AssertNil(t, err)
	testutil.AssertEqual(t, ms.RequestCount(), 2)
}

func TestClient_ContextCancellation(t *testing.T) {
	// Create a server that delays response
	ms := testutil.NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(testutil.SampleLinesResponse))
	})
	defer ms.Close()

	client := newTestClient(ms.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err := client.GetLines(ctx, models.Metro)
	testutil.AssertErrorIs(t, err, ErrTimeout)
}

func TestRegisterUser(t *testing.T) {
	ms := testutil.NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		testutil.AssertEqual(t, r.Method, http.MethodPost)
		testutil.AssertEqual(t, r.URL.Path, "/users/register")
		testutil.AssertEqual(t, r.Header.Get("Content-Type"), "application/json")

		body, _ := io.ReadAll(r.Body)
		testutil.AssertEqual(t, string(body), `{"fcmToken":"device-1"}`)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`true`))
	})
	defer ms.Close()

	client := newTestClient(ms.URL)

	ok, err := client.RegisterUser(context.Background(), models.RegisterRequest{FCMToken: "device-1"})
	testutil.AssertNil(t, err)
	testutil.AssertTrue(t, ok)

	_, err = client.RegisterUser(context.Background(), models.RegisterRequest{})
	testutil.AssertError(t, err)
	testutil.AssertEqual(t, ms.RequestCount(), 1)
}

func TestNotifications(t *testing.T) {
	ms := testutil.NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		switch r.URL.Path {
		case "/users/notifications/configuration":
			_, _ = w.Write([]byte(`false`))
		case "/users/notifications/toggle/true":
			testutil.AssertEqual(t, r.Method, http.MethodPost)
			_, _ = w.Write([]byte(`true`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	defer ms.Close()

	client := newTestClient(ms.URL)

	enabled, err := client.GetNotificationsConfiguration(context.Background())
	testutil.AssertNil(t, err)
	testutil.AssertFalse(t, enabled)

	ack, err := client.ToggleNotifications(context.Background(), true)
	testutil.AssertNil(t, err)
	testutil.AssertTrue(t, ack)
}

func TestFavorites(t *testing.T) {
	ms := testutil.NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		switch {
		case r.URL.Path == "/users/favorites" && r.Method == http.MethodGet:
			_, _ = w.Write([]byte(testutil.SampleFavoritesResponse))
		case r.URL.Path == "/users/favorites" && r.Method == http.MethodPost:
			var fav models.Favorite
			testutil.AssertNil(t, json.NewDecoder(r.Body).Decode(&fav))
			testutil.AssertEqual(t, fav.StationCode, "127")
			_, _ = w.Write([]byte(`true`))
		case r.URL.Path == "/users/favorites" && r.Method == http.MethodDelete:
			testutil.AssertEqual(t, r.URL.Query().Get("type"), "metro")
			testutil.AssertEqual(t, r.URL.Query().Get("item_id"), "127")
			_, _ = w.Write([]byte(`true`))
		case r.URL.Path == "/users/favorites/exists":
			_, _ = w.Write([]byte(`false`))
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})
	defer ms.Close()

	client := newTestClient(ms.URL)
	ctx := context.Background()

	favs, err := client.GetFavorites(ctx)
	testutil.AssertNil(t, err)
	testutil.AssertLen(t, favs, 3)
	testutil.AssertEqual(t, favs[0].DisplayLine(), "🟥 L1")
	testutil.AssertTrue(t, favs[1].StationGroupCode == nil)

	added, err := client.AddFavorite(ctx, favs[0])
	testutil.AssertNil(t, err)
	testutil.AssertTrue(t, added)

	deleted, err := client.DeleteFavorite(ctx, "metro", "127")
	testutil.AssertNil(t, err)
	testutil.AssertTrue(t, deleted)

	exists, err := client.HasFavorite(ctx, "metro", "127")
	testutil.AssertNil(t, err)
	testutil.AssertFalse(t, exists)

	_, err = client.DeleteFavorite(ctx, "", "127")
	testutil.AssertError(t, err)
	_, err = client.HasFavorite(ctx, "metro", "")
	testutil.AssertError(t, err)
	_, err = client.AddFavorite(ctx, models.Favorite{Type: "metro"})
	testutil.AssertError(t, err)
}

func TestClient_Unauthorized(t *testing.T) {
	ms := testutil.NewJSONServer(http.StatusUnauthorized, `{"detail": "Invalid token"}`)
	defer ms.Close()

	client := newTestClient(ms.URL)

	_, err := client.GetFavorites(context.Background())
	testutil.AssertErrorIs(t, err, ErrUnauthorized)
	testutil.AssertContains(t, err.Error(), "Invalid token")
}

func TestClient_BooleanParseError(t *testing.T) {
	ms := testutil.NewJSONServer(http.StatusOK, `{"ok": true}`)
	defer ms.Close()

	client := newTestClient(ms.URL)

	_, err := client.HasFavorite(context.Background(), "metro", "127")
	testutil.AssertError(t, err)
	testutil.AssertContains(t, err.Error(), "favorite exists")
}

func TestErrorDetail(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"detail": "Station not found"}`, "Station not found"},
		{`{"message": "boom"}`, "boom"},
		{`{"detail": [{"loc": ["query"], "msg": "field required"}]}`, ""},
		{`not json`, ""},
		{``, ""},
	}
	for _, tt := range tests {
		testutil.AssertEqual(t, errorDetail(strings.NewReader(tt.body)), tt.want)
	}
}

// Mock cache implementation for testing
type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	return val, ok
}

func (m *mockCache) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mockCache) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

// Helper to create a client with custom base URL for testing
func newTestClient(baseURL string) *Client {
	client, _ := NewClient()
	client.baseURL = baseURL
	return client
}
