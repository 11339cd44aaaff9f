//go:build integration

package main

import (
	"encoding/json"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bcntransit/bcnt-cli/internal/testutil"
)

var binaryPath string

// TestMain builds the binary before running tests
func TestMain(m *testing.M) {
	binaryPath = filepath.Join(os.TempDir(), "bcnt-test")
	build := exec.Command("go", "build", "-o", binaryPath, ".")
	if err := build.Run(); err != nil {
		os.Exit(1)
	}

	code := m.Run()

	_ = os.Remove(binaryPath)
	os.Exit(code)
}

// newBackend serves the fixtures for the endpoints the CLI calls.
func newBackend(t *testing.T) *testutil.MockServer {
	t.Helper()
	server := testutil.NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/metro/lines":
			_, _ = w.Write([]byte(testutil.SampleLinesResponse))
		case "/metro/lines/1/stations":
			_, _ = w.Write([]byte(testutil.SampleStationsResponse))
		case "/metro/stations/127/routes":
			_, _ = w.Write([]byte(testutil.SampleRoutesResponse))
		case "/results":
			_, _ = w.Write([]byte(testutil.SampleSearchResponse))
		case "/metro/alerts":
			_, _ = w.Write([]byte(testutil.SampleAlertsResponse))
		case "/bicing/stations/42":
			_, _ = w.Write([]byte(testutil.SampleBicingResponse))
		case "/users/favorites":
			_, _ = w.Write([]byte(testutil.SampleFavoritesResponse))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(testutil.SampleErrorResponse))
		}
	})
	t.Cleanup(server.Close)
	return server
}

func runCommand(t *testing.T, env []string, args ...string) (string, string, int) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)

	home := t.TempDir()
	cmd.Env = append(os.Environ(),
		"XDG_CONFIG_HOME="+filepath.Join(home, "config"),
		"XDG_CACHE_HOME="+filepath.Join(home, "cache"),
	)
	cmd.Env = append(cmd.Env, env...)

	stdout, err := cmd.Output()
	stderr := ""
	exitCode := 0

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
			stderr = string(exitErr.Stderr)
		}
	}

	return string(stdout), stderr, exitCode
}

func backendEnv(server *testutil.MockServer) []string {
	return []string{"BCNT_API_URL=" + server.URL}
}

func TestCLI_Version(t *testing.T) {
	stdout, _, exitCode := runCommand(t, nil, "--version")

	if exitCode != 0 {
		t.Errorf("Expected exit code 0, got %d", exitCode)
	}
	if !strings.Contains(stdout, "bcnt version") {
		t.Errorf("Expected version output, got: %s", stdout)
	}
}

func TestCLI_Help(t *testing.T) {
	stdout, _, exitCode := runCommand(t, nil, "--help")

	if exitCode != 0 {
		t.Errorf("Expected exit code 0, got %d", exitCode)
	}
	if !strings.Contains(stdout, "bcnt shows live arrival countdowns") {
		t.Errorf("Expected help text, got: %s", stdout)
	}

	commands := []string{"lines", "stations", "arrivals", "search", "alerts", "bicing", "favorites", "settings", "countdown", "about", "tui"}
	for _, cmd := range commands {
		if !strings.Contains(stdout, cmd) {
			t.Errorf("Expected command '%s' in help output", cmd)
		}
	}
}

func TestCLI_Lines(t *testing.T) {
	server := newBackend(t)

	stdout, stderr, exitCode := runCommand(t, backendEnv(server), "lines", "metro", "--color", "never")

	if exitCode != 0 {
		t.Fatalf("Expected exit code 0, got %d: %s", exitCode, stderr)
	}
	if !strings.Contains(stdout, "L1") || !strings.Contains(stdout, "L3") {
		t.Errorf("Expected lines in output, got: %s", stdout)
	}
}

func TestCLI_Lines_BicingRejected(t *testing.T) {
	_, stderr, exitCode := runCommand(t, nil, "lines", "bicing")

	if exitCode == 0 {
		t.Error("Expected non-zero exit code for bicing lines")
	}
	if !strings.Contains(stderr, "has no lines") {
		t.Errorf("Expected hint in stderr, got: %s", stderr)
	}
}

func TestCLI_Arrivals_JSON(t *testing.T) {
	server := newBackend(t)

	stdout, stderr, exitCode := runCommand(t, backendEnv(server), "arrivals", "metro", "127", "--json")

	if exitCode != 0 {
		t.Fatalf("Expected exit code 0, got %d: %s", exitCode, stderr)
	}

	var routes []map[string]interface{}
	if err := json.Unmarshal([]byte(stdout), &routes); err != nil {
		t.Fatalf("Expected valid JSON array, got error: %v", err)
	}
	if len(routes) != 2 {
		t.Errorf("Expected 2 routes, got %d", len(routes))
	}
}

func TestCLI_Arrivals_LineFilter(t *testing.T) {
	server := newBackend(t)

	stdout, _, exitCode := runCommand(t, backendEnv(server), "arrivals", "metro", "127", "--line", "L5", "--json")

	if exitCode != 0 {
		t.Fatalf("Expected exit code 0, got %d", exitCode)
	}
	if strings.TrimSpace(stdout) != "[]" {
		t.Errorf("Expected no routes, got: %s", stdout)
	}
}

func TestCLI_Search_RawJSON(t *testing.T) {
	server := newBackend(t)

	stdout, _, exitCode := runCommand(t, backendEnv(server), "search", "Catalunya", "--raw-json")

	if exitCode != 0 {
		t.Fatalf("Expected exit code 0, got %d", exitCode)
	}

	var raw interface{}
	if err := json.Unmarshal([]byte(stdout), &raw); err != nil {
		t.Errorf("Expected valid raw JSON, got error: %v", err)
	}
	if server.LastRequest().URL.Query().Get("name") != "Catalunya" {
		t.Errorf("Expected name query, got %s", server.LastRequest().URL.RawQuery)
	}
}

func TestCLI_Search_MissingQuery(t *testing.T) {
	stdout, stderr, exitCode := runCommand(t, nil, "search")

	if exitCode == 0 && !strings.Contains(stdout, "Usage:") && !strings.Contains(stderr, "Usage:") {
		t.Error("Expected non-zero exit code or help text for missing query")
	}
}

func TestCLI_LangFlag(t *testing.T) {
	server := newBackend(t)

	_, _, exitCode := runCommand(t, backendEnv(server), "lines", "metro", "--lang", "ca")
	if exitCode != 0 {
		t.Fatalf("Expected exit code 0, got %d", exitCode)
	}
	if got := server.LastRequest().Header.Get("Accept-Language"); got != "ca" {
		t.Errorf("Expected Accept-Language ca, got %q", got)
	}

	_, _, exitCode = runCommand(t, backendEnv(server), "lines", "metro", "--lang", "fr")
	if exitCode == 0 {
		t.Error("Expected non-zero exit code for unsupported language")
	}
}

func TestCLI_Countdown_JSON(t *testing.T) {
	stdout, _, exitCode := runCommand(t, []string{"BCNT_LANG=en"}, "countdown", "2h", "--json")

	if exitCode != 0 {
		t.Fatalf("Expected exit code 0, got %d", exitCode)
	}

	var d struct {
		ShowExactTime bool `json:"showExactTime"`
	}
	if err := json.Unmarshal([]byte(stdout), &d); err != nil {
		t.Fatalf("Expected valid JSON, got error: %v", err)
	}
	if !d.ShowExactTime {
		t.Error("Expected exact time two hours out")
	}
}

func TestCLI_Settings(t *testing.T) {
	prefsPath := filepath.Join(t.TempDir(), "prefs.db")
	env := []string{"BCNT_PREFS_PATH=" + prefsPath}

	if _, stderr, exitCode := runCommand(t, env, "settings", "set", "language", "en"); exitCode != 0 {
		t.Fatalf("Expected exit code 0, got %d: %s", exitCode, stderr)
	}

	stdout, _, exitCode := runCommand(t, env, "settings", "show", "--json")
	if exitCode != 0 {
		t.Fatalf("Expected exit code 0, got %d", exitCode)
	}
	if !strings.Contains(stdout, `"language": "en"`) {
		t.Errorf("Expected stored language, got: %s", stdout)
	}
}

func TestCLI_ConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new", "config.yaml")

	stdout, stderr, exitCode := runCommand(t, nil, "config", "init", "--config", path, "--lang", "ca")
	if exitCode != 0 {
		t.Fatalf("Expected exit code 0, got %d: %s", exitCode, stderr)
	}
	if strings.TrimSpace(stdout) != path {
		t.Errorf("Expected written path, got: %s", stdout)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected config file: %v", err)
	}
	if !strings.Contains(string(data), "language: ca") {
		t.Errorf("Expected language in config, got: %s", data)
	}

	if _, _, exitCode := runCommand(t, nil, "config", "init", "--config", path); exitCode == 0 {
		t.Error("Expected non-zero exit code when the file exists")
	}
}

func TestCLI_About(t *testing.T) {
	stdout, _, exitCode := runCommand(t, nil, "about", "--lang", "en")

	if exitCode != 0 {
		t.Fatalf("Expected exit code 0, got %d", exitCode)
	}
	if stdout == "" {
		t.Error("Expected output, got empty string")
	}
}

func TestCLI_InvalidCommand(t *testing.T) {
	_, _, exitCode := runCommand(t, nil, "nonexistent")

	if exitCode == 0 {
		t.Error("Expected non-zero exit code for invalid command")
	}
}
