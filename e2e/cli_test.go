package e2e_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhalloran/golfsync/internal/api"
	"github.com/mhalloran/golfsync/internal/factory"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "golfsync-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/golfsync")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	// In-memory app, no Redis
	app, err := factory.New(factory.Config{})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:         discardLogger(),
		AuthService:    app.AuthService,
		RoundManager:   app.RoundManager,
		SupportService: app.SupportService,
		Relay:          app.Relay,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		addr: serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
			_ = app.Close()
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type groupRoundResponse struct {
	Code    string `json:"code"`
	Status  string `json:"status"`
	Players []struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Finished bool   `json:"finished"`
	} `json:"players"`
	Scores map[string][]int `json:"scores"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "local", resp.Backend)
}

func TestCLI_AuthCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Sign up
	output, err := cli.run("auth", "signup", "--user", "alice", "--pass", "secret123")
	require.NoError(t, err, "output: %s", output)

	var user userResponse
	require.NoError(t, json.Unmarshal([]byte(output), &user))
	assert.Equal(t, "alice", user.Username)
	assert.NotEmpty(t, user.ID)

	// The session is held server-side, so me works without any token
	output, err = cli.run("auth", "me")
	require.NoError(t, err, "output: %s", output)

	var me userResponse
	require.NoError(t, json.Unmarshal([]byte(output), &me))
	assert.Equal(t, user.ID, me.ID)

	// Sign out and back in
	output, err = cli.run("auth", "signout")
	require.NoError(t, err, "output: %s", output)

	var msg messageResponse
	require.NoError(t, json.Unmarshal([]byte(output), &msg))
	assert.Equal(t, "Signed out", msg.Message)

	_, err = cli.run("auth", "me")
	require.Error(t, err)

	output, err = cli.run("auth", "signin", "--user", "alice", "--pass", "secret123")
	require.NoError(t, err, "output: %s", output)
}

func TestCLI_RoundFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("auth", "signup", "--user", "alice", "--pass", "secret123")
	require.NoError(t, err, "output: %s", output)

	var user userResponse
	require.NoError(t, json.Unmarshal([]byte(output), &user))

	// Create a round with an explicit code
	output, err = cli.run("round", "create",
		"--course", "pebble-creek", "--date", "2024-05-01", "--code", "abc234")
	require.NoError(t, err, "output: %s", output)

	var created groupRoundResponse
	require.NoError(t, json.Unmarshal([]byte(output), &created))
	assert.Equal(t, "ABC234", created.Code)
	assert.Equal(t, "active", created.Status)
	require.Len(t, created.Players, 1)

	// Record a score on hole 1
	output, err = cli.run("round", "score", "ABC234", "--hole", "1", "--strokes", "5")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("round", "get", "abc234")
	require.NoError(t, err, "output: %s", output)

	var got groupRoundResponse
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	require.NotNil(t, got.Scores[user.ID])
	assert.Equal(t, 5, got.Scores[user.ID][0])

	// Finish the round
	output, err = cli.run("round", "finish", "ABC234")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("round", "get", "ABC234")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	assert.Equal(t, "finished", got.Status)
}

func TestCLI_SupportTicket(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	_, err := cli.run("auth", "signup", "--user", "alice", "--pass", "secret123")
	require.NoError(t, err)

	output, err := cli.run("support", "submit",
		"--type", "bug", "--description", "scores reset after rejoining")
	require.NoError(t, err, "output: %s", output)

	var msg messageResponse
	require.NoError(t, json.Unmarshal([]byte(output), &msg))
	assert.Contains(t, msg.Message, "Ticket submitted")
}
