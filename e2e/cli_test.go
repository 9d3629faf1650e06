package e2e_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncseq/seqserver/internal/api"
	"github.com/ncseq/seqserver/internal/factory"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "seqctl-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/seqctl")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	// Create temp token file
	tokenFile := filepath.Join(t.TempDir(), "token")

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  tokenFile,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) runWithToken(token string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token", token,
		"--token-file", r.tokenFile + ".unused",
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
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
	server   *http.Server
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

	// Create application
	app, err := factory.New(factory.Config{WaitTimeout: 10 * time.Second})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	router := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		Coordinator: app.Coordinator,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		server: server,
		addr:   serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
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

type createSessionResponse struct {
	Code       string `json:"code"`
	AdminToken uint32 `json:"admin_token"`
}

type joinResponse struct {
	PlayerToken uint32 `json:"player_token"`
	Player      struct {
		ID   uint32 `json:"id"`
		Name string `json:"name"`
	} `json:"player"`
}

type snapshotResponse struct {
	Code    string `json:"code"`
	Phase   string `json:"phase"`
	Players []struct {
		ID   uint32 `json:"id"`
		Name string `json:"name"`
	} `json:"players"`
}

type sessionListResponse struct {
	Sessions []struct {
		Code        string `json:"code"`
		Phase       string `json:"phase"`
		PlayerCount int    `json:"player_count"`
	} `json:"sessions"`
}

type healthResponse struct {
	Status string `json:"status"`
}

func tokenArg(token uint32) string {
	return fmt.Sprintf("%d", token)
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
}

func TestCLI_SessionCreateAndGet(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Create a session; the admin token is saved to the token file
	output, err := cli.run("session", "create")
	require.NoError(t, err, "output: %s", output)

	var created createSessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &created))
	assert.Regexp(t, `^[0-9]{6}$`, created.Code)

	// Get uses the saved admin token
	output, err = cli.run("session", "get", created.Code)
	require.NoError(t, err, "output: %s", output)

	var snapshot snapshotResponse
	require.NoError(t, json.Unmarshal([]byte(output), &snapshot))
	assert.Equal(t, created.Code, snapshot.Code)
	assert.Equal(t, "setup", snapshot.Phase)
	assert.Empty(t, snapshot.Players)
}

func TestCLI_FullSessionFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	// Admin and player keep separate token files
	admin := newCLIRunner(t, ts.addr)
	player := &cliRunner{
		binaryPath: admin.binaryPath,
		serverURL:  admin.serverURL,
		tokenFile:  filepath.Join(t.TempDir(), "token2"),
	}

	// Admin creates the session
	output, err := admin.run("session", "create")
	require.NoError(t, err, "output: %s", output)
	var created createSessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &created))
	code := created.Code
	t.Logf("Created session: %s", code)

	// Two players join
	output, err = player.run("session", "join", code, "--name", "alice")
	require.NoError(t, err, "output: %s", output)
	var alice joinResponse
	require.NoError(t, json.Unmarshal([]byte(output), &alice))
	assert.Equal(t, "alice", alice.Player.Name)

	output, err = player.runWithToken("", "session", "join", code, "--name", "bob", "--save-token=false")
	require.NoError(t, err, "output: %s", output)
	var bob joinResponse
	require.NoError(t, json.Unmarshal([]byte(output), &bob))
	assert.NotEqual(t, alice.PlayerToken, bob.PlayerToken)
	assert.NotEqual(t, alice.Player.ID, bob.Player.ID)

	// A player token cannot start the session
	output, err = player.run("session", "start", code)
	assert.Error(t, err, "player should not be able to start")
	assert.Contains(t, strings.ToLower(output), "admin")

	// Alice waits in the background while the admin starts the session
	type waitResult struct {
		output string
		err    error
	}
	results := make(chan waitResult, 1)
	go func() {
		out, err := player.run("session", "wait", code, "--timeout", "10s")
		results <- waitResult{out, err}
	}()

	time.Sleep(200 * time.Millisecond)
	output, err = admin.run("session", "start", code)
	require.NoError(t, err, "output: %s", output)
	var started snapshotResponse
	require.NoError(t, json.Unmarshal([]byte(output), &started))
	assert.Equal(t, "started", started.Phase)
	assert.Len(t, started.Players, 2)

	select {
	case r := <-results:
		require.NoError(t, r.err, "output: %s", r.output)
		var snapshot snapshotResponse
		require.NoError(t, json.Unmarshal([]byte(r.output), &snapshot))
		assert.Equal(t, "started", snapshot.Phase)
		assert.Len(t, snapshot.Players, 2)
	case <-time.After(15 * time.Second):
		t.Fatal("wait command did not return after start")
	}

	// Repeated start is a no-op
	output, err = admin.run("session", "start", code)
	require.NoError(t, err, "output: %s", output)

	// The session shows up in the list
	output, err = admin.run("session", "list")
	require.NoError(t, err, "output: %s", output)
	var list sessionListResponse
	require.NoError(t, json.Unmarshal([]byte(output), &list))
	require.Len(t, list.Sessions, 1)
	assert.Equal(t, code, list.Sessions[0].Code)
	assert.Equal(t, "started", list.Sessions[0].Phase)
	assert.Equal(t, 2, list.Sessions[0].PlayerCount)
}

func TestCLI_WaitTimesOut(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("session", "create")
	require.NoError(t, err, "output: %s", output)
	var created createSessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &created))

	output, err = cli.runWithToken("", "session", "join", created.Code, "--save-token=false")
	require.NoError(t, err, "output: %s", output)
	var joined joinResponse
	require.NoError(t, json.Unmarshal([]byte(output), &joined))

	output, err = cli.runWithToken(tokenArg(joined.PlayerToken), "session", "wait", created.Code, "--timeout", "200ms")
	assert.Error(t, err, "wait should time out")
	assert.Contains(t, strings.ToLower(output), "timed out")
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Join a session that does not exist
	output, err := cli.run("session", "join", "000000")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "no session")

	// Get without a token
	output, err = cli.run("session", "create")
	require.NoError(t, err, "output: %s", output)
	var created createSessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &created))

	output, err = cli.runWithToken("", "session", "get", created.Code)
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "auth")
}
