package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pocketserve/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pocketserve/internal/core/domain"
	"github.com/custodia-labs/pocketserve/internal/core/services"
	"github.com/custodia-labs/pocketserve/internal/logger"
)

// syncBuffer is a bytes.Buffer safe for the concurrent writes the logger
// makes from server goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type testRuntime struct {
	config *memory.ConfigStore
	store  *memory.SessionStore
	logs   *syncBuffer
	out    *bytes.Buffer
}

// setupRuntime installs a runtime backed by memory stores and a temporary
// data directory, listening on a free loopback port.
func setupRuntime(t *testing.T) *testRuntime {
	t.Helper()

	config := memory.NewConfigStore()
	require.NoError(t, config.Set("server.bind_address", "127.0.0.1"))
	require.NoError(t, config.Set("server.port", 0))
	require.NoError(t, config.Set("notifications.bell", false))

	store := memory.NewSessionStore()
	var ids int
	SetRuntime(&Runtime{
		DataDir:  t.TempDir(),
		Settings: services.NewSettingsService(config),
		History:  services.NewHistoryService(store),
		Store:    store,
		NewID: func() string {
			ids++
			return fmt.Sprintf("session-%d", ids)
		},
	})

	logs := &syncBuffer{}
	logger.SetOutput(logs)

	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)

	t.Cleanup(func() {
		SetRuntime(nil)
		logger.SetOutput(os.Stderr)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		portFlag = 0
		rootFlag = ""
		historyLimit = 20
	})

	return &testRuntime{config: config, store: store, logs: logs, out: out}
}

func TestRootCmd_Commands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"serve", "tui", "history", "settings", "version"} {
		assert.True(t, names[want], "missing command %q", want)
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	for _, name := range []string{"verbose", "port", "root"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}

func TestServe_RunsUntilCancelled(t *testing.T) {
	tr := setupRuntime(t)
	root := filepath.Join(t.TempDir(), "uploads")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rootCmd.SetArgs([]string{"serve", "--root", root})
	errCh := make(chan error, 1)
	go func() { errCh <- rootCmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		sessions, _ := tr.store.ListSessions(context.Background(), 1)
		return len(sessions) == 1 && sessions[0].Port > 0
	}, 5*time.Second, 10*time.Millisecond)

	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir(), "upload root is created on start")
	assert.Contains(t, tr.logs.String(), "[SERVER] Server running locally on port")

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}

	sessions, err := tr.store.ListSessions(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.False(t, sessions[0].StoppedAt.IsZero())
	assert.Equal(t, root, sessions[0].UploadRoot)
	assert.Contains(t, tr.logs.String(), "[SERVER] Server stopped")
}

func TestServe_PrintsOneLinePerFileEvent(t *testing.T) {
	tr := setupRuntime(t)
	settings, err := loadSettings(serveCmd)
	require.NoError(t, err)

	out := headlessOutputs(serveCmd, settings)
	recorder := services.NewFileEventRecorder(nil, nil, out.onEvent)
	recorder.OnUpload("session-1", "/cat.jpg")
	recorder.OnMove("session-1", "/a.txt", "/docs/a.txt")

	logs := tr.logs.String()
	assert.Equal(t, 1, strings.Count(logs, "[UPLOAD] /cat.jpg\n"))
	assert.Equal(t, 1, strings.Count(logs, "[MOVE] /a.txt -> /docs/a.txt\n"))
}

func TestServe_StartFailure(t *testing.T) {
	tr := setupRuntime(t)
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	rootCmd.SetArgs([]string{"serve", "--root", file})
	err := rootCmd.ExecuteContext(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload root unavailable")

	sessions, err := tr.store.ListSessions(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.NotEmpty(t, sessions[0].Failure)
	assert.Contains(t, tr.logs.String(), "[SERVER] Server not running")
}

func TestServe_NotConfigured(t *testing.T) {
	setupRuntime(t)
	SetRuntime(nil)

	rootCmd.SetArgs([]string{"serve"})
	err := rootCmd.ExecuteContext(context.Background())

	assert.ErrorIs(t, err, errNotConfigured)
}

func TestLoadSettings_DefaultRoot(t *testing.T) {
	setupRuntime(t)

	settings, err := loadSettings(serveCmd)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(rt.DataDir, "uploads"), settings.Server.UploadRoot)
	assert.Equal(t, 0, settings.Server.Port)
}

func TestLoadSettings_InvalidStored(t *testing.T) {
	tr := setupRuntime(t)
	require.NoError(t, tr.config.Set("server.port", 70000))

	_, err := loadSettings(serveCmd)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSession_ReloadAppliesCoordinatorSettings(t *testing.T) {
	tr := setupRuntime(t)

	s, err := newSession(serveCmd, func(domain.AppSettings) outputs {
		return outputs{sink: consoleSink{}}
	})
	require.NoError(t, err)
	defer s.close()

	require.NoError(t, tr.config.Set("coordinator.grace_window_seconds", 5))
	require.NoError(t, tr.config.Set("notifications.enabled", false))
	s.reload()

	granted, err := s.notifier.RequestAuthorization(context.Background())
	require.NoError(t, err)
	assert.False(t, granted)
}

func TestHistory_Empty(t *testing.T) {
	tr := setupRuntime(t)

	rootCmd.SetArgs([]string{"history"})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, tr.out.String(), "No sessions recorded yet.")
}

func TestHistory_ListsSessions(t *testing.T) {
	tr := setupRuntime(t)
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, tr.store.SaveSession(ctx, &domain.SessionRecord{
		ID: "done", UploadRoot: "/srv", Port: 8080,
		StartedAt: start, StoppedAt: start.Add(90 * time.Second),
	}))
	require.NoError(t, tr.store.SaveSession(ctx, &domain.SessionRecord{
		ID: "broken", UploadRoot: "/srv",
		StartedAt: start.Add(time.Hour), StoppedAt: start.Add(time.Hour),
		Failure: "port 8080 unavailable",
	}))
	require.NoError(t, tr.store.SaveSession(ctx, &domain.SessionRecord{
		ID: "live", UploadRoot: "/srv", Port: 8081,
		StartedAt: start.Add(2 * time.Hour),
	}))

	rootCmd.SetArgs([]string{"history"})
	require.NoError(t, rootCmd.Execute())

	out := tr.out.String()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "1m30s")
	assert.Contains(t, out, "failed: port 8080 unavailable")
	assert.Contains(t, out, "running")
	assert.Less(t, bytes.Index([]byte(out), []byte("live")), bytes.Index([]byte(out), []byte("done")),
		"newest first")
}

func TestHistory_Limit(t *testing.T) {
	tr := setupRuntime(t)
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"oldest", "middle", "newest"} {
		require.NoError(t, tr.store.SaveSession(ctx, &domain.SessionRecord{
			ID: id, StartedAt: start.Add(time.Duration(i) * time.Minute),
		}))
	}

	rootCmd.SetArgs([]string{"history", "--limit", "1"})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, tr.out.String(), "newest")
	assert.NotContains(t, tr.out.String(), "oldest")
}

func TestHistory_ShowSession(t *testing.T) {
	tr := setupRuntime(t)
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, tr.store.SaveSession(ctx, &domain.SessionRecord{
		ID: "s1", UploadRoot: "/srv/share", Port: 8080, StartedAt: start,
	}))
	require.NoError(t, tr.store.RecordEvent(ctx, &domain.FileEvent{
		SessionID: "s1", Kind: domain.FileEventUpload, Path: "photos/cat.jpg", At: start.Add(time.Second),
	}))
	require.NoError(t, tr.store.RecordEvent(ctx, &domain.FileEvent{
		SessionID: "s1", Kind: domain.FileEventMove, Path: "a.txt", ToPath: "docs/a.txt", At: start.Add(2 * time.Second),
	}))

	rootCmd.SetArgs([]string{"history", "s1"})
	require.NoError(t, rootCmd.Execute())

	out := tr.out.String()
	assert.Contains(t, out, "Root:     /srv/share")
	assert.Contains(t, out, "Port:     8080")
	assert.Contains(t, out, "[UPLOAD] photos/cat.jpg")
	assert.Contains(t, out, "[MOVE] a.txt -> docs/a.txt")
}

func TestHistory_UnknownSession(t *testing.T) {
	setupRuntime(t)

	rootCmd.SetArgs([]string{"history", "missing"})
	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), `no session with ID "missing"`)
}

func TestSettings_Show(t *testing.T) {
	tr := setupRuntime(t)

	rootCmd.SetArgs([]string{"settings"})
	require.NoError(t, rootCmd.Execute())

	out := tr.out.String()
	assert.Contains(t, out, "[Server]")
	assert.Contains(t, out, "Upload root:    (default) ")
	assert.Contains(t, out, "Bind address:   127.0.0.1")
	assert.Contains(t, out, "[Coordinator]")
	assert.Contains(t, out, "Grace window:      25s")
	assert.Contains(t, out, "Bell:    no")
	assert.Contains(t, out, "Retain:  100 sessions")
}

func TestSettings_Grace(t *testing.T) {
	tr := setupRuntime(t)

	rootCmd.SetArgs([]string{"settings", "grace", "10"})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, tr.out.String(), "Grace window set to 10s")
	settings, err := rt.Settings.Get()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, settings.Coordinator.GraceWindow)
}

func TestSettings_GraceRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		arg  string
	}{
		{name: "not a number", arg: "soon"},
		{name: "not shorter than budget", arg: "30"},
		{name: "zero", arg: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupRuntime(t)

			rootCmd.SetArgs([]string{"settings", "grace", tt.arg})
			assert.Error(t, rootCmd.Execute())

			settings, err := rt.Settings.Get()
			require.NoError(t, err)
			assert.Equal(t, domain.DefaultGraceWindow, settings.Coordinator.GraceWindow)
		})
	}
}

func TestPortString(t *testing.T) {
	assert.Equal(t, "-", portString(0))
	assert.Equal(t, "8080", portString(8080))
}

func TestResult(t *testing.T) {
	assert.Equal(t, "failed: boom", result(&domain.SessionRecord{Failure: "boom", StartedAt: time.Now()}))
	assert.Equal(t, "running", result(&domain.SessionRecord{Port: 1, StartedAt: time.Now()}))
	assert.Equal(t, "stopped", result(&domain.SessionRecord{Port: 1, StartedAt: time.Now(), StoppedAt: time.Now()}))
}
