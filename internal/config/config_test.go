package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aryankumar/sep/internal/util"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".sep.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestManager_Load(t *testing.T) {
	tests := []struct {
		name            string
		configContent   string
		wantErr         error
		wantActions     int
		wantProbes      int
		wantRetry       int
		wantBlocking    int
		wantAsync       bool
		wantReducerName string
	}{
		{
			name: "full config",
			configContent: `
defaults:
  retryCount: 5
  asyncRetry: true
  concurrencyLevel: 2
  blockingWorkers: 4
  outputFormat: json
actions:
  - name: foo
    kind: sleep
    duration: 100ms
  - name: buzz
    kind: fail
    message: CONTROLLED EXCEPTION
reducer:
  name: merge
  kind: count
probes:
  - name: web
    kind: http
    url: http://localhost:8080/ping
server:
  addr: ":6060"
`,
			wantActions:     2,
			wantProbes:      1,
			wantRetry:       5,
			wantBlocking:    4,
			wantAsync:       true,
			wantReducerName: "merge",
		},
		{
			name: "minimal config gets defaults",
			configContent: `
actions:
  - name: foo
    kind: sleep
`,
			wantActions:     1,
			wantRetry:       DefaultRetryCount,
			wantBlocking:    DefaultBlockingWorkers,
			wantReducerName: DefaultReducerName,
		},
		{
			name: "negative retry clamped",
			configContent: `
defaults:
  retryCount: -4
`,
			wantRetry:       0,
			wantBlocking:    DefaultBlockingWorkers,
			wantReducerName: DefaultReducerName,
		},
		{
			name: "unknown kind rejected",
			configContent: `
actions:
  - name: foo
    kind: teleport
`,
			wantErr: util.ErrUnknownKind,
		},
		{
			name: "http without url rejected",
			configContent: `
probes:
  - name: web
    kind: http
`,
			wantErr: util.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager := NewManager(writeConfig(t, tt.configContent))
			cfg, err := manager.Load()

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(cfg.Actions) != tt.wantActions {
				t.Errorf("got %d actions, want %d", len(cfg.Actions), tt.wantActions)
			}
			if len(cfg.Probes) != tt.wantProbes {
				t.Errorf("got %d probes, want %d", len(cfg.Probes), tt.wantProbes)
			}
			if cfg.Defaults.RetryCount != tt.wantRetry {
				t.Errorf("got retryCount %d, want %d", cfg.Defaults.RetryCount, tt.wantRetry)
			}
			if cfg.Defaults.BlockingWorkers != tt.wantBlocking {
				t.Errorf("got blockingWorkers %d, want %d", cfg.Defaults.BlockingWorkers, tt.wantBlocking)
			}
			if cfg.Defaults.AsyncRetry != tt.wantAsync {
				t.Errorf("got asyncRetry %v, want %v", cfg.Defaults.AsyncRetry, tt.wantAsync)
			}
			if cfg.Reducer.Name != tt.wantReducerName {
				t.Errorf("got reducer %q, want %q", cfg.Reducer.Name, tt.wantReducerName)
			}
		})
	}
}

func TestManager_LoadDurations(t *testing.T) {
	manager := NewManager(writeConfig(t, `
actions:
  - name: foo
    kind: sleep
    duration: 250ms
server:
  shutdownTimeout: 3s
`))

	cfg, err := manager.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Actions[0].Duration != 250*time.Millisecond {
		t.Errorf("got duration %v, want 250ms", cfg.Actions[0].Duration)
	}
	if cfg.Server.ShutdownTimeout != 3*time.Second {
		t.Errorf("got shutdown timeout %v, want 3s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Server.Addr != DefaultServerAddr {
		t.Errorf("got addr %q, want %q", cfg.Server.Addr, DefaultServerAddr)
	}
}

func TestManager_LoadMissingFile(t *testing.T) {
	manager := NewManager(filepath.Join(t.TempDir(), "absent.yaml"))

	cfg, err := manager.Load()
	if err != nil {
		t.Fatalf("a missing config file should not be an error: %v", err)
	}
	if cfg.Defaults.RetryCount != DefaultRetryCount {
		t.Errorf("got retryCount %d, want default %d", cfg.Defaults.RetryCount, DefaultRetryCount)
	}
	if cfg.Defaults.OutputFormat != DefaultOutputFormat {
		t.Errorf("got output %q, want %q", cfg.Defaults.OutputFormat, DefaultOutputFormat)
	}
}

func TestManager_LoadEnvironment(t *testing.T) {
	t.Setenv("SEP_DEFAULTS_RETRYCOUNT", "7")
	t.Setenv("SEP_SERVER_ADDR", ":7070")

	manager := NewManager(filepath.Join(t.TempDir(), "absent.yaml"))
	cfg, err := manager.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Defaults.RetryCount != 7 {
		t.Errorf("got retryCount %d, want 7 from environment", cfg.Defaults.RetryCount)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("got addr %q, want :7070 from environment", cfg.Server.Addr)
	}
}

func TestManager_LoadInvalidYAML(t *testing.T) {
	manager := NewManager(writeConfig(t, "defaults: [unclosed"))

	if _, err := manager.Load(); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestManager_Actions(t *testing.T) {
	manager := NewManager(filepath.Join(t.TempDir(), "config.yaml"))
	if _, err := manager.Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	manager.SetAction(ActionConfig{Name: "foo", Kind: KindSleep})
	manager.SetAction(ActionConfig{Name: "bar", Kind: KindFail})
	manager.SetAction(ActionConfig{Name: "foo", Kind: KindFlaky, Failures: 2})

	if got := len(manager.GetConfig().Actions); got != 2 {
		t.Fatalf("got %d actions, want 2", got)
	}

	foo, ok := manager.GetAction("foo")
	if !ok {
		t.Fatal("foo not found")
	}
	if foo.Kind != KindFlaky || foo.Failures != 2 {
		t.Errorf("SetAction should replace by name, got %+v", foo)
	}

	manager.RemoveAction("foo")
	if _, ok := manager.GetAction("foo"); ok {
		t.Error("foo should be removed")
	}
	if _, ok := manager.GetAction("bar"); !ok {
		t.Error("bar should remain")
	}
}

func TestManager_Save(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	manager := NewManager(configPath)
	if _, err := manager.Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	manager.SetAction(ActionConfig{Name: "buzz", Kind: KindFail, Message: "CONTROLLED EXCEPTION"})

	if err := manager.Save(); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}

	reloaded, err := NewManager(configPath).Load()
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if len(reloaded.Actions) != 1 {
		t.Fatalf("got %d actions, want 1", len(reloaded.Actions))
	}
	if reloaded.Actions[0].Message != "CONTROLLED EXCEPTION" {
		t.Errorf("got message %q", reloaded.Actions[0].Message)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     SEPConfig
		wantErr bool
		errs    int
	}{
		{
			name: "valid",
			cfg: SEPConfig{
				Actions: []ActionConfig{{Name: "foo", Kind: KindSleep}},
				Probes:  []ActionConfig{{Name: "web", Kind: KindHTTP, URL: "http://x"}},
				Reducer: ReducerConfig{Name: "merge", Kind: ReducerCount},
			},
		},
		{
			name: "several problems reported together",
			cfg: SEPConfig{
				Actions: []ActionConfig{
					{Kind: KindSleep},
					{Name: "x", Kind: "nope"},
					{Name: "y", Kind: KindFlaky, Failures: -1},
				},
				Reducer: ReducerConfig{Kind: "sum"},
			},
			wantErr: true,
			errs:    4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			var multi *util.MultiError
			if !errors.As(err, &multi) {
				t.Fatalf("expected MultiError, got %T", err)
			}
			if len(multi.Errors) != tt.errs {
				t.Errorf("got %d errors, want %d: %v", len(multi.Errors), tt.errs, err)
			}
		})
	}
}
