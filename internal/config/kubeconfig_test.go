package config

import (
	"path/filepath"
	"strings"
	"testing"

	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/tools/clientcmd/api"
)

func TestNewKubeconfigLoader(t *testing.T) {
	tests := []struct {
		name          string
		explicitPath  string
		kubeconfigEnv string
		wantPaths     int
	}{
		{
			name:          "explicit path takes precedence",
			explicitPath:  "/path/to/kubeconfig",
			kubeconfigEnv: "/env/kubeconfig",
			wantPaths:     1,
		},
		{
			name:          "KUBECONFIG with single path",
			kubeconfigEnv: "/env/kubeconfig",
			wantPaths:     1,
		},
		{
			name:          "KUBECONFIG with multiple paths",
			kubeconfigEnv: strings.Join([]string{"/env/a", "/env/b", "/env/c"}, string(filepath.ListSeparator)),
			wantPaths:     3,
		},
		{
			name:      "default to ~/.kube/config",
			wantPaths: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("KUBECONFIG", tt.kubeconfigEnv)

			loader := NewKubeconfigLoader(tt.explicitPath)

			if len(loader.Paths()) != tt.wantPaths {
				t.Errorf("got %d paths, want %d", len(loader.Paths()), tt.wantPaths)
			}
		})
	}
}

func writeTestKubeconfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config")
	if err := clientcmd.WriteToFile(*createTestKubeconfig(), path); err != nil {
		t.Fatalf("failed to write test kubeconfig: %v", err)
	}
	return path
}

func TestKubeconfigLoader_Load(t *testing.T) {
	loader := NewKubeconfigLoader(writeTestKubeconfig(t))

	loaded, err := loader.Load()
	if err != nil {
		t.Fatalf("failed to load kubeconfig: %v", err)
	}

	if len(loaded.Contexts) != 2 {
		t.Errorf("got %d contexts, want 2", len(loaded.Contexts))
	}
	if loaded.CurrentContext != "test-context-1" {
		t.Errorf("got current context %q, want %q", loaded.CurrentContext, "test-context-1")
	}

	again, err := loader.Load()
	if err != nil {
		t.Fatalf("second load failed: %v", err)
	}
	if loaded != again {
		t.Error("expected cached config to be returned")
	}
}

func TestKubeconfigLoader_Contexts(t *testing.T) {
	loader := NewKubeconfigLoader(writeTestKubeconfig(t))

	contexts, err := loader.Contexts()
	if err != nil {
		t.Fatalf("failed to get contexts: %v", err)
	}

	if got := strings.Join(contexts, ","); got != "test-context-1,test-context-2" {
		t.Errorf("Contexts() = %s", got)
	}
}

func TestKubeconfigLoader_ResolveContext(t *testing.T) {
	loader := NewKubeconfigLoader(writeTestKubeconfig(t))

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "empty resolves to current", input: "", want: "test-context-1"},
		{name: "explicit context", input: "test-context-2", want: "test-context-2"},
		{name: "unknown context", input: "missing", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := loader.ResolveContext(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveContext() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolveContext() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKubeconfigLoader_MissingFile(t *testing.T) {
	loader := NewKubeconfigLoader(filepath.Join(t.TempDir(), "nope"))

	if _, err := loader.ResolveContext(""); err == nil {
		t.Error("expected error for a kubeconfig without a current context")
	}
}

func TestKubeconfigLoader_BuildClientConfig(t *testing.T) {
	loader := NewKubeconfigLoader(writeTestKubeconfig(t))

	restConfig, err := loader.BuildClientConfig("test-context-2")
	if err != nil {
		t.Fatalf("failed to build client config: %v", err)
	}
	if restConfig.Host != "https://test-server-2:6443" {
		t.Errorf("got host %q, want %q", restConfig.Host, "https://test-server-2:6443")
	}

	current, err := loader.BuildClientConfig("")
	if err != nil {
		t.Fatalf("failed to build client config for current context: %v", err)
	}
	if current.Host != "https://test-server-1:6443" {
		t.Errorf("got host %q, want %q", current.Host, "https://test-server-1:6443")
	}

	if _, err := loader.BuildClientConfig("non-existent"); err == nil {
		t.Error("expected error for non-existent context, got nil")
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("SEP_TEST_DIR", "/from/env")

	tests := []struct {
		name  string
		input string
		check func(string) bool
	}{
		{name: "expand tilde", input: "~/test/path", check: filepath.IsAbs},
		{name: "absolute path", input: "/absolute/path", check: func(s string) bool { return s == "/absolute/path" }},
		{name: "environment variable", input: "$SEP_TEST_DIR/config", check: func(s string) bool { return s == "/from/env/config" }},
		{name: "cleaned", input: "/a/b/../c", check: func(s string) bool { return s == "/a/c" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandPath(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.check(got) {
				t.Errorf("expandPath(%q) = %q", tt.input, got)
			}
		})
	}
}

func createTestKubeconfig() *api.Config {
	return &api.Config{
		CurrentContext: "test-context-1",
		Clusters: map[string]*api.Cluster{
			"test-cluster-1": {Server: "https://test-server-1:6443"},
			"test-cluster-2": {Server: "https://test-server-2:6443"},
		},
		Contexts: map[string]*api.Context{
			"test-context-1": {Cluster: "test-cluster-1", AuthInfo: "test-user-1", Namespace: "ns-1"},
			"test-context-2": {Cluster: "test-cluster-2", AuthInfo: "test-user-2", Namespace: "ns-2"},
		},
		AuthInfos: map[string]*api.AuthInfo{
			"test-user-1": {Token: "test-token-1"},
			"test-user-2": {Token: "test-token-2"},
		},
	}
}
