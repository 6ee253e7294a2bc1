package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aryankumar/sep/internal/action"
	"github.com/aryankumar/sep/internal/config"
	"k8s.io/apimachinery/pkg/version"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/tools/clientcmd/api"
)

func fakeAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/version" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(version.Info{Major: "1", Minor: "31", GitVersion: "v1.31.3"})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeKubeconfig(t *testing.T, server string) string {
	t.Helper()
	cfg := api.Config{
		CurrentContext: "dev",
		Clusters: map[string]*api.Cluster{
			"dev-cluster": {Server: server},
		},
		AuthInfos: map[string]*api.AuthInfo{
			"dev-user": {},
		},
		Contexts: map[string]*api.Context{
			"dev": {Cluster: "dev-cluster", AuthInfo: "dev-user"},
		},
	}

	path := filepath.Join(t.TempDir(), "config")
	if err := clientcmd.WriteToFile(cfg, path); err != nil {
		t.Fatalf("failed to write kubeconfig: %v", err)
	}
	return path
}

func TestKubernetesAction(t *testing.T) {
	srv := fakeAPIServer(t)
	loader := config.NewKubeconfigLoader(writeKubeconfig(t, srv.URL))
	c := New(WithLogger(quietLogger()), WithKubeconfig(loader))

	a, err := c.Build(config.ActionConfig{Name: "cluster", Kind: config.KindKubernetes})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	starter, ok := a.(action.Starter)
	if !ok {
		t.Fatal("kubernetes action should have a start step")
	}
	if err := starter.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	r, err := a.Exec(context.Background())
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if !r.OK() || r.Message != "v1.31.3" {
		t.Errorf("got %+v, want success with server version", r)
	}
	if _, ok := r.Data.(*version.Info); !ok {
		t.Errorf("Data should carry the version info, got %T", r.Data)
	}
}

func TestKubernetesAction_UnknownContext(t *testing.T) {
	loader := config.NewKubeconfigLoader(writeKubeconfig(t, "https://127.0.0.1:1"))
	c := New(WithLogger(quietLogger()), WithKubeconfig(loader))

	a, _ := c.Build(config.ActionConfig{Name: "cluster", Kind: config.KindKubernetes, Context: "prod"})

	err := a.(action.Starter).Start(context.Background())
	if err == nil || !strings.Contains(err.Error(), "prod") {
		t.Errorf("expected missing context error, got %v", err)
	}

	if _, err := a.Exec(context.Background()); err == nil {
		t.Error("Exec without a started client should fail")
	}
}
