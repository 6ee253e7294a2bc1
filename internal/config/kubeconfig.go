package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/tools/clientcmd/api"
)

// KubeconfigLoader locates and merges kubeconfig files for kubernetes probes.
// Sources are checked in order:
//  1. explicit path (--kubeconfig)
//  2. KUBECONFIG, which may list several files
//  3. ~/.kube/config
type KubeconfigLoader struct {
	paths []string

	once   sync.Once
	loaded *api.Config
	err    error
}

// NewKubeconfigLoader creates a kubeconfig loader
func NewKubeconfigLoader(explicitPath string) *KubeconfigLoader {
	return &KubeconfigLoader{paths: kubeconfigPaths(explicitPath)}
}

func kubeconfigPaths(explicitPath string) []string {
	if explicitPath != "" {
		if p, err := expandPath(explicitPath); err == nil {
			return []string{p}
		}
		return nil
	}

	var paths []string
	for _, p := range filepath.SplitList(os.Getenv("KUBECONFIG")) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if expanded, err := expandPath(p); err == nil {
			paths = append(paths, expanded)
		}
	}
	if len(paths) > 0 {
		return paths
	}

	if home, err := os.UserHomeDir(); err == nil {
		return []string{filepath.Join(home, ".kube", "config")}
	}
	return nil
}

// Load returns the merged kubeconfig. The result is cached after the first call.
func (l *KubeconfigLoader) Load() (*api.Config, error) {
	l.once.Do(func() {
		if len(l.paths) == 0 {
			l.err = fmt.Errorf("no kubeconfig paths available")
			return
		}

		rules := &clientcmd.ClientConfigLoadingRules{Precedence: l.paths}
		cfg, err := rules.Load()
		if err != nil {
			l.err = fmt.Errorf("failed to load kubeconfig: %w", err)
			return
		}
		if cfg == nil {
			l.err = fmt.Errorf("kubeconfig is empty")
			return
		}
		l.loaded = cfg
	})
	return l.loaded, l.err
}

// Contexts returns the available context names in sorted order
func (l *KubeconfigLoader) Contexts() ([]string, error) {
	cfg, err := l.Load()
	if err != nil {
		return nil, err
	}

	contexts := make([]string, 0, len(cfg.Contexts))
	for name := range cfg.Contexts {
		contexts = append(contexts, name)
	}
	slices.Sort(contexts)
	return contexts, nil
}

// ResolveContext returns name if it exists, or the current context when name
// is empty
func (l *KubeconfigLoader) ResolveContext(name string) (string, error) {
	cfg, err := l.Load()
	if err != nil {
		return "", err
	}

	if name == "" {
		if cfg.CurrentContext == "" {
			return "", fmt.Errorf("kubeconfig has no current context")
		}
		return cfg.CurrentContext, nil
	}

	if _, ok := cfg.Contexts[name]; !ok {
		return "", fmt.Errorf("context %q not found in kubeconfig", name)
	}
	return name, nil
}

// BuildClientConfig creates a rest.Config for a context, empty for current
func (l *KubeconfigLoader) BuildClientConfig(contextName string) (*rest.Config, error) {
	if len(l.paths) == 0 {
		return nil, fmt.Errorf("no kubeconfig paths available")
	}

	overrides := &clientcmd.ConfigOverrides{CurrentContext: contextName}
	clientConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
		&clientcmd.ClientConfigLoadingRules{Precedence: l.paths},
		overrides,
	)

	restConfig, err := clientConfig.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create client config for context %q: %w", contextName, err)
	}
	return restConfig, nil
}

// Paths returns the kubeconfig paths being used
func (l *KubeconfigLoader) Paths() []string {
	return l.paths
}

// expandPath expands environment variables and a leading ~
func expandPath(path string) (string, error) {
	path = os.ExpandEnv(path)

	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	return filepath.Clean(path), nil
}
