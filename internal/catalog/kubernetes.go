package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aryankumar/sep/internal/action"
	"github.com/aryankumar/sep/internal/config"
	"k8s.io/apimachinery/pkg/version"
	"k8s.io/client-go/kubernetes"
)

// kubernetesAction checks a cluster by fetching its server version through the
// discovery API, which is the cheapest authenticated call the API server
// offers. The clientset is built by Start and reused across invocations.
type kubernetesAction struct {
	def        config.ActionConfig
	kubeconfig *config.KubeconfigLoader
	logger     *slog.Logger

	mu        sync.Mutex
	clientset kubernetes.Interface
	context   string
}

func (a *kubernetesAction) Name() string { return a.def.Name }

func (a *kubernetesAction) Data() any { return a.def.Context }

// Blocking reports true: discovery calls are synchronous HTTP requests
func (a *kubernetesAction) Blocking() bool { return true }

// Start resolves the kubeconfig context and builds the clientset. A failure
// here is reported as the probe's result without dispatching it.
func (a *kubernetesAction) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.clientset != nil {
		return nil
	}

	contextName, err := a.kubeconfig.ResolveContext(a.def.Context)
	if err != nil {
		return err
	}

	restConfig, err := a.kubeconfig.BuildClientConfig(contextName)
	if err != nil {
		return err
	}

	timeout := a.def.Duration
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	restConfig.Timeout = timeout

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return fmt.Errorf("failed to create clientset: %w", err)
	}

	a.logger.Debug("created cluster client",
		"action", a.def.Name,
		"context", contextName,
		"server", restConfig.Host)

	a.clientset = clientset
	a.context = contextName
	return nil
}

func (a *kubernetesAction) Exec(ctx context.Context) (action.Result, error) {
	a.mu.Lock()
	clientset, contextName := a.clientset, a.context
	a.mu.Unlock()

	if clientset == nil {
		return action.Result{}, fmt.Errorf("cluster client for %q not started", a.def.Name)
	}

	info, err := serverVersion(clientset)
	if err != nil {
		return action.Result{}, fmt.Errorf("failed to get server version from %q: %w", contextName, err)
	}

	return action.SuccessWith(info.GitVersion, info), nil
}

func serverVersion(clientset kubernetes.Interface) (*version.Info, error) {
	return clientset.Discovery().ServerVersion()
}
