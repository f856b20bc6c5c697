package kubernetes

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"vehicle-insurance-mlops/internal/config"
	ports "vehicle-insurance-mlops/internal/core/ports/output"
)

const (
	annotationRestartedAt = "kubectl.kubernetes.io/restartedAt"
	annotationReason      = "mlops.vehicle-insurance/rollout-reason"
)

var deploymentGVR = schema.GroupVersionResource{
	Group:    "apps",
	Version:  "v1",
	Resource: "deployments",
}

type rolloutNotifier struct {
	client     dynamic.Interface
	enabled    bool
	namespace  string
	deployment string
	now        func() time.Time
}

// NewRolloutNotifier creates a notifier that restarts the prediction
// Deployment the same way `kubectl rollout restart` does.
func NewRolloutNotifier(cfg *config.KubernetesConfig) (ports.RolloutNotifier, error) {
	if !cfg.Enabled {
		return &rolloutNotifier{enabled: false}, nil
	}
	if cfg.Deployment == "" {
		return nil, fmt.Errorf("KUBERNETES_DEPLOYMENT is required when kubernetes is enabled")
	}

	var restCfg *rest.Config
	var err error

	if cfg.InCluster {
		restCfg, err = rest.InClusterConfig()
	} else if cfg.KubeConfigPath != "" {
		restCfg, err = clientcmd.BuildConfigFromFlags("", cfg.KubeConfigPath)
	} else {
		home, _ := os.UserHomeDir()
		restCfg, err = clientcmd.BuildConfigFromFlags("", filepath.Join(home, ".kube", "config"))
	}
	if err != nil {
		return nil, fmt.Errorf("build k8s config: %w", err)
	}

	client, err := dynamic.NewForConfig(restCfg)
	if err != nil {
		return nil, fmt.Errorf("create dynamic client: %w", err)
	}

	return NewRolloutNotifierWithClient(client, cfg.Namespace, cfg.Deployment), nil
}

func NewRolloutNotifierWithClient(client dynamic.Interface, namespace, deployment string) ports.RolloutNotifier {
	if namespace == "" {
		namespace = "default"
	}
	return &rolloutNotifier{
		client:     client,
		enabled:    true,
		namespace:  namespace,
		deployment: deployment,
		now:        time.Now,
	}
}

func (n *rolloutNotifier) IsAvailable() bool {
	return n.enabled
}

func (n *rolloutNotifier) Restart(ctx context.Context, reason string) error {
	if !n.enabled {
		return nil
	}

	patch := map[string]interface{}{
		"spec": map[string]interface{}{
			"template": map[string]interface{}{
				"metadata": map[string]interface{}{
					"annotations": map[string]string{
						annotationRestartedAt: n.now().UTC().Format(time.RFC3339),
						annotationReason:      reason,
					},
				},
			},
		},
	}
	body, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("marshal rollout patch: %w", err)
	}

	_, err = n.client.Resource(deploymentGVR).
		Namespace(n.namespace).
		Patch(ctx, n.deployment, types.MergePatchType, body, metav1.PatchOptions{})
	if err != nil {
		return fmt.Errorf("patch deployment %s/%s: %w", n.namespace, n.deployment, err)
	}

	log.WithFields(log.Fields{
		"namespace":  n.namespace,
		"deployment": n.deployment,
		"reason":     reason,
	}).Info("prediction deployment restart requested")
	return nil
}
