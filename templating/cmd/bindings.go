package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"

	"github.com/byte4ever/interpol/bindings"
)

// bindingSources lists where binding layers come from.
// Later layers override earlier ones: files, then
// ConfigMap manifests, then live ConfigMaps.
type bindingSources struct {
	files          []string
	configMaps     []string
	kubeConfigMaps []string
	kubeconfig     string
}

// loadBindings reads every configured source and merges
// them in order.
func loadBindings(
	ctx context.Context,
	srcs bindingSources,
) (bindings.Bindings, error) {
	const errCtx = "loading bindings"

	var layers []bindings.Bindings

	for _, path := range srcs.files {
		layer, err := bindings.Load(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}

		layers = append(layers, layer)
	}

	for _, path := range srcs.configMaps {
		raw, err := os.ReadFile(path) //nolint:gosec // paths from CLI flags
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}

		layer, err := bindings.DecodeConfigMap(raw)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %s: %w", errCtx, path, err,
			)
		}

		layers = append(layers, layer)
	}

	if len(srcs.kubeConfigMaps) > 0 {
		client, err := newKubeClient(srcs.kubeconfig)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}

		for _, ref := range srcs.kubeConfigMaps {
			ns, name, ok := strings.Cut(ref, "/")
			if !ok || ns == "" || name == "" {
				return nil, fmt.Errorf(
					"%s: configmap must be namespace/name, got %s",
					errCtx, ref,
				)
			}

			layer, err := bindings.FetchConfigMap(
				ctx, client, ns, name,
			)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", errCtx, err)
			}

			layers = append(layers, layer)
		}
	}

	return bindings.Merge(layers...), nil
}

// newKubeClient builds a clientset from kubeconfig, the
// user's default kubeconfig, or the in-cluster settings.
func newKubeClient(kubeconfig string) (kubernetes.Interface, error) {
	const errCtx = "creating kubernetes client"

	if kubeconfig == "" {
		if _, ok := os.LookupEnv(
			"KUBERNETES_SERVICE_HOST",
		); !ok {
			kubeconfig = filepath.Join(
				homedir.HomeDir(),
				".kube", "config",
			)
		}
	}

	restConfig, err := clientcmd.BuildConfigFromFlags(
		"", kubeconfig,
	)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: building kubeconfig: %w",
			errCtx, err,
		)
	}

	client, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return client, nil
}
