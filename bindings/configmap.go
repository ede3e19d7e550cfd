package bindings

import (
	"context"
	"fmt"
	"log/slog"

	v1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/scheme"
)

// FromConfigMap returns the ConfigMap's data. BinaryData
// entries are included verbatim; data keys win on
// conflict.
func FromConfigMap(cm *v1.ConfigMap) Bindings {
	out := make(Bindings, len(cm.Data)+len(cm.BinaryData))

	for key, val := range cm.BinaryData {
		out[key] = string(val)
	}

	for key, val := range cm.Data {
		out[key] = val
	}

	return out
}

// DecodeConfigMap parses a ConfigMap manifest (YAML or
// JSON) and returns its data.
func DecodeConfigMap(raw []byte) (Bindings, error) {
	const errCtx = "decoding configmap"

	obj, gvk, err := scheme.Codecs.UniversalDeserializer().
		Decode(raw, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	cm, ok := obj.(*v1.ConfigMap)
	if !ok {
		return nil, fmt.Errorf(
			"%s: expected ConfigMap, got %s", errCtx, gvk.Kind,
		)
	}

	return FromConfigMap(cm), nil
}

// FetchConfigMap reads a ConfigMap from the cluster and
// returns its data.
func FetchConfigMap(
	ctx context.Context,
	client kubernetes.Interface,
	namespace string,
	name string,
) (Bindings, error) {
	const errCtx = "fetching configmap"

	cm, err := client.CoreV1().ConfigMaps(namespace).Get(
		ctx, name, metav1.GetOptions{},
	)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: %s/%s: %w", errCtx, namespace, name, err,
		)
	}

	slog.Info(
		"fetched configmap",
		"namespace", namespace,
		"name", name,
		"keys", len(cm.Data)+len(cm.BinaryData),
	)

	return FromConfigMap(cm), nil
}
