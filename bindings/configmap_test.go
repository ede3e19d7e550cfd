package bindings_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	v1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/byte4ever/interpol/bindings"
)

func TestFromConfigMap_data_wins_over_binary(t *testing.T) {
	t.Parallel()

	got := bindings.FromConfigMap(&v1.ConfigMap{
		Data:       map[string]string{"a": "text", "b": "text"},
		BinaryData: map[string][]byte{"b": []byte("bin"), "c": []byte("bin")},
	})

	assert.Equal(t, bindings.Bindings{
		"a": "text", "b": "text", "c": "bin",
	}, got)
}

func TestDecodeConfigMap(t *testing.T) {
	t.Parallel()

	manifest := `apiVersion: v1
kind: ConfigMap
metadata:
  name: settings
data:
  greeting: Hello
  name: World
`

	got, err := bindings.DecodeConfigMap([]byte(manifest))

	require.NoError(t, err)
	assert.Equal(t, bindings.Bindings{
		"greeting": "Hello", "name": "World",
	}, got)
}

func TestDecodeConfigMap_wrong_kind(t *testing.T) {
	t.Parallel()

	manifest := `apiVersion: v1
kind: Secret
metadata:
  name: creds
`

	_, err := bindings.DecodeConfigMap([]byte(manifest))

	assert.ErrorContains(t, err, "expected ConfigMap, got Secret")
}

func TestDecodeConfigMap_garbage(t *testing.T) {
	t.Parallel()

	_, err := bindings.DecodeConfigMap([]byte("::not yaml::"))

	assert.ErrorContains(t, err, "decoding configmap")
}

func TestFetchConfigMap(t *testing.T) {
	t.Parallel()

	client := fake.NewClientset(&v1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "settings",
			Namespace: "apps",
		},
		Data: map[string]string{"host": "db.apps.svc"},
	})

	got, err := bindings.FetchConfigMap(
		context.Background(), client, "apps", "settings",
	)

	require.NoError(t, err)
	assert.Equal(t, bindings.Bindings{"host": "db.apps.svc"}, got)
}

func TestFetchConfigMap_not_found(t *testing.T) {
	t.Parallel()

	client := fake.NewClientset()

	_, err := bindings.FetchConfigMap(
		context.Background(), client, "apps", "missing",
	)

	require.Error(t, err)
	assert.True(t, apierrors.IsNotFound(err))
	assert.ErrorContains(t, err, "apps/missing")
}
