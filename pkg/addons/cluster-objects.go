/*
Copyright 2026 The llmkind Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package addons

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/kubernetes"

	"github.com/llmkind/llmkind/pkg/cluster/status"
	"github.com/llmkind/llmkind/pkg/constants"
)

// EnsureNamespace creates a namespace if it does not exist yet
func EnsureNamespace(ctx context.Context, client kubernetes.Interface, namespace string) error {
	ns := &corev1.Namespace{
		ObjectMeta: metav1.ObjectMeta{
			Name: namespace,
			Labels: map[string]string{
				"app.kubernetes.io/managed-by": "llmkind",
			},
		},
	}
	_, err := client.CoreV1().Namespaces().Create(ctx, ns, metav1.CreateOptions{})
	if apierrors.IsAlreadyExists(err) {
		log.Debugf("namespace %s already exists", namespace)
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "failed to create namespace %s", namespace)
	}
	return nil
}

// LabelInferenceNodes labels the nodes where inference workloads are scheduled.
// Those are the worker nodes or, for single node clusters, the control-plane node.
func LabelInferenceNodes(ctx context.Context, client kubernetes.Interface) error {
	list, err := client.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return errors.Wrap(err, "failed to list nodes")
	}

	targets := []string{}
	for i := range list.Items {
		if status.NodeRole(&list.Items[i]) == constants.WorkerNodeRoleValue {
			targets = append(targets, list.Items[i].Name)
		}
	}
	if len(targets) == 0 {
		for i := range list.Items {
			targets = append(targets, list.Items[i].Name)
		}
	}

	patch := []byte(fmt.Sprintf(`{"metadata":{"labels":{%q:"true"}}}`, constants.InferenceNodeLabel))
	for _, n := range targets {
		log.Debugf("labeling node %s with %s=true", n, constants.InferenceNodeLabel)
		if _, err := client.CoreV1().Nodes().Patch(ctx, n, types.MergePatchType, patch, metav1.PatchOptions{}); err != nil {
			return errors.Wrapf(err, "failed to label node %s", n)
		}
	}
	return nil
}
