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
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/kubernetes"

	"github.com/llmkind/llmkind/pkg/cluster/status"
)

// PollInterval is the interval between consecutive checks of the cluster state
var PollInterval = 2 * time.Second

// WaitNodesReady waits for all the nodes of a cluster to become Ready
func WaitNodesReady(ctx context.Context, client kubernetes.Interface, timeout time.Duration) error {
	err := wait.PollUntilContextTimeout(ctx, PollInterval, timeout, true, nodesAreReady(client))
	if err != nil {
		return errors.Wrap(err, "timeout: nodes did not reach the Ready state")
	}
	return nil
}

func nodesAreReady(client kubernetes.Interface) wait.ConditionWithContextFunc {
	return func(ctx context.Context) (bool, error) {
		list, err := client.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
		if err != nil {
			// the API server may not be reachable yet
			log.Debugf("failed to list nodes: %v", err)
			return false, nil
		}
		if len(list.Items) == 0 {
			return false, nil
		}
		for i := range list.Items {
			if !status.IsNodeReady(&list.Items[i]) {
				log.Debugf("node %s is not Ready yet", list.Items[i].Name)
				return false, nil
			}
		}
		return true, nil
	}
}
