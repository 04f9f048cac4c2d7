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

// Package status describes the observed state of a local cluster
package status

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
)

const nodeRoleLabelPrefix = "node-role.kubernetes.io/"

// Cluster represents the status of a local cluster
type Cluster struct {
	Name     string
	Provider string
	Exists   bool

	// Host is the provider level state, e.g. Running or Stopped for minikube
	Host string

	// APIReachable is true when the node list could be read from the API server
	APIReachable bool

	Nodes NodeList
}

// Node represents the status of a cluster node
type Node struct {
	Name      string
	Role      string
	Host      string
	Kubelet   string
	APIServer string

	// Ready reports the node Ready condition; it is known only when read from the API server
	Ready          bool
	KubeletVersion string
	Labels         map[string]string
}

// NodeList defines a list of Node
type NodeList []*Node

// Sort the list by name
func (l NodeList) Sort() {
	sort.Slice(l, func(i, j int) bool {
		return strings.Compare(l[i].Name, l[j].Name) < 0
	})
}

// Get returns the node with the given name, if any
func (l NodeList) Get(name string) *Node {
	for _, n := range l {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// Ready returns true if the cluster exists and all its nodes are Ready
func (c *Cluster) Ready() bool {
	if !c.Exists || len(c.Nodes) == 0 {
		return false
	}
	for _, n := range c.Nodes {
		if !n.Ready {
			return false
		}
	}
	return true
}

// ClientFromKubeConfig returns a clientset for the given kubeconfig content
func ClientFromKubeConfig(kubeconfig string) (kubernetes.Interface, error) {
	restConfig, err := clientcmd.RESTConfigFromKubeConfig([]byte(kubeconfig))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse kubeconfig")
	}
	client, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create kubernetes client")
	}
	return client, nil
}

// EnrichFromAPI reads the nodes from the API server and merges them with the
// nodes known by the provider. Nodes known only by the API are added.
func (c *Cluster) EnrichFromAPI(ctx context.Context, client kubernetes.Interface) error {
	list, err := client.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return errors.Wrap(err, "failed to list nodes")
	}
	c.APIReachable = true

	for i := range list.Items {
		apiNode := &list.Items[i]
		n := c.Nodes.Get(apiNode.Name)
		if n == nil {
			n = &Node{Name: apiNode.Name}
			c.Nodes = append(c.Nodes, n)
		}
		n.Ready = IsNodeReady(apiNode)
		n.KubeletVersion = apiNode.Status.NodeInfo.KubeletVersion
		n.Labels = apiNode.Labels
		if n.Role == "" {
			n.Role = NodeRole(apiNode)
		}
	}
	c.Nodes.Sort()
	return nil
}

// IsNodeReady returns true if a node has the Ready condition set to True
func IsNodeReady(n *corev1.Node) bool {
	for _, c := range n.Status.Conditions {
		if c.Type == corev1.NodeReady {
			return c.Status == corev1.ConditionTrue
		}
	}
	return false
}

// NodeRole returns the node role as derived by the node-role.kubernetes.io labels
func NodeRole(n *corev1.Node) string {
	roles := []string{}
	for k := range n.Labels {
		if strings.HasPrefix(k, nodeRoleLabelPrefix) {
			roles = append(roles, strings.TrimPrefix(k, nodeRoleLabelPrefix))
		}
	}
	if len(roles) == 0 {
		return "worker"
	}
	sort.Strings(roles)
	return strings.Join(roles, ",")
}

// Print writes a human readable version of the cluster status
func (c *Cluster) Print(w io.Writer) {
	if !c.Exists {
		fmt.Fprintf(w, "Cluster %q (%s) does not exist\n", c.Name, c.Provider)
		return
	}

	fmt.Fprintf(w, "Cluster %q (%s)\n", c.Name, c.Provider)
	if c.Host != "" {
		fmt.Fprintf(w, "  host:   %s\n", c.Host)
	}
	switch {
	case !c.APIReachable:
		fmt.Fprintf(w, "  api:    unreachable\n")
	case c.Ready():
		fmt.Fprintf(w, "  api:    ready\n")
	default:
		fmt.Fprintf(w, "  api:    not ready\n")
	}

	if len(c.Nodes) == 0 {
		return
	}
	fmt.Fprintf(w, "  nodes:\n")
	for _, n := range c.Nodes {
		state := "NotReady"
		if n.Ready {
			state = "Ready"
		}
		if !c.APIReachable {
			state = n.Host
		}
		fmt.Fprintf(w, "    %-40s %-14s %-9s %s\n", n.Name, n.Role, state, n.KubeletVersion)
	}
}
