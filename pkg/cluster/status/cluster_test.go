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

package status

import (
	"bytes"
	"context"
	"strings"
	"testing"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func newNode(name string, ready bool, labels map[string]string) *corev1.Node {
	status := corev1.ConditionFalse
	if ready {
		status = corev1.ConditionTrue
	}
	return &corev1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: name, Labels: labels},
		Status: corev1.NodeStatus{
			Conditions: []corev1.NodeCondition{{Type: corev1.NodeReady, Status: status}},
			NodeInfo:   corev1.NodeSystemInfo{KubeletVersion: "v1.32.2"},
		},
	}
}

func TestEnrichFromAPI(t *testing.T) {
	client := fake.NewSimpleClientset(
		newNode("llm-control-plane", true, map[string]string{"node-role.kubernetes.io/control-plane": ""}),
		newNode("llm-worker", false, nil),
	)

	c := &Cluster{
		Name:     "llm",
		Provider: "kind",
		Exists:   true,
		Nodes: NodeList{
			{Name: "llm-worker", Role: "worker", Host: "running"},
		},
	}
	if err := c.EnrichFromAPI(context.Background(), client); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(c.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, found %d", len(c.Nodes))
	}
	if c.Nodes[0].Name != "llm-control-plane" {
		t.Errorf("expected nodes to be sorted, found %s first", c.Nodes[0].Name)
	}
	if c.Nodes[0].Role != "control-plane" {
		t.Errorf("expected role control-plane, found %s", c.Nodes[0].Role)
	}
	if !c.Nodes[0].Ready || c.Nodes.Get("llm-worker").Ready {
		t.Errorf("unexpected readiness %v %v", c.Nodes[0].Ready, c.Nodes.Get("llm-worker").Ready)
	}
	if c.Ready() {
		t.Error("expected cluster not to be ready while a node is not ready")
	}
	if !c.APIReachable {
		t.Error("expected api to be reachable")
	}

	var b bytes.Buffer
	c.Print(&b)
	if !strings.Contains(b.String(), "not ready") || !strings.Contains(b.String(), "v1.32.2") {
		t.Errorf("unexpected status output:\n%s", b.String())
	}
}

func TestReady(t *testing.T) {
	tests := []struct {
		name     string
		cluster  Cluster
		expected bool
	}{
		{name: "does not exist", cluster: Cluster{}, expected: false},
		{name: "no nodes", cluster: Cluster{Exists: true}, expected: false},
		{name: "all ready", cluster: Cluster{Exists: true, Nodes: NodeList{{Ready: true}, {Ready: true}}}, expected: true},
		{name: "one not ready", cluster: Cluster{Exists: true, Nodes: NodeList{{Ready: true}, {}}}, expected: false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if r := test.cluster.Ready(); r != test.expected {
				t.Errorf("expected %v, found %v", test.expected, r)
			}
		})
	}
}

func TestPrintMissingCluster(t *testing.T) {
	var b bytes.Buffer
	(&Cluster{Name: "gone", Provider: "minikube"}).Print(&b)
	if !strings.Contains(b.String(), "does not exist") {
		t.Errorf("unexpected output %s", b.String())
	}
}

func TestNodeRole(t *testing.T) {
	n := newNode("n", true, map[string]string{
		"node-role.kubernetes.io/master":        "",
		"node-role.kubernetes.io/control-plane": "",
	})
	if r := NodeRole(n); r != "control-plane,master" {
		t.Errorf("expected sorted roles, found %s", r)
	}
	if r := NodeRole(newNode("w", true, nil)); r != "worker" {
		t.Errorf("expected worker, found %s", r)
	}
}
