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

package provider

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	kindv1alpha4 "sigs.k8s.io/kind/pkg/apis/config/v1alpha4"
	kindcluster "sigs.k8s.io/kind/pkg/cluster"
	kindnodes "sigs.k8s.io/kind/pkg/cluster/nodes"

	lexec "github.com/llmkind/llmkind/pkg/exec"
	"github.com/llmkind/llmkind/pkg/sizing"
)

type fakeNode struct {
	kindnodes.Node
	name string
	role string
}

func (n *fakeNode) String() string        { return n.name }
func (n *fakeNode) Role() (string, error) { return n.role, nil }

type fakeKind struct {
	clusters []string
	nodes    map[string][]kindnodes.Node
	created  []string
	deleted  []string
	createFn func(name string) error
}

func (f *fakeKind) Create(name string, _ ...kindcluster.CreateOption) error {
	f.created = append(f.created, name)
	if f.createFn != nil {
		return f.createFn(name)
	}
	return nil
}

func (f *fakeKind) Delete(name, _ string) error {
	f.deleted = append(f.deleted, name)
	return nil
}

func (f *fakeKind) List() ([]string, error) { return f.clusters, nil }

func (f *fakeKind) ListNodes(name string) ([]kindnodes.Node, error) { return f.nodes[name], nil }

func (f *fakeKind) KubeConfig(name string, _ bool) (string, error) {
	return "kubeconfig-" + name, nil
}

func TestNew(t *testing.T) {
	if _, err := New("docker-desktop", Options{}); err == nil {
		t.Fatal("expected error for an unknown provider")
	}
	p, err := New("minikube", Options{Runner: lexec.NewFakeRunner()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() != "minikube" {
		t.Errorf("expected minikube, got %s", p.Name())
	}
	if !reflect.DeepEqual(Known(), []string{"kind", "minikube"}) {
		t.Errorf("unexpected known providers %v", Known())
	}
}

func TestKindProvider(t *testing.T) {
	fake := &fakeKind{
		clusters: []string{"llm-cluster"},
		nodes: map[string][]kindnodes.Node{
			"llm-cluster": {
				&fakeNode{name: "llm-cluster-worker", role: "worker"},
				&fakeNode{name: "llm-cluster-control-plane", role: "control-plane"},
			},
		},
	}
	p := &KindProvider{kind: fake}
	ctx := context.Background()

	exists, err := p.Exists(ctx, "llm-cluster")
	if err != nil || !exists {
		t.Fatalf("expected llm-cluster to exist, got %v, %v", exists, err)
	}

	s, err := p.Status(ctx, "llm-cluster")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Exists || len(s.Nodes) != 2 {
		t.Fatalf("unexpected status %+v", s)
	}
	if s.Nodes[0].Name != "llm-cluster-control-plane" || s.Nodes[0].Role != "control-plane" {
		t.Errorf("expected nodes sorted by name, got %s", s.Nodes[0].Name)
	}

	s, err = p.Status(ctx, "missing")
	if err != nil || s.Exists {
		t.Errorf("expected missing cluster to be reported without error, got %+v, %v", s, err)
	}

	if err := p.Create(ctx, CreateRequest{Name: "x"}); err == nil {
		t.Error("expected error when the kind config is missing")
	}
	req := CreateRequest{Name: "x", KindConfig: &kindv1alpha4.Cluster{}, WaitForReady: time.Minute}
	if err := p.Create(ctx, req); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	fake.createFn = func(string) error { return errors.New("boom") }
	if err := p.Create(ctx, req); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("expected create error, got %v", err)
	}

	kubeconfig, _ := p.KubeConfig(ctx, "llm-cluster")
	if kubeconfig != "kubeconfig-llm-cluster" {
		t.Errorf("unexpected kubeconfig %s", kubeconfig)
	}
}

func TestStartArgs(t *testing.T) {
	profile, _ := sizing.Lookup("large")
	args := StartArgs(CreateRequest{
		Name:              "llm",
		Profile:           profile,
		Driver:            "docker",
		KubernetesVersion: "v1.31.0",
		GPUs:              true,
		Addons:            []string{"ingress"},
		WaitForReady:      5 * time.Minute,
	})
	expected := []string{
		"start", "-p", "llm",
		"--cpus=16", "--memory=32768mb", "--disk-size=200g", "--nodes=2",
		"--driver=docker", "--kubernetes-version=v1.31.0", "--gpus=all",
		"--addons=ingress", "--wait=all", "--wait-timeout=5m0s",
	}
	if !reflect.DeepEqual(args, expected) {
		t.Errorf("expected %v, got %v", expected, args)
	}
}

func TestMinikubeList(t *testing.T) {
	cases := []struct {
		TestName  string
		Lines     []string
		Err       error
		Expected  []string
		ExpectErr bool
	}{
		{
			TestName: "profiles",
			Lines:    []string{`{"invalid":[],"valid":[{"Name":"llm","Status":"Running"},{"Name":"other","Status":"Stopped"}]}`},
			Expected: []string{"llm", "other"},
		},
		{
			TestName: "update notice before json",
			Lines:    []string{"minikube 1.35 is available!", `{"invalid":[],"valid":[{"Name":"llm"}]}`},
			Expected: []string{"llm"},
		},
		{
			TestName: "no profile",
			Lines:    []string{"X Exiting due to MK_USAGE_NO_PROFILE: No minikube profile was found."},
			Err:      errors.New("exit status 85"),
			Expected: []string{},
		},
		{
			TestName:  "failure",
			Err:       errors.New("exit status 1"),
			ExpectErr: true,
		},
	}

	for _, c := range cases {
		t.Run(c.TestName, func(t *testing.T) {
			runner := lexec.NewFakeRunner().On("minikube profile list", c.Lines, c.Err)
			p := NewMinikubeProvider(runner)
			names, err := p.List(context.Background())
			if c.ExpectErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(names, c.Expected) {
				t.Errorf("expected %v, got %v", c.Expected, names)
			}
		})
	}
}

func TestMinikubeStatus(t *testing.T) {
	profiles := []string{`{"invalid":[],"valid":[{"Name":"llm"}]}`}
	cases := []struct {
		TestName      string
		Lines         []string
		Err           error
		ExpectedHost  string
		ExpectedNodes int
	}{
		{
			TestName:      "single node",
			Lines:         []string{`{"Name":"llm","Host":"Running","Kubelet":"Running","APIServer":"Running","Kubeconfig":"Configured","Worker":false}`},
			ExpectedHost:  "Running",
			ExpectedNodes: 1,
		},
		{
			TestName: "multi node",
			Lines: []string{`[{"Name":"llm","Host":"Running","Kubelet":"Running","APIServer":"Running","Worker":false},` +
				`{"Name":"llm-m02","Host":"Running","Kubelet":"Running","Worker":true}]`},
			ExpectedHost:  "Running",
			ExpectedNodes: 2,
		},
		{
			TestName:      "stopped",
			Lines:         []string{`{"Name":"llm","Host":"Stopped","Kubelet":"Stopped","APIServer":"Stopped","Worker":false}`},
			Err:           errors.New("exit status 7"),
			ExpectedHost:  "Stopped",
			ExpectedNodes: 1,
		},
	}

	for _, c := range cases {
		t.Run(c.TestName, func(t *testing.T) {
			runner := lexec.NewFakeRunner().
				On("minikube profile list", profiles, nil).
				On("minikube status", c.Lines, c.Err)
			p := NewMinikubeProvider(runner)
			s, err := p.Status(context.Background(), "llm")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.Host != c.ExpectedHost {
				t.Errorf("expected host %s, got %s", c.ExpectedHost, s.Host)
			}
			if len(s.Nodes) != c.ExpectedNodes {
				t.Fatalf("expected %d nodes, got %d", c.ExpectedNodes, len(s.Nodes))
			}
			if s.Nodes[0].Role != "control-plane" {
				t.Errorf("expected first node to be the control-plane, got %s", s.Nodes[0].Role)
			}
		})
	}
}

func TestMinikubeCreateCleanup(t *testing.T) {
	profile, _ := sizing.Lookup("small")

	runner := lexec.NewFakeRunner().On("minikube start", nil, errors.New("exit status 80"))
	p := NewMinikubeProvider(runner)
	if err := p.Create(context.Background(), CreateRequest{Name: "llm", Profile: profile}); err == nil {
		t.Fatal("expected error, got nil")
	}
	if !runner.Ran("minikube delete -p llm") {
		t.Error("expected the failed cluster to be deleted")
	}

	runner = lexec.NewFakeRunner().On("minikube start", nil, errors.New("exit status 80"))
	p = NewMinikubeProvider(runner)
	_ = p.Create(context.Background(), CreateRequest{Name: "llm", Profile: profile, Retain: true})
	if runner.Ran("minikube delete") {
		t.Error("expected the failed cluster to be retained")
	}

	// interrupted start: the cleanup still runs after the context is canceled
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner = lexec.NewFakeRunner()
	p = NewMinikubeProvider(&cancelingRunner{FakeRunner: runner})
	if err := p.Create(ctx, CreateRequest{Name: "llm", Profile: profile}); err == nil {
		t.Fatal("expected error, got nil")
	}
	if !runner.Ran("minikube delete -p llm") {
		t.Errorf("expected the interrupted cluster to be deleted, commands %v", runner.Commands)
	}
}

// cancelingRunner fails minikube start as if interrupted, even if the fake would not run it
type cancelingRunner struct {
	*lexec.FakeRunner
}

func (r *cancelingRunner) RunWithEcho(ctx context.Context, name string, args ...string) error {
	if len(args) > 0 && args[0] == "start" {
		return context.Canceled
	}
	return r.FakeRunner.RunWithEcho(ctx, name, args...)
}
