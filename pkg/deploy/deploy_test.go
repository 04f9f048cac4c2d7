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

package deploy

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	lexec "github.com/llmkind/llmkind/pkg/exec"
)

func TestApply(t *testing.T) {
	manifest := filepath.Join(t.TempDir(), "vllm.yaml")
	if err := os.WriteFile(manifest, []byte("apiVersion: v1\nkind: ConfigMap\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	client := fake.NewSimpleClientset()
	runner := lexec.NewFakeRunner()
	err := Apply(context.Background(), Options{
		KubeConfigPath: "/tmp/kubeconfig",
		Manifest:       manifest,
		Client:         client,
		Runner:         runner,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := client.CoreV1().Namespaces().Get(context.Background(), "llm", metav1.GetOptions{}); err != nil {
		t.Errorf("expected default namespace to be created, got %v", err)
	}
	expected := "kubectl apply -f " + manifest + " -n llm --kubeconfig /tmp/kubeconfig"
	if len(runner.Commands) != 1 || runner.Commands[0] != expected {
		t.Errorf("expected %q, got %v", expected, runner.Commands)
	}
}

func TestApplyInvalid(t *testing.T) {
	cases := []struct {
		TestName string
		Options  Options
	}{
		{
			TestName: "missing manifest",
			Options:  Options{},
		},
		{
			TestName: "manifest not found",
			Options:  Options{Manifest: filepath.Join(t.TempDir(), "missing.yaml")},
		},
	}

	for _, c := range cases {
		t.Run(c.TestName, func(t *testing.T) {
			runner := lexec.NewFakeRunner()
			c.Options.Runner = runner
			c.Options.Client = fake.NewSimpleClientset()
			if err := Apply(context.Background(), c.Options); err == nil {
				t.Fatal("expected error, got nil")
			}
			if len(runner.Commands) != 0 {
				t.Errorf("expected no commands, got %v", runner.Commands)
			}
		})
	}
}

func TestApplyDryRunURL(t *testing.T) {
	runner := lexec.NewFakeRunner()
	out := &bytes.Buffer{}
	err := Apply(context.Background(), Options{
		Manifest:  "https://example.com/vllm.yaml",
		Namespace: "inference",
		Runner:    runner,
		DryRun:    true,
		Out:       out,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "Would ensure namespace inference\n" {
		t.Errorf("unexpected output %q", out.String())
	}
	if !runner.Ran("kubectl apply -f https://example.com/vllm.yaml -n inference") {
		t.Errorf("unexpected commands %v", runner.Commands)
	}
}
