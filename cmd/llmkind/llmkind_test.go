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

package llmkind

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewCommand(t *testing.T) {
	cmd := NewCommand()
	expected := []string{"addon", "check", "cluster", "config", "deploy", "version", "workflow"}
	for _, name := range expected {
		found := false
		for _, c := range cmd.Commands() {
			if c.Name() == name {
				found = true
			}
		}
		if !found {
			t.Errorf("expected sub command %s", name)
		}
	}
}

func TestRunCommands(t *testing.T) {
	cases := []struct {
		TestName    string
		Args        []string
		Expected    []string
		ExpectError bool
	}{
		{
			TestName: "config render",
			Args:     []string{"config", "render", "--size", "medium", "--http-port", "8080", "--https-port", "8443"},
			Expected: []string{"kind: Cluster", "hostPort: 8080", "role: worker", "llmkind.io/inference"},
		},
		{
			TestName: "config render help",
			Args:     []string{"config", "render", "--help"},
			Expected: []string{"llmkind cluster create --kind-config"},
		},
		{
			TestName:    "config render with conflicting ports",
			Args:        []string{"config", "render", "--http-port", "8080", "--https-port", "8080"},
			ExpectError: true,
		},
		{
			TestName: "addon list",
			Args:     []string{"addon", "list"},
			Expected: []string{"ingress", "metrics-server", "node-labels"},
		},
		{
			TestName:    "addon install unknown",
			Args:        []string{"addon", "install", "gpu-operator"},
			ExpectError: true,
		},
		{
			TestName: "workflow list",
			Args:     []string{"workflow", "list"},
			Expected: []string{"small-complete", "destroy"},
		},
		{
			TestName: "workflow dry run",
			Args:     []string{"workflow", "run", "medium", "--dry-run"},
			Expected: []string{"# task-0-check", "cluster create --size medium --skip-checks"},
		},
		{
			TestName: "workflow verify",
			Args:     []string{"workflow", "verify", "small", "destroy"},
			Expected: []string{"small OK", "destroy OK"},
		},
		{
			TestName:    "workflow unknown",
			Args:        []string{"workflow", "run", "xlarge"},
			ExpectError: true,
		},
		{
			TestName: "version",
			Args:     []string{"version"},
			Expected: []string{"llmkind v"},
		},
	}

	for _, c := range cases {
		t.Run(c.TestName, func(t *testing.T) {
			t.Setenv("LLMKIND_STATE_DIR", t.TempDir())

			out := &bytes.Buffer{}
			cmd := NewCommand()
			cmd.SetOut(out)
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(c.Args)

			err := cmd.Execute()
			if c.ExpectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, s := range c.Expected {
				if !strings.Contains(out.String(), s) {
					t.Errorf("expected %q in output:\n%s", s, out.String())
				}
			}
		})
	}
}
