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

package exec

import (
	"context"
	"os/exec"
	"strings"
	"testing"
)

func TestHostCmdRunAndCapture(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	lines, err := NewHostCmd(context.Background(), "sh", "-c", "echo foo; echo bar").Silent().RunAndCapture()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(lines, ",") != "foo,bar" {
		t.Errorf("expected [foo bar], found %v", lines)
	}
}

func TestHostCmdDryRun(t *testing.T) {
	// a command that does not exist would fail if executed
	err := NewHostCmd(context.Background(), "llmkind-does-not-exist").Silent().DryRun().Run()
	if err != nil {
		t.Errorf("expected dry run to skip execution, found %v", err)
	}
}

func TestHostRunnerErrorIncludesOutput(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	_, err := NewHostRunner(false).Output(context.Background(), "sh", "-c", "echo boom; exit 3")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("expected error to contain command output, found %v", err)
	}
}

func TestFakeRunner(t *testing.T) {
	r := NewFakeRunner().
		On("minikube", []string{"generic"}, nil).
		On("minikube status", []string{"specific"}, nil)

	lines, _ := r.Output(context.Background(), "minikube", "status", "-p", "x")
	if len(lines) != 1 || lines[0] != "specific" {
		t.Errorf("expected longest prefix match, found %v", lines)
	}
	if !r.Ran("minikube status -p x") {
		t.Errorf("expected command to be recorded, found %v", r.Commands)
	}
}

func TestHostRunnerOutputIgnoresStderr(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	script := `echo '{"valid": []}'; echo '! Executing "docker container inspect" took an unusually long time' >&2`
	lines, err := NewHostRunner(false).Output(context.Background(), "sh", "-c", script)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(lines, "\n") != `{"valid": []}` {
		t.Errorf("expected only stdout, found %v", lines)
	}

	_, err = NewHostRunner(false).Output(context.Background(), "sh", "-c", "echo partial; echo broken >&2; exit 1")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "broken") || !strings.Contains(err.Error(), "partial") {
		t.Errorf("expected error to contain stdout and stderr, found %v", err)
	}
}
