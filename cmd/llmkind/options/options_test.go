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

package options

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/cobra"
)

func newTestCommand() (*cobra.Command, *ClusterFlags, *SizeFlags) {
	cluster := &ClusterFlags{}
	size := &SizeFlags{}
	cmd := &cobra.Command{Use: "test"}
	AddClusterFlags(cmd, cluster)
	AddSizeFlags(cmd, size)
	var addons []string
	cmd.Flags().StringSliceVar(&addons, "addons", []string{"namespace"}, "")
	return cmd, cluster, size
}

func TestApply(t *testing.T) {
	Viper = newViper()
	t.Setenv("LLMKIND_STATE_DIR", t.TempDir())

	file := filepath.Join(t.TempDir(), "config.yaml")
	content := "provider: minikube\nname: from-file\nsize: large\naddons:\n- ingress\n- metrics-server\n"
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := LoadConfigFile(file); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Setenv("LLMKIND_NAME", "from-env")

	cmd, cluster, size := newTestCommand()
	if err := cmd.Flags().Parse([]string{"--size", "medium"}); err != nil {
		t.Fatal(err)
	}
	if err := Apply(cmd.Flags()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// flag > env > file > default
	if size.Size != "medium" {
		t.Errorf("expected size from flag, got %s", size.Size)
	}
	if cluster.Name != "from-env" {
		t.Errorf("expected name from env, got %s", cluster.Name)
	}
	if cluster.Provider != "minikube" {
		t.Errorf("expected provider from file, got %s", cluster.Provider)
	}
	addons, _ := cmd.Flags().GetStringSlice("addons")
	if !reflect.DeepEqual(addons, []string{"ingress", "metrics-server"}) {
		t.Errorf("expected addons from file, got %v", addons)
	}
	if cluster.KindRuntime != "" {
		t.Errorf("expected default kind runtime, got %s", cluster.KindRuntime)
	}
}

func TestLoadConfigFileMissingDefault(t *testing.T) {
	Viper = newViper()
	t.Setenv("LLMKIND_STATE_DIR", t.TempDir())

	if err := LoadConfigFile(""); err != nil {
		t.Errorf("expected missing default config file to be ignored, got %v", err)
	}
	if err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing explicit config file")
	}
}

func TestSizeFlagsProfile(t *testing.T) {
	Viper = newViper()

	cases := []struct {
		TestName        string
		Args            []string
		Env             map[string]string
		ExpectedCPs     int
		ExpectedWorkers int
		ExpectedCPUs    int
		ExpectError     bool
	}{
		{
			TestName:        "preset",
			Args:            []string{"--size", "medium"},
			ExpectedCPs:     1,
			ExpectedWorkers: 2,
			ExpectedCPUs:    8,
		},
		{
			TestName:        "node counts from env",
			Env:             map[string]string{"LLMKIND_WORKER_NODES": "3", "LLMKIND_CONTROL_PLANE_NODES": "3"},
			ExpectedCPs:     3,
			ExpectedWorkers: 3,
			ExpectedCPUs:    4,
		},
		{
			TestName:        "flag wins over env",
			Args:            []string{"--worker-nodes", "2"},
			Env:             map[string]string{"LLMKIND_WORKER_NODES": "3"},
			ExpectedCPs:     1,
			ExpectedWorkers: 2,
			ExpectedCPUs:    4,
		},
		{
			TestName:    "zero control planes from env",
			Env:         map[string]string{"LLMKIND_CONTROL_PLANE_NODES": "0"},
			ExpectError: true,
		},
		{
			TestName:        "zero workers",
			Args:            []string{"--size", "medium", "--worker-nodes", "0", "--cpus", "6"},
			ExpectedCPs:     1,
			ExpectedWorkers: 0,
			ExpectedCPUs:    6,
		},
		{
			TestName:    "unknown size",
			Args:        []string{"--size", "huge"},
			ExpectError: true,
		},
		{
			TestName:    "negative workers",
			Args:        []string{"--worker-nodes", "-1"},
			ExpectError: true,
		},
		{
			TestName:    "zero control planes",
			Args:        []string{"--control-plane-nodes", "0"},
			ExpectError: true,
		},
	}

	for _, c := range cases {
		t.Run(c.TestName, func(t *testing.T) {
			Viper = newViper()
			for k, v := range c.Env {
				t.Setenv(k, v)
			}
			cmd, _, size := newTestCommand()
			if err := cmd.Flags().Parse(c.Args); err != nil {
				t.Fatal(err)
			}
			if err := Apply(cmd.Flags()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			p, err := size.Profile(cmd)
			if c.ExpectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.ControlPlanes != c.ExpectedCPs || p.Workers != c.ExpectedWorkers || p.CPUs != c.ExpectedCPUs {
				t.Errorf("unexpected profile %+v", p)
			}
		})
	}
}
