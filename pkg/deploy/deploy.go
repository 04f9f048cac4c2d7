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

// Package deploy applies workload manifests to a llmkind cluster
package deploy

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"k8s.io/client-go/kubernetes"

	"github.com/llmkind/llmkind/pkg/addons"
	"github.com/llmkind/llmkind/pkg/cluster/status"
	"github.com/llmkind/llmkind/pkg/constants"
	lexec "github.com/llmkind/llmkind/pkg/exec"
)

// Options for Apply
type Options struct {
	// KubeConfigPath is the kubeconfig file for the target cluster
	KubeConfigPath string

	// Manifest is a file, a directory or an http(s) URL
	Manifest string

	// Namespace where the manifest is applied; it is created if missing
	Namespace string

	// Client for the target cluster; when nil it is created from KubeConfigPath
	Client kubernetes.Interface

	// Runner executes kubectl
	Runner lexec.Runner

	// DryRun prints the actions without changing the cluster
	DryRun bool

	// Out receives progress messages, os.Stdout when nil
	Out io.Writer
}

// Apply ensures the target namespace exists then applies the manifest with kubectl
func Apply(ctx context.Context, o Options) error {
	if o.Manifest == "" {
		return errors.New("a manifest is required")
	}
	if !isURL(o.Manifest) {
		if _, err := os.Stat(o.Manifest); err != nil {
			return errors.Wrapf(err, "manifest %s is not accessible", o.Manifest)
		}
	}
	if o.Namespace == "" {
		o.Namespace = constants.DefaultNamespace
	}
	if o.Runner == nil {
		o.Runner = lexec.NewHostRunner(o.DryRun)
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}

	if o.DryRun {
		fmt.Fprintf(o.Out, "Would ensure namespace %s\n", o.Namespace)
	} else {
		client := o.Client
		if client == nil {
			kubeconfig, err := os.ReadFile(o.KubeConfigPath)
			if err != nil {
				return errors.Wrapf(err, "failed to read kubeconfig %s", o.KubeConfigPath)
			}
			client, err = status.ClientFromKubeConfig(string(kubeconfig))
			if err != nil {
				return err
			}
		}
		if err := addons.EnsureNamespace(ctx, client, o.Namespace); err != nil {
			return err
		}
	}

	args := []string{"apply", "-f", o.Manifest, "-n", o.Namespace}
	if o.KubeConfigPath != "" {
		args = append(args, "--kubeconfig", o.KubeConfigPath)
	}
	if err := o.Runner.RunWithEcho(ctx, "kubectl", args...); err != nil {
		return errors.Wrapf(err, "failed to apply %s", o.Manifest)
	}
	return nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
