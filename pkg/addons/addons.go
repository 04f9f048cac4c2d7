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

/*
Package addons implements the actions configuring a cluster after it is created:
namespaces, node labels, ingress and metrics-server for autoscaling.
*/
package addons

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/pkg/errors"
	"k8s.io/client-go/kubernetes"

	"github.com/llmkind/llmkind/pkg/constants"
	lexec "github.com/llmkind/llmkind/pkg/exec"
)

// Target defines the cluster where addons are installed
type Target struct {
	// Name of the cluster
	Name string

	// Provider of the cluster, kind or minikube
	Provider string

	// KubeConfigPath is a kubeconfig file for the cluster, used by helm
	KubeConfigPath string

	// Client for the cluster API server
	Client kubernetes.Interface

	// Runner executes helm and minikube
	Runner lexec.Runner

	// Out receives progress messages, os.Stdout when nil
	Out io.Writer
}

func (t *Target) out() io.Writer {
	if t.Out == nil {
		return os.Stdout
	}
	return t.Out
}

// addon registry defines the list of available addons and the corresponding entry point.
var addonRegistry = map[string]func(context.Context, *Target, *RunOptions) error{
	"namespace": func(ctx context.Context, t *Target, o *RunOptions) error {
		return EnsureNamespace(ctx, t.Client, o.namespace)
	},
	"node-labels": func(ctx context.Context, t *Target, o *RunOptions) error {
		return LabelInferenceNodes(ctx, t.Client)
	},
	"ingress": func(ctx context.Context, t *Target, o *RunOptions) error {
		return Ingress(ctx, t, o.wait)
	},
	"metrics-server": func(ctx context.Context, t *Target, o *RunOptions) error {
		return MetricsServer(ctx, t, o.wait)
	},
	"wait-ready": func(ctx context.Context, t *Target, o *RunOptions) error {
		fmt.Fprintf(t.out(), "Waiting for nodes to become Ready (timeout %s)\n", o.wait)
		return WaitNodesReady(ctx, t.Client, o.wait)
	},
}

// DefaultAddons are the addons installed by cluster create when none are specified
var DefaultAddons = []string{"namespace", "node-labels", "ingress", "metrics-server"}

// Known returns the list of known addons
func Known() []string {
	names := []string{}
	for n := range addonRegistry {
		names = append(names, n)
	}
	sort.Strings(names)

	return names
}

// Validate returns an error if any of the addon names is not known
func Validate(names ...string) error {
	for _, n := range names {
		if _, ok := addonRegistry[n]; !ok {
			return errors.Errorf("%s is not a valid addon name. Use one of %s", n, Known())
		}
	}
	return nil
}

// Option is configuration option supplied to addons.Run
type Option func(*RunOptions)

// Wait option instructs addons to wait for the cluster state to converge to the desired state
func Wait(wait time.Duration) Option {
	return func(r *RunOptions) {
		r.wait = wait
	}
}

// Namespace option sets the namespace created by the namespace addon
func Namespace(namespace string) Option {
	return func(r *RunOptions) {
		r.namespace = namespace
	}
}

// RunOptions holds options supplied to addons.Run
type RunOptions struct {
	wait      time.Duration
	namespace string
}

// Run executes a list of addons, in order. All the names are validated before anything runs.
func Run(ctx context.Context, t *Target, names []string, options ...Option) error {
	if err := Validate(names...); err != nil {
		return err
	}

	o := &RunOptions{
		wait:      constants.DefaultWaitForReady,
		namespace: constants.DefaultNamespace,
	}
	for _, option := range options {
		option(o)
	}

	for _, n := range names {
		if t.Client == nil && n != "ingress" && n != "metrics-server" {
			return errors.Errorf("addon %s requires access to the cluster API server", n)
		}
		fmt.Fprintf(t.out(), "Installing addon %s on %s cluster %s\n", n, t.Provider, t.Name)
		if err := addonRegistry[n](ctx, t, o); err != nil {
			return errors.Wrapf(err, "failed to install addon %s", n)
		}
	}
	return nil
}
